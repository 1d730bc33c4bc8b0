package memory

import "time"

// VisualStyle describes the visual identity captured during onboarding.
type VisualStyle struct {
	PrimaryColor      string   `json:"primaryColor,omitempty"`
	SecondaryColors   []string `json:"secondaryColors,omitempty"`
	MoodKeywords      []string `json:"moodKeywords,omitempty"`
	FontFamily        string   `json:"fontFamily,omitempty"`
	VideoStyle        string   `json:"videoStyle,omitempty"`
	ForbiddenElements []string `json:"forbiddenElements,omitempty"`
}

// BrandProfile is the onboarded brand identity every persona answers under.
type BrandProfile struct {
	ID                       string      `json:"id"`
	UserID                   string      `json:"userId"`
	NameLocal                string      `json:"nameLocal"`
	NameInternational        string      `json:"nameInternational,omitempty"`
	Industry                 string      `json:"industry,omitempty"`
	CoreUSP                  string      `json:"coreUSP,omitempty"`
	TargetAudience           string      `json:"targetAudience,omitempty"`
	TargetPersonaDescription string      `json:"targetPersonaDescription,omitempty"`
	ToneOfVoice              string      `json:"toneOfVoice,omitempty"`
	Competitors              []string    `json:"competitors,omitempty"`
	PainPoints               []string    `json:"painPoints,omitempty"`
	ForbiddenWords           []string    `json:"forbiddenWords,omitempty"`
	BrandHashtags            []string    `json:"brandHashtags,omitempty"`
	VisualStyle              VisualStyle `json:"visualStyle,omitempty"`
	CreatedAt                time.Time   `json:"-"`
	UpdatedAt                time.Time   `json:"-"`
}

// MessageRecord is one persisted conversation turn.
type MessageRecord struct {
	ID        string
	UserID    string
	PersonaID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// ArtifactRecord is a named work product a persona produced in its output.
type ArtifactRecord struct {
	ID        string
	UserID    string
	PersonaID string
	Name      string
	Content   string
	CreatedAt time.Time
}

// SweepResult reports what a retention pass removed.
type SweepResult struct {
	MessagesDeleted  int
	ArtifactsDeleted int
}
