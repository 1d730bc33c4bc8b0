package agent

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/socialfactory/rangers/pkg/memory"
	"github.com/socialfactory/rangers/pkg/personas"
	"github.com/socialfactory/rangers/pkg/providers"
)

const notSpecified = "ไม่ระบุ"

// Attachment is a user-supplied file riding along with a question.
// Data is base64, optionally prefixed data-URL style ("...,<payload>").
type Attachment struct {
	Name string
	Type string
	Size int64
	Data string
}

// Turn is one entry of conversation history as the engine sees it.
type Turn struct {
	Role    string
	Content string
}

// ContextBuilder renders brand knowledge into the prompt material each
// persona answers from.
type ContextBuilder struct {
	historyWindow int
}

func NewContextBuilder(historyWindow int) *ContextBuilder {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &ContextBuilder{historyWindow: historyWindow}
}

// BuildContextMessage renders the brand block plus the behavioral rules
// for the selected persona. A nil brand yields the guest block.
func (cb *ContextBuilder) BuildContextMessage(persona *personas.Persona, brand *memory.BrandProfile) string {
	var b strings.Builder

	b.WriteString("## ข้อมูลธุรกิจของผู้ใช้")
	if brand == nil {
		b.WriteString("\n- ชื่อแบรนด์: แบรนด์ของคุณ")
		b.WriteString("\n- อุตสาหกรรม: " + notSpecified)
		b.WriteString("\n- จุดเด่น (USP): " + notSpecified)
		b.WriteString("\n- กลุ่มลูกค้า: " + notSpecified)
		b.WriteString("\n\n⚠️ ยังไม่มีข้อมูลแบรนด์ที่สมบูรณ์ — ให้ถามผู้ใช้เพิ่มเติม")
	} else {
		name := brand.NameLocal
		if brand.NameInternational != "" {
			name += fmt.Sprintf(" (%s)", brand.NameInternational)
		}
		b.WriteString("\n- ชื่อแบรนด์: " + name)
		b.WriteString("\n- อุตสาหกรรม: " + orNotSpecified(brand.Industry))
		b.WriteString("\n- จุดเด่น (USP): " + orNotSpecified(brand.CoreUSP))
		b.WriteString("\n- กลุ่มลูกค้า: " + orNotSpecified(brand.TargetAudience))
		if brand.ToneOfVoice != "" {
			b.WriteString("\n- โทนเสียง: " + brand.ToneOfVoice)
		}
		if len(brand.ForbiddenWords) > 0 {
			b.WriteString("\n- คำต้องห้าม: " + strings.Join(brand.ForbiddenWords, ", "))
		}
		if len(brand.Competitors) > 0 {
			b.WriteString("\n- คู่แข่ง: " + strings.Join(brand.Competitors, ", "))
		}
		if len(brand.PainPoints) > 0 {
			b.WriteString("\n- Pain Points ลูกค้า: " + strings.Join(brand.PainPoints, ", "))
		}
		if brand.TargetPersonaDescription != "" {
			b.WriteString("\n- Persona: " + brand.TargetPersonaDescription)
		}
	}

	b.WriteString("\n\n## คำสั่งสำหรับ " + persona.Name)
	b.WriteString("\n1. ตอบเป็นภาษาไทยเป็นหลัก")
	b.WriteString("\n2. ใช้ข้อมูลแบรนด์ด้านบนทุกครั้ง อย่าสมมติข้อมูลเอง")
	b.WriteString("\n3. สร้าง output ที่ copy ไปใช้งานได้เลย ไม่ใช่แค่ทฤษฎี")
	b.WriteString("\n4. ถามทีละ 1-2 คำถาม ไม่ถามทีเดียวหลายข้อ")
	b.WriteString("\n5. ตอบตรงๆ กระชับ ไม่เกริ่นยาว")

	return b.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

// BuildMessages assembles the provider message list. The brand context
// rides on the first user message only; later turns carry bare text.
// History is normalized: must start with a user turn and alternate roles,
// then windowed to the newest turns.
func (cb *ContextBuilder) BuildMessages(userInput, contextMsg string, history []Turn, attachments []Attachment) []providers.Message {
	messages := []providers.Message{}

	if len(history) == 0 {
		first := contextMsg + "\n\n---\nคำถาม: " + userInput
		messages = append(messages, cb.userMessage(first, attachments))
		return messages
	}

	valid := history
	if valid[0].Role != providers.RoleUser {
		valid = valid[1:]
	}
	trimmed := make([]Turn, 0, len(valid))
	for _, turn := range valid {
		if len(trimmed) > 0 && trimmed[len(trimmed)-1].Role == turn.Role {
			continue
		}
		trimmed = append(trimmed, turn)
	}
	if len(trimmed) > cb.historyWindow {
		trimmed = trimmed[len(trimmed)-cb.historyWindow:]
	}

	for _, turn := range trimmed {
		messages = append(messages, providers.TextMessage(turn.Role, turn.Content))
	}
	messages = append(messages, cb.userMessage(userInput, attachments))
	return messages
}

func (cb *ContextBuilder) userMessage(text string, attachments []Attachment) providers.Message {
	blocks := []providers.ContentBlock{providers.TextBlock(text)}

	for _, att := range attachments {
		if att.Data == "" {
			continue
		}
		if strings.HasPrefix(att.Type, "image/") {
			payload := att.Data
			if idx := strings.Index(payload, ","); idx >= 0 {
				payload = payload[idx+1:]
			}
			blocks = append(blocks, providers.ImageBlock(att.Type, payload))
			continue
		}

		raw := att.Data
		if idx := strings.Index(raw, ","); idx >= 0 {
			raw = raw[idx+1:]
		}
		text := raw
		if att.Type == "text/plain" {
			decoded, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				// Undecodable attachment is skipped, not fatal.
				continue
			}
			text = string(decoded)
		}
		blocks = append(blocks, providers.TextBlock(fmt.Sprintf("\n\n[ไฟล์แนบ: %s]\n%s", att.Name, text)))
	}

	return providers.Message{Role: providers.RoleUser, Content: blocks}
}
