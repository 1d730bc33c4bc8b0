package memory

import (
	"context"
	"errors"
	"time"
)

// ErrBrandNotFound is returned when no profile matches the given id.
var ErrBrandNotFound = errors.New("brand profile not found")

// ErrBrandLimit is returned when a user already holds the maximum number
// of brand profiles.
var ErrBrandLimit = errors.New("brand profile limit reached")

// Store is the persistence surface the response engine talks to.
type Store interface {
	SaveBrandProfile(ctx context.Context, profile BrandProfile) (BrandProfile, error)
	GetBrandProfile(ctx context.Context, id string) (BrandProfile, error)
	ListBrandProfiles(ctx context.Context, userID string) ([]BrandProfile, error)
	DeleteBrandProfile(ctx context.Context, id string) error

	AppendTurn(ctx context.Context, rec MessageRecord) error
	ListRecentTurns(ctx context.Context, userID, personaID string, limit int) ([]MessageRecord, error)
	ClearHistory(ctx context.Context, userID, personaID string) (int, error)

	SaveArtifact(ctx context.Context, rec ArtifactRecord) error
	ListArtifacts(ctx context.Context, userID string, limit int) ([]ArtifactRecord, error)

	SweepRetention(ctx context.Context, messageTTL, artifactTTL time.Duration) (SweepResult, error)
	Close() error
}
