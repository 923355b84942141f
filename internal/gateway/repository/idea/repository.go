package idea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/pipeline"
)

// Store persists ideas a user chose to keep. Every operation is scoped to
// the owning user.
type Store interface {
	Save(ctx context.Context, idea Idea) (Idea, error)
	Get(ctx context.Context, userID entity.UserID, id string) (Idea, error)
	List(ctx context.Context, userID entity.UserID) ([]Idea, error)
	Delete(ctx context.Context, userID entity.UserID, id string) error
}

var ErrNotFound = errors.New("idea not found")

// Idea is a saved GeneratedIdea plus ownership and provenance.
type Idea struct {
	ID          string            `json:"id"`
	UserID      entity.UserID     `json:"user_id"`
	Method      pipeline.MethodID `json:"method"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Score       int               `json:"score"`
	NoteA       *string           `json:"note_a,omitempty"`
	NoteB       *string           `json:"note_b,omitempty"`
	NoteC       *string           `json:"note_c,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// FromGenerated copies a generated idea into a record owned by userID.
func FromGenerated(userID entity.UserID, method pipeline.MethodID, g pipeline.GeneratedIdea) Idea {
	return Idea{
		UserID:      userID,
		Method:      method,
		Title:       g.Title,
		Description: g.Description,
		Score:       g.Score,
		NoteA:       g.NoteA,
		NoteB:       g.NoteB,
		NoteC:       g.NoteC,
	}
}

// prepare validates an idea for Save and fills its id and timestamp.
func prepare(in Idea, now time.Time) (Idea, error) {
	in.UserID = entity.NormalizeUserID(string(in.UserID))
	in.Title = strings.TrimSpace(in.Title)
	in.ID = strings.TrimSpace(in.ID)
	if in.UserID.IsZero() {
		return Idea{}, fmt.Errorf("user_id is required")
	}
	if in.Title == "" {
		return Idea{}, fmt.Errorf("title is required")
	}
	if in.Method == "" {
		return Idea{}, fmt.Errorf("method is required")
	}
	if in.Score < 1 || in.Score > 10 {
		in.Score = pipeline.DefaultScore
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	} else if _, err := uuid.Parse(in.ID); err != nil {
		return Idea{}, fmt.Errorf("invalid id %q: %w", in.ID, err)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.CreatedAt = in.CreatedAt.UTC()
	return in, nil
}

func checkKey(userID entity.UserID, id string) error {
	if userID.IsZero() {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}
