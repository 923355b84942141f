package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ideaforge/internal/gateway/entity"
	"ideaforge/internal/llm"
	"ideaforge/internal/pipeline"
)

// Store keeps a JSON record of every completed generation.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, userID entity.UserID, id string) (Record, error)
	List(ctx context.Context, userID entity.UserID) ([]string, error)
}

var ErrNotFound = errors.New("archive record not found")

// Record is one generation as returned to the caller, with its prompt.
type Record struct {
	ID         string                   `json:"id"`
	UserID     entity.UserID            `json:"user_id"`
	Method     pipeline.MethodID        `json:"method"`
	Language   string                   `json:"language"`
	Prompt     string                   `json:"prompt"`
	Ideas      []pipeline.GeneratedIdea `json:"ideas"`
	JoinMisses []pipeline.JoinMiss      `json:"join_misses,omitempty"`
	Calls      []llm.CallStat           `json:"calls,omitempty"`
	ElapsedMS  int64                    `json:"elapsed_ms"`
	CreatedAt  time.Time                `json:"created_at"`
}

func (r Record) validate() error {
	if entity.NormalizeUserID(string(r.UserID)).IsZero() {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

func encode(r Record) ([]byte, error) {
	return json.Marshal(r)
}

func decode(raw []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("decode archive record: %w", err)
	}
	return r, nil
}

func objectKey(userID entity.UserID, id string) string {
	return userPrefix(userID) + strings.TrimSpace(id) + ".json"
}

func userPrefix(userID entity.UserID) string {
	return strings.TrimSuffix(userID.String(), "/") + "/"
}
