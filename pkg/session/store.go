// Package session keeps the chat answers of a visitor between requests.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Data is everything the question flow remembers for one visitor.
type Data struct {
	ProjectDescription string          `json:"project_description,omitempty"`
	DeveloperLevel     string          `json:"developer_level,omitempty"`
	SoftwareType       string          `json:"software_type,omitempty"`
	Framework          string          `json:"framework,omitempty"`
	PlanID             string          `json:"plan_id,omitempty"`
	PlanData           json.RawMessage `json:"plan_data,omitempty"`
	AvatarIDs          []string        `json:"avatar_ids,omitempty"`
}

type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
