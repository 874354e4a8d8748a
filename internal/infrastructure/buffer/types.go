package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityNotification = "notification"
	EntityActivityLog  = "activity_log"

	OperationCreate = "create"
	OperationUpsert = "upsert"

	// PriorityHigh drains before PriorityNormal; lower sorts first.
	PriorityHigh   = 1
	PriorityNormal = 3
)

// Item is a write that failed against Postgres and waits to be replayed.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	GoalID    string          `json:"goal_id,omitempty"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = PriorityNormal
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
