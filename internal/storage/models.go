package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is a single question/answer exchange recorded for a user.
type Interaction struct {
	ID         string
	UserID     string
	Capability string
	Query      string
	Response   string
	Status     string // "completed" or "failed"
	CreatedAt  time.Time
}

// RetentionLimit is the maximum number of interactions kept per user.
// Older rows are pruned on insert, oldest first.
const RetentionLimit = 50
