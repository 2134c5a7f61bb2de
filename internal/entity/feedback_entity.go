package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is the trainee's post-session rating and comment.
type Feedback struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}
