package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDoc is one ingested regulation document.
type KnowledgeDoc struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Chunks    int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// KnowledgeChunk is one indexed slice of a document.
type KnowledgeChunk struct {
	Id        uuid.UUID
	DocId     uuid.UUID
	DocTitle  string
	Ord       int
	Text      string
	CreatedAt time.Time
}
