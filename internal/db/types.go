package db

import (
	"time"

	"github.com/google/uuid"
)

// ContentTypePDF is the content type of rendered artifacts.
const ContentTypePDF = "application/pdf"

// Artifact is a stored render of an emission. Content is only loaded by
// GetLatestArtifact; listings leave it nil.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	EmissionID  uuid.UUID `json:"emission_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	PageCount   int       `json:"page_count"`
	SizeBytes   int       `json:"size_bytes"`
	Engine      string    `json:"engine,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Content     []byte    `json:"-"`
}

// ArtifactInput is the data needed to persist a render.
type ArtifactInput struct {
	Filename  string
	PDF       []byte
	PageCount int
	Engine    string
}
