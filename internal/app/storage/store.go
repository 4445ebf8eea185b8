package storage

import (
	"context"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
)

// Artifact is one stored upload. It lives only for the duration of a single
// pipeline run and is exclusively owned by that run.
type Artifact struct {
	Path     string
	Name     string
	MimeType string
	Size     int64
}

// Store persists admitted uploads as temporary artifacts.
type Store interface {
	// Store writes the admitted payload and returns the artifact only once
	// it is complete. Partial writes never become visible.
	Store(ctx context.Context, admitted *upload.Admitted) (*Artifact, error)
	// Release deletes the artifact. It is idempotent and never fails;
	// problems are logged.
	Release(ctx context.Context, artifact *Artifact)
}
