package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ManojKumarRabidas/Vyakaranaa/internal/app/upload"
	"github.com/ManojKumarRabidas/Vyakaranaa/internal/config"
)

const (
	partSuffix = ".part"
	copyChunk  = 32 * 1024
)

// DiskStore keeps artifacts in a local directory so subprocess engines can
// read them by path.
type DiskStore struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

var _ Store = (*DiskStore)(nil)

// NewDiskStore creates a store rooted at cfg.Dir enforcing maxBytes on the
// actual number of bytes written.
func NewDiskStore(cfg config.Storage, maxBytes int64, logger *zap.Logger) *DiskStore {
	return &DiskStore{
		dir:      cfg.Dir,
		maxBytes: maxBytes,
		logger:   logger.Named("storage"),
	}
}

// Dir returns the directory artifacts are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Store(ctx context.Context, admitted *upload.Admitted) (*Artifact, error) {
	if admitted == nil || admitted.Body == nil {
		return nil, upload.Reject(upload.KindMissingPayload, "no audio provided")
	}
	name := filepath.Base(admitted.ArtifactName)
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid artifact name %q", admitted.ArtifactName)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	finalPath := filepath.Join(s.dir, name)
	partPath := filepath.Join(s.dir, "."+name+partSuffix)

	f, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}

	written, err := copyWithContext(ctx, f, io.LimitReader(admitted.Body, s.maxBytes+1))
	if err == nil && written > s.maxBytes {
		err = upload.Reject(upload.KindPayloadTooLarge, "payload exceeds limit of %d bytes", s.maxBytes)
	}
	if err == nil && written == 0 {
		err = upload.Reject(upload.KindMissingPayload, "no audio provided")
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(partPath, finalPath)
	}
	if err != nil {
		s.remove(partPath)
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, upload.Reject(upload.KindPayloadTooLarge, "request body exceeds limit of %d bytes", maxBytesErr.Limit)
		}
		var rejectErr *upload.RejectError
		if errors.As(err, &rejectErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	s.logger.Debug("artifact stored",
		zap.String("artifact", name),
		zap.Int64("bytes", written),
	)

	return &Artifact{
		Path:     finalPath,
		Name:     name,
		MimeType: admitted.MimeType,
		Size:     written,
	}, nil
}

func (s *DiskStore) Release(_ context.Context, artifact *Artifact) {
	if artifact == nil || artifact.Path == "" {
		return
	}
	s.remove(artifact.Path)
}

func (s *DiskStore) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove artifact",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// Sweep deletes files in the upload directory last modified before
// olderThan ago. Leftovers only exist after a crash; it returns how many
// files were removed.
func (s *DiskStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read upload directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("sweep: failed to remove stale file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("removed stale uploads", zap.Int("count", removed), zap.String("dir", s.dir))
	}
	return removed, nil
}

// copyWithContext copies src to dst, aborting between chunks once ctx is done.
func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, copyChunk)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
