package document

import (
	"context"
	"io"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Source resolves and downloads remote files.
type Source interface {
	Metadata(ctx context.Context, id string) (domain.FileMeta, error)
	Export(ctx context.Context, id, mimeType string) (io.ReadCloser, error)
	Download(ctx context.Context, id string) (io.ReadCloser, error)
}
