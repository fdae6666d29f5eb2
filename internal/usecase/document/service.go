package document

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kailas-cloud/topicd/internal/domain"
	"github.com/kailas-cloud/topicd/internal/logger"
	"github.com/kailas-cloud/topicd/internal/metrics"
)

const defaultFetchTimeout = 30 * time.Second

// Service fetches documents best-effort: a file that cannot be resolved,
// downloaded or decoded is omitted, never reported to the caller.
type Service struct {
	source       Source
	fetchTimeout time.Duration
	maxFileBytes int64
}

// New creates a Service.
func New(source Source) *Service {
	return &Service{source: source, fetchTimeout: defaultFetchTimeout}
}

// WithFetchTimeout bounds each file fetch.
func (s *Service) WithFetchTimeout(d time.Duration) *Service {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

// WithMaxFileBytes rejects files larger than n bytes (0 = unlimited).
func (s *Service) WithMaxFileBytes(n int64) *Service {
	s.maxFileBytes = n
	return s
}

// Fetch resolves every id sequentially and returns the ones that succeeded.
func (s *Service) Fetch(ctx context.Context, ids []string) domain.Documents {
	return domain.NewDocuments(s.FetchAll(ctx, ids))
}

// FetchAll returns one result per distinct id, in request order, failures included.
func (s *Service) FetchAll(ctx context.Context, ids []string) []domain.FetchResult {
	log := logger.FromContext(ctx)
	seen := make(map[string]struct{}, len(ids))
	results := make([]domain.FetchResult, 0, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		r := s.fetchOne(ctx, id)
		if r.OK() {
			metrics.DocumentFetchTotal.WithLabelValues("ok").Inc()
		} else {
			metrics.DocumentFetchTotal.WithLabelValues("error").Inc()
			log.Warn("Skipping document", zap.String("file_id", id), zap.Error(r.Err))
		}
		results = append(results, r)
	}

	return results
}

func (s *Service) fetchOne(ctx context.Context, id string) domain.FetchResult {
	if id == "" {
		return domain.FetchResult{ID: id, Err: fmt.Errorf("empty file id: %w", domain.ErrFetchFailed)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	text, err := s.fetchText(ctx, id)
	if err != nil {
		return domain.FetchResult{ID: id, Err: fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)}
	}
	return domain.FetchResult{ID: id, Text: text}
}

func (s *Service) fetchText(ctx context.Context, id string) (string, error) {
	meta, err := s.source.Metadata(ctx, id)
	if err != nil {
		return "", fmt.Errorf("metadata: %w", err)
	}

	if s.maxFileBytes > 0 && meta.Size > s.maxFileBytes {
		return "", fmt.Errorf("file is %d bytes, limit %d", meta.Size, s.maxFileBytes)
	}

	var body io.ReadCloser
	if meta.NeedsExport() {
		body, err = s.source.Export(ctx, id, domain.MimeTextPlain)
	} else {
		body, err = s.source.Download(ctx, id)
	}
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := s.read(body)
	if err != nil {
		return "", err
	}

	return decodeText(raw)
}

func (s *Service) read(body io.Reader) ([]byte, error) {
	if s.maxFileBytes <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > s.maxFileBytes {
		return nil, fmt.Errorf("content exceeds %d bytes", s.maxFileBytes)
	}
	return data, nil
}

// decodeText strips a byte order mark and requires valid UTF-8.
// Exported Google Docs start with a UTF-8 BOM; UTF-16 files with a BOM are transcoded.
func decodeText(raw []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("content is not valid UTF-8")
	}
	return string(out), nil
}
