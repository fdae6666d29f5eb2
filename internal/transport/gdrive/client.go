// Package gdrive reads files from Google Drive with a service account.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kailas-cloud/topicd/internal/domain"
)

// Config holds Drive settings.
type Config struct {
	ServiceAccountFile string
}

// Client wraps the Drive v3 files API.
type Client struct {
	files *drive.FilesService
}

// NewClient builds a read-only Drive client. A missing service account file is a
// configuration error.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ServiceAccountFile == "" {
		return nil, fmt.Errorf("drive service account file is not set: %w", domain.ErrConfiguration)
	}
	c, err := newClient(ctx,
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, domain.ErrConfiguration)
	}
	return c, nil
}

func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{files: svc.Files}, nil
}

// Metadata returns the id, name, MIME type and size of a file.
func (c *Client) Metadata(ctx context.Context, id string) (domain.FileMeta, error) {
	f, err := c.files.Get(id).
		Fields("id", "name", "mimeType", "size").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return domain.FileMeta{}, wrapAPIError("get metadata", id, err)
	}
	return domain.FileMeta{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size}, nil
}

// Export converts a native document to mimeType and streams the result.
func (c *Client) Export(ctx context.Context, id, mimeType string) (io.ReadCloser, error) {
	resp, err := c.files.Export(id, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, wrapAPIError("export", id, err)
	}
	return resp.Body, nil
}

// Download streams the stored content of a file.
func (c *Client) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := c.files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, wrapAPIError("download", id, err)
	}
	return resp.Body, nil
}

// HealthCheck reports whether the Drive API is reachable with the configured credentials.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.files.List().PageSize(1).Fields("files(id)").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	return nil
}

func wrapAPIError(op, id string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("drive %s %s: file not found: %w", op, id, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return fmt.Errorf("drive %s %s: permission denied: %w", op, id, err)
		}
	}
	return fmt.Errorf("drive %s %s: %w", op, id, err)
}
