package fsx

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/shortlist/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeFileNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeFileWriteFailed = ErrRegistry.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to write file")
	CodeFileReadFailed  = ErrRegistry.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to read file")
)

// FileSystem is a flat object store addressed by slash separated paths
type FileSystem interface {
	WriteFile(ctx context.Context, path string, data []byte, contentType string) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}
