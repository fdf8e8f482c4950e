package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotConfigured is returned by uploads when no bucket is configured
var ErrNotConfigured = errors.New("object storage is not configured")

// Object is a file to be stored
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores objects and returns their public URL
type Uploader interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// LogoKey builds the object key for an uploaded company logo
func LogoKey(filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		name = "logo"
	}
	return fmt.Sprintf("logos/%d_%s", now.UnixMilli(), name)
}
