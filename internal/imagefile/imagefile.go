package imagefile

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"filmdesk/internal/services"
)

// DefaultMaxBytes is the largest image accepted for upload (5 MiB).
const DefaultMaxBytes = 5 * 1024 * 1024

// DefaultAllowedTypes are the accepted image MIME types.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// File is a locally chosen image held in memory until it is uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Open reads path and sniffs its content type from the bytes.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return New(filepath.Base(path), "", data), nil
}

// New wraps in-memory image bytes. An empty contentType is sniffed.
func New(name, contentType string, data []byte) *File {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return &File{Name: name, ContentType: strings.ToLower(contentType), Data: data}
}

// Size returns the file length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// HumanSize renders the size for display, e.g. "1.2 MiB".
func (f *File) HumanSize() string {
	return humanize.IBytes(uint64(f.Size()))
}

// DataURL renders the file as a data: URL suitable for a local preview.
func (f *File) DataURL() string {
	return "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// RejectReason says why a file was refused.
type RejectReason int

const (
	RejectType RejectReason = iota + 1
	RejectSize
)

// RejectError reports a file that failed the type or size check.
type RejectError struct {
	Reason      RejectReason
	ContentType string
	Size        int64
	MaxBytes    int64
}

func (e *RejectError) Error() string {
	switch e.Reason {
	case RejectSize:
		return fmt.Sprintf("image is %s, limit is %s", humanize.IBytes(uint64(e.Size)), humanize.IBytes(uint64(e.MaxBytes)))
	default:
		return fmt.Sprintf("image type %q is not allowed", e.ContentType)
	}
}

func (e *RejectError) Unwrap() error {
	return services.ErrValidation
}

// Limits constrains the files accepted for upload.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultLimits returns the 5 MiB JPEG/PNG/GIF/WEBP policy.
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, AllowedTypes: slices.Clone(DefaultAllowedTypes)}
}

// Check validates the file against the limits. The type is checked first.
func (l Limits) Check(f *File) error {
	if f == nil {
		return &RejectError{Reason: RejectType}
	}
	allowed := l.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	if !slices.Contains(allowed, f.ContentType) {
		return &RejectError{Reason: RejectType, ContentType: f.ContentType, Size: f.Size()}
	}
	maxBytes := l.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if f.Size() > maxBytes {
		return &RejectError{Reason: RejectSize, ContentType: f.ContentType, Size: f.Size(), MaxBytes: maxBytes}
	}
	return nil
}

// MaxMegabytes renders the size limit in whole megabytes for user messages.
func (l Limits) MaxMegabytes() string {
	maxBytes := l.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return humanize.Comma(maxBytes / (1024 * 1024))
}
