// Package upload builds multipart submission payloads for image-bearing
// item reports.
//
// Image bytes can come from two kinds of places: a URI whose contents
// must be retrieved and inspected, or a local file that can be streamed
// as-is. Each is a Source strategy picked once per submission, so call
// sites never branch on the runtime environment themselves.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUploadPreparation marks a submission whose image bytes could not be
// retrieved or encoded. It is fatal for that submission and is never
// retried internally.
var ErrUploadPreparation = errors.New("upload preparation failed")

// maxImageBytes matches the backend's upload cap; oversized images are
// rejected client side instead of burning the transfer.
const maxImageBytes = 10 << 20

// Part is a resolved image ready to be written into a multipart body.
// FileName always ends in an allowed extension and ContentType always
// agrees with it.
type Part struct {
	FileName    string
	ContentType string
	Body        io.ReadCloser
}

// Source resolves a local image reference into an upload Part.
type Source interface {
	Resolve(ctx context.Context) (Part, error)
}

// HTTPDoer describes the HTTP client used to retrieve fetchable URIs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResolveSource picks the strategy for a local image reference: URIs
// with an http(s) scheme are fetched and content-sniffed; anything else
// is treated as a device filesystem path and streamed directly.
func ResolveSource(uri, hint string, client HTTPDoer) Source {
	trimmed := strings.TrimSpace(uri)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &FetchSource{URI: trimmed, Hint: hint, Client: client}
	}
	return &FileSource{Path: strings.TrimPrefix(trimmed, "file://"), Hint: hint}
}

// FetchSource retrieves the image bytes and derives the extension from
// the actual content, not the filename hint.
type FetchSource struct {
	URI    string
	Hint   string
	Client HTTPDoer
}

// Resolve fetches the URI and sniffs the retrieved bytes. Any retrieval
// failure wraps ErrUploadPreparation.
func (s *FetchSource) Resolve(ctx context.Context) (Part, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URI, nil)
	if err != nil {
		return Part{}, fmt.Errorf("%w: build image request: %w", ErrUploadPreparation, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Part{}, fmt.Errorf("%w: fetch image: %w", ErrUploadPreparation, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Part{}, fmt.Errorf("%w: fetch image: HTTP %d", ErrUploadPreparation, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return Part{}, fmt.Errorf("%w: read image bytes: %w", ErrUploadPreparation, err)
	}
	if len(data) == 0 {
		return Part{}, fmt.Errorf("%w: image at %s is empty", ErrUploadPreparation, s.URI)
	}
	if len(data) > maxImageBytes {
		return Part{}, fmt.Errorf("%w: image exceeds %d bytes", ErrUploadPreparation, maxImageBytes)
	}

	contentType, ext := sniffImageType(data)
	return Part{
		FileName:    fileNameWithExt(s.Hint, s.URI, ext),
		ContentType: contentType,
		Body:        io.NopCloser(bytes.NewReader(data)),
	}, nil
}

// FileSource streams a device filesystem path directly, inferring the
// extension from the filename hint without inspecting the bytes.
type FileSource struct {
	Path string
	Hint string
}

// Resolve opens the file and derives extension and content type from the
// trailing dot-extension of the hint (or the path itself).
func (s *FileSource) Resolve(_ context.Context) (Part, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return Part{}, fmt.Errorf("%w: open image: %w", ErrUploadPreparation, err)
	}

	hint := s.Hint
	if strings.TrimSpace(hint) == "" {
		hint = s.Path
	}
	ext := extensionFromName(hint)
	return Part{
		FileName:    fileNameWithExt(s.Hint, s.Path, ext),
		ContentType: contentTypeForExt(ext),
		Body:        file,
	}, nil
}

// Allowed upload extensions, mirroring the backend's allow-list.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var sniffedExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var trailingExtension = regexp.MustCompile(`\.([A-Za-z0-9]+)$`)

// sniffImageType maps detected content to an allowed content type and
// extension, falling back to JPEG for anything unrecognized.
func sniffImageType(data []byte) (contentType, ext string) {
	detected := http.DetectContentType(data)
	if mapped, ok := sniffedExtensions[detected]; ok {
		return detected, mapped
	}
	return "image/jpeg", ".jpg"
}

// extensionFromName pulls a trailing dot-extension out of a filename,
// defaulting to .jpg when absent or outside the allow-list.
func extensionFromName(name string) string {
	m := trailingExtension.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return ".jpg"
	}
	ext := "." + strings.ToLower(m[1])
	if _, ok := allowedExtensions[ext]; !ok {
		return ".jpg"
	}
	return ext
}

func contentTypeForExt(ext string) string {
	if ct, ok := allowedExtensions[ext]; ok {
		return ct
	}
	return "image/jpeg"
}

// fileNameWithExt builds the final upload filename: the hint's base name
// when available, else the reference's base name, else a fixed stem, with
// the resolved extension appended exactly once.
func fileNameWithExt(hint, reference, ext string) string {
	stem := strings.TrimSpace(hint)
	if stem == "" {
		stem = filepath.Base(strings.TrimSpace(reference))
	}
	stem = filepath.Base(strings.ReplaceAll(stem, `\`, "/"))
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" || stem == "." || stem == "/" {
		stem = "upload"
	}
	return stem + ext
}
