package items

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord marks a backend item record missing required
// identity or image data. The error is scoped to one record; callers
// drop the record and keep processing the batch.
var ErrMalformedRecord = errors.New("malformed item record")

// Options carries the context a normalization pass needs. The fallback
// user identifier is threaded explicitly so normalization never reads
// ambient session state.
type Options struct {
	// BaseURL is the backend origin used to qualify relative image paths.
	BaseURL string
	// FallbackUserID is applied when a record omits its owning user.
	FallbackUserID string
}

// Normalize converts one backend item record into the canonical Item.
// A record without an identifier or an image path is rejected with
// ErrMalformedRecord rather than producing a half-populated Item.
func Normalize(rec ItemRecord, opts Options) (Item, error) {
	id := coerceID(rec.ID)
	if id == "" {
		return Item{}, fmt.Errorf("%w: missing identifier", ErrMalformedRecord)
	}
	imagePath := strings.TrimSpace(rec.ImageURL)
	if imagePath == "" {
		return Item{}, fmt.Errorf("%w: item %s has no image path", ErrMalformedRecord, id)
	}

	status := Status(strings.TrimSpace(rec.Status))
	if status == "" {
		status = StatusOpen
	}

	contact := ContactMethod(strings.TrimSpace(rec.ContactMethod))
	if contact == "" {
		contact = ContactInApp
	}

	category := Category(strings.TrimSpace(strings.ToLower(rec.Category)))
	if category == "" {
		category = CategoryFromTitle(rec.Title)
	}

	userID := coerceID(rec.UserID)
	if userID == "" {
		userID = opts.FallbackUserID
	}

	return Item{
		ID:             id,
		Type:           Type(strings.TrimSpace(rec.Type)),
		Status:         status,
		Title:          strings.TrimSpace(rec.Title),
		Description:    strings.TrimSpace(rec.Description),
		Category:       category,
		ImageURL:       resolveImageURL(imagePath, opts.BaseURL),
		Location:       locationLabel(rec),
		LocationDetail: strings.TrimSpace(rec.LocationDetail),
		DateTime:       dateTimeLabel(rec),
		ContactMethod:  contact,
		ContactPhone:   strings.TrimSpace(rec.ContactPhone),
		ContactEmail:   strings.TrimSpace(rec.ContactEmail),
		UserID:         userID,
		CreatedAt:      strings.TrimSpace(rec.CreatedAt),
		UpdatedAt:      strings.TrimSpace(rec.UpdatedAt),
	}, nil
}

// locationLabel prefers the explicit location field, then the location
// type, then the legacy "where" key. Both absent resolves to an empty
// label, never an error.
func locationLabel(rec ItemRecord) string {
	if loc := strings.TrimSpace(rec.Location); loc != "" {
		return loc
	}
	if loc := strings.TrimSpace(rec.LocationType); loc != "" {
		return loc
	}
	return strings.TrimSpace(rec.Where)
}

// dateTimeLabel returns the record's date/time as an opaque label.
// No timezone conversion happens at this layer.
func dateTimeLabel(rec ItemRecord) string {
	if dt := strings.TrimSpace(rec.DateTime); dt != "" {
		return dt
	}
	return strings.TrimSpace(rec.TimeFrame)
}

// resolveImageURL qualifies an image path against the backend base URL.
// Paths that already carry a URL scheme pass through unchanged. Relative
// paths have backslash separators converted, leading slashes stripped,
// and the base prepended with exactly one separator, so the result never
// contains backslashes or a doubled base prefix.
func resolveImageURL(path, base string) string {
	if hasURLScheme(path) {
		return path
	}
	cleaned := strings.ReplaceAll(path, `\`, "/")
	cleaned = strings.TrimLeft(cleaned, "/")
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return "/" + cleaned
	}
	return base + "/" + cleaned
}

func hasURLScheme(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
