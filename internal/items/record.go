package items

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ItemRecord is one backend item record of unknown but bounded shape.
// Identifier fields are kept raw because the backend emits them as
// numbers on legacy endpoints and as UUID strings on versioned ones.
type ItemRecord struct {
	ID             json.RawMessage `json:"id"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	ImageURL       string          `json:"image_url"`
	Location       string          `json:"location"`
	LocationType   string          `json:"location_type"`
	Where          string          `json:"where"`
	LocationDetail string          `json:"location_detail"`
	DateTime       string          `json:"date_time"`
	TimeFrame      string          `json:"time_frame"`
	ContactMethod  string          `json:"contact_method"`
	ContactPhone   string          `json:"contact_phone"`
	ContactEmail   string          `json:"contact_email"`
	UserID         json.RawMessage `json:"user_id"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// camelRecord mirrors the camelCase key variant some endpoints emit.
// Only fields observed in that shape are listed.
type camelRecord struct {
	ImageURL       string          `json:"imageUrl"`
	LocationType   string          `json:"locationType"`
	LocationDetail string          `json:"locationDetail"`
	DateTime       string          `json:"dateTime"`
	TimeFrame      string          `json:"timeFrame"`
	ContactMethod  string          `json:"contactMethod"`
	UserID         json.RawMessage `json:"userId"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// UnmarshalJSON decodes the snake_case shape and backfills any fields the
// payload only carries under camelCase keys. Centralizing the key fallback
// here keeps shape detection out of call sites.
func (r *ItemRecord) UnmarshalJSON(data []byte) error {
	type plain ItemRecord
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}

	var camel camelRecord
	if err := json.Unmarshal(data, &camel); err != nil {
		// The snake_case decode already succeeded; a camelCase probe
		// failure only means there is nothing to backfill.
		return nil
	}
	if r.ImageURL == "" {
		r.ImageURL = camel.ImageURL
	}
	if r.LocationType == "" {
		r.LocationType = camel.LocationType
	}
	if r.LocationDetail == "" {
		r.LocationDetail = camel.LocationDetail
	}
	if r.DateTime == "" {
		r.DateTime = camel.DateTime
	}
	if r.TimeFrame == "" {
		r.TimeFrame = camel.TimeFrame
	}
	if r.ContactMethod == "" {
		r.ContactMethod = camel.ContactMethod
	}
	if len(r.UserID) == 0 {
		r.UserID = camel.UserID
	}
	if r.CreatedAt == "" {
		r.CreatedAt = camel.CreatedAt
	}
	if r.UpdatedAt == "" {
		r.UpdatedAt = camel.UpdatedAt
	}
	return nil
}

// coerceID renders a raw identifier as a string regardless of whether the
// backend sent a JSON number or a string.
func coerceID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return ""
}
