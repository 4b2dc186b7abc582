package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Fields carries the text portion of an item report.
type Fields struct {
	Title          string
	Location       string
	LocationDetail string
	DateTime       string
	Description    string
}

// FieldNames maps report fields to the form names a backend revision
// expects.
type FieldNames struct {
	Title          string
	Location       string
	LocationDetail string
	DateTime       string
	Description    string
	File           string
}

// CurrentFieldNames matches the versioned submission endpoints.
var CurrentFieldNames = FieldNames{
	Title:          "title",
	Location:       "location",
	LocationDetail: "location_detail",
	DateTime:       "date_time",
	Description:    "description",
	File:           "image",
}

// LegacyFieldNames matches the pre-versioned submission endpoints.
var LegacyFieldNames = FieldNames{
	Title:          "title",
	Location:       "location_type",
	LocationDetail: "location_detail",
	DateTime:       "time_frame",
	Description:    "description",
	File:           "file",
}

// Payload is a transport-ready multipart request body for an
// image-bearing submission.
type Payload struct {
	fields Fields
	names  FieldNames
	source Source
}

// New builds a payload from a resolved image source and the report's
// text fields.
func New(source Source, fields Fields, names FieldNames) *Payload {
	if names.File == "" {
		names = CurrentFieldNames
	}
	return &Payload{fields: fields, names: names, source: source}
}

// Encode resolves the image source and writes the multipart body,
// returning the encoded bytes and the boundary-bearing content type.
// Required fields are always written; optional fields are omitted
// entirely when empty rather than sent as empty strings.
func (p *Payload) Encode(ctx context.Context) (*bytes.Buffer, string, error) {
	part, err := p.source.Resolve(ctx)
	if err != nil {
		return nil, "", err
	}
	defer part.Body.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	required := []struct{ name, value string }{
		{p.names.Title, p.fields.Title},
		{p.names.Location, p.fields.Location},
		{p.names.DateTime, p.fields.DateTime},
	}
	for _, field := range required {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	optional := []struct{ name, value string }{
		{p.names.Description, p.fields.Description},
		{p.names.LocationDetail, p.fields.LocationDetail},
	}
	for _, field := range optional {
		if strings.TrimSpace(field.value) == "" {
			continue
		}
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.names.File, part.FileName))
	header.Set("Content-Type", part.ContentType)
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(fileWriter, part.Body); err != nil {
		return nil, "", fmt.Errorf("%w: copy image bytes: %w", ErrUploadPreparation, err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
