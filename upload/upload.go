// Package upload is the opaque media upload service: it accepts raw bytes, a
// data URL, or an already-hosted URL, and returns a stable content URL plus an
// inferred type classification.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mechat-service/database"
	"mechat-service/model"
)

var ErrInvalidDataURL = errors.New("invalid data url")

var imageExtensions = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)$`)

// Store persists raw media bytes and returns the URL they are served at.
func Store(data []byte, mime string) (string, string, error) {
	media := &model.Media{
		Data: base64.StdEncoding.EncodeToString(data),
		Mime: mime,
	}
	if err := database.Postgres.Create(media).Error; err != nil {
		return "", "", err
	}
	return fmt.Sprintf("/v1/media/%d", media.ID), ClassifyMime(mime), nil
}

// StoreDataURL decodes a "data:<mime>;base64,<payload>" string and stores it.
func StoreDataURL(dataURL string) (string, string, error) {
	mime, payload, err := ParseDataURL(dataURL)
	if err != nil {
		return "", "", err
	}
	return Store(payload, mime)
}

// ParseDataURL splits a data URL into its mime type and decoded payload.
func ParseDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, ErrInvalidDataURL
	}
	meta, encoded, found := strings.Cut(dataURL[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrInvalidDataURL
	}
	mime := strings.TrimSuffix(meta, ";base64")
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return mime, payload, nil
}

// ClassifyURL infers the message type of an already-hosted URL from its
// extension, ignoring any query string.
func ClassifyURL(rawURL string) string {
	base, _, _ := strings.Cut(rawURL, "?")
	if imageExtensions.MatchString(base) {
		return model.MessageTypeImage
	}
	return model.MessageTypeFile
}

// ClassifyMime maps a mime type to the message type classification.
func ClassifyMime(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.MessageTypeImage
	case strings.HasPrefix(mime, "video/"):
		return model.MessageTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return model.MessageTypeAudio
	default:
		return model.MessageTypeFile
	}
}
