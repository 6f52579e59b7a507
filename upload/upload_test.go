package upload

import (
	"encoding/base64"
	"testing"

	"mechat-service/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURL(t *testing.T) {
	payload := []byte("hello media")
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mime, decoded, err := ParseDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, payload, decoded)
}

func TestParseDataURLInvalid(t *testing.T) {
	cases := []string{
		"",
		"https://cdn.example.com/pic.png",
		"data:image/png,not-base64-marked",
		"data:image/png;base64",
		"data:image/png;base64,@@@not-base64@@@",
	}
	for _, input := range cases {
		_, _, err := ParseDataURL(input)
		assert.ErrorIs(t, err, ErrInvalidDataURL, "input: %q", input)
	}
}

func TestClassifyURL(t *testing.T) {
	assert.Equal(t, model.MessageTypeImage, ClassifyURL("https://cdn.example.com/photo.jpg"))
	assert.Equal(t, model.MessageTypeImage, ClassifyURL("https://cdn.example.com/photo.PNG"))
	assert.Equal(t, model.MessageTypeImage, ClassifyURL("https://cdn.example.com/photo.webp?w=640&h=480"))
	assert.Equal(t, model.MessageTypeFile, ClassifyURL("https://cdn.example.com/report.pdf"))
	assert.Equal(t, model.MessageTypeFile, ClassifyURL("https://cdn.example.com/clip.jpg.mp4"))
}

func TestClassifyMime(t *testing.T) {
	assert.Equal(t, model.MessageTypeImage, ClassifyMime("image/png"))
	assert.Equal(t, model.MessageTypeVideo, ClassifyMime("video/mp4"))
	assert.Equal(t, model.MessageTypeAudio, ClassifyMime("audio/ogg"))
	assert.Equal(t, model.MessageTypeFile, ClassifyMime("application/pdf"))
	assert.Equal(t, model.MessageTypeFile, ClassifyMime(""))
}
