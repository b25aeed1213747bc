package providers

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
)

// pngBody builds a blob with a real PNG magic prefix padded past the
// minimum artifact size.
func pngBody() []byte {
	return append(append([]byte{}, pngMagic...), bytes.Repeat([]byte{0x00}, 200)...)
}

func TestAdaptJSONObject(t *testing.T) {
	env, err := adaptJSON("application/json", []byte(`{"followers": 120}`))
	require.NoError(t, err)
	assert.Equal(t, float64(120), env.JSON["followers"])
}

func TestAdaptJSONArrayWrapped(t *testing.T) {
	env, err := adaptJSON("application/json", []byte(`[1, 2, 3]`))
	require.NoError(t, err)
	require.Contains(t, env.JSON, "data")
	assert.Len(t, env.JSON["data"], 3)
}

func TestAdaptJSONUnparseable(t *testing.T) {
	env, err := adaptJSON("text/plain", []byte("OK"))
	require.NoError(t, err)
	assert.Equal(t, "OK", env.JSON["raw_text"])
}

func TestAdaptImagePNG(t *testing.T) {
	body := pngBody()
	env, err := adaptImage("application/octet-stream", body)
	require.NoError(t, err)
	assert.Equal(t, "image/png", env.JSON["content_type"], "magic bytes beat the reported type")
	assert.Equal(t, base64.StdEncoding.EncodeToString(body), env.JSON["image_base64"])
}

func TestAdaptImageJPEG(t *testing.T) {
	body := append(append([]byte{}, jpegMagic...), bytes.Repeat([]byte{0x00}, 200)...)
	env, err := adaptImage("", body)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", env.JSON["content_type"])
}

func TestAdaptImageUnknownMagicFallsBack(t *testing.T) {
	body := bytes.Repeat([]byte{0xAB}, 200)

	env, err := adaptImage("image/webp", body)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", env.JSON["content_type"], "unknown magic trusts the reported image type")

	env, err = adaptImage("text/html", body)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", env.JSON["content_type"])
}

func TestAdaptImageRejectsTinyArtifact(t *testing.T) {
	_, err := adaptImage("image/png", []byte("tiny"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.FromError(err).Kind)
}

func TestAdaptImageSurfacesJSONError(t *testing.T) {
	body := []byte(`{"error": "quota exceeded", "code": 429}`)
	_, err := adaptImage("image/png", body)
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.KindUpstreamError, appErr.Kind)
	assert.Contains(t, appErr.Details["upstream_body"], "quota exceeded")
}

func TestAdaptImageAcceptsSVG(t *testing.T) {
	env, err := adaptImage("image/svg+xml", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", env.ContentType)
	assert.Contains(t, env.JSON["svg"], "<svg")
}

func TestSniffSVG(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		ok   bool
	}{
		{"plain svg", []byte(`<svg></svg>`), true},
		{"leading whitespace", []byte("\n  <svg/>"), true},
		{"utf8 bom", append(append([]byte{}, utf8BOM...), []byte(`<svg/>`)...), true},
		{"xml prolog", []byte(`<?xml version="1.0"?><svg/>`), true},
		{"xml prolog without svg", []byte(`<?xml version="1.0"?><html/>`), false},
		{"html", []byte(`<html><body/></html>`), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := sniffSVG(tt.body)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSniffSVGLatin1Fallback(t *testing.T) {
	// An SVG with a Latin-1 encoded byte that is not valid UTF-8.
	body := append([]byte(`<svg><text>caf`), 0xE9)
	body = append(body, []byte(`</text></svg>`)...)

	text, ok := sniffSVG(body)
	require.True(t, ok)
	assert.Contains(t, text, "café")
}

func TestAdaptSVGRejectsNonSVG(t *testing.T) {
	_, err := adaptSVG([]byte(`{"ok": true}`))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.FromError(err).Kind)
}

func TestAdaptAudio(t *testing.T) {
	req := &Request{
		Spec:    &Spec{Key: "text-to-speech"},
		Payload: map[string]any{"text": "Hello there, general greeting"},
	}
	body := bytes.Repeat([]byte{0x01}, 500)

	env, err := adaptAudio(req, "", body)
	require.NoError(t, err)
	assert.True(t, env.IsBinary())
	assert.Equal(t, "audio/mpeg", env.ContentType, "missing content type defaults to mp3")
	assert.Equal(t, "Hello-there--general-greeting.mp3", env.Filename)
}

func TestAdaptAudioRejectsTiny(t *testing.T) {
	req := &Request{Spec: &Spec{Key: "text-to-speech"}}
	_, err := adaptAudio(req, "audio/mpeg", []byte("x"))
	require.Error(t, err)
}

func TestAudioFilenameVariants(t *testing.T) {
	longText := &Request{
		Spec:    &Spec{Key: "text-to-speech"},
		Payload: map[string]any{"text": string(bytes.Repeat([]byte("a"), 80))},
	}
	name := audioFilename(longText, "audio/mpeg")
	assert.Len(t, name, 40+len(".mp3"), "long prompts truncate to 40 chars")

	fromFile := &Request{
		Spec: &Spec{Key: "audio-converter"},
		File: &File{Filename: "recording.wav"},
	}
	assert.Equal(t, "recording.wav", audioFilename(fromFile, "audio/wav"))

	bare := &Request{Spec: &Spec{Key: "text-to-speech"}}
	assert.Equal(t, "text-to-speech.ogg", audioFilename(bare, "audio/ogg"))
}

func TestFallbackWorthy(t *testing.T) {
	assert.True(t, fallbackWorthy(apperrors.UpstreamError(401, "denied")))
	assert.True(t, fallbackWorthy(apperrors.UpstreamError(403, "denied")))
	assert.True(t, fallbackWorthy(apperrors.Validation("invalid artifact")))

	assert.False(t, fallbackWorthy(apperrors.UpstreamError(500, "boom")))
	assert.False(t, fallbackWorthy(apperrors.UpstreamError(429, "slow down")))
	assert.False(t, fallbackWorthy(apperrors.UpstreamUnavailable(assert.AnError)))
}
