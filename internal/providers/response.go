package providers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Studio22Do/dashboard-Orchestra-sub000/internal/apperrors"
)

// minArtifactBytes rejects truncated binary artifacts; real images and
// audio clips are never this small.
const minArtifactBytes = 100

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

func upstreamUnavailable(err error) error {
	return apperrors.UpstreamUnavailable(err)
}

func upstreamError(status int, body []byte) error {
	prefix := body
	if len(prefix) > 300 {
		prefix = prefix[:300]
	}
	return apperrors.UpstreamError(status, string(prefix))
}

// fallbackWorthy reports whether a failed primary dispatch should retry
// via the declared fallback: auth rejections and unusable artifacts only.
func fallbackWorthy(err error) bool {
	appErr := apperrors.FromError(err)
	switch appErr.Kind {
	case apperrors.KindUpstreamError:
		status, _ := appErr.Details["upstream_status"].(int)
		return status == 401 || status == 403
	case apperrors.KindValidation:
		// Raised by the artifact decoders on empty/too-small bodies.
		return true
	}
	return false
}

func adaptBody(spec *Spec, req *Request, contentType string, body []byte) (*Envelope, error) {
	switch spec.Family {
	case FamilyJSON:
		return adaptJSON(contentType, body)
	case FamilyImage:
		return adaptImage(contentType, body)
	case FamilyAudio:
		return adaptAudio(req, contentType, body)
	case FamilySVG:
		return adaptSVG(body)
	case FamilyText:
		return &Envelope{ContentType: contentType, JSON: map[string]any{
			"text":         string(body),
			"content_type": contentType,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown response family %q", spec.Family)
	}
}

// adaptJSON parses the body; unparseable 2xx bodies are wrapped rather
// than failed so handlers always see an object.
func adaptJSON(contentType string, body []byte) (*Envelope, error) {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Arrays and scalars are valid JSON too; re-wrap under a key.
		var anyValue any
		if err := json.Unmarshal(body, &anyValue); err == nil {
			return &Envelope{ContentType: "application/json", JSON: map[string]any{"data": anyValue}}, nil
		}
		return &Envelope{ContentType: "application/json", JSON: map[string]any{"raw_text": string(body)}}, nil
	}
	return &Envelope{ContentType: "application/json", JSON: parsed}, nil
}

// adaptImage sniffs the artifact. A JSON body labeled as an image is an
// upstream error in disguise and is surfaced as such.
func adaptImage(contentType string, body []byte) (*Envelope, error) {
	if looksLikeJSON(body) {
		var parsed map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(body), &parsed); err == nil {
			return nil, upstreamError(502, body)
		}
	}

	if svg, ok := sniffSVG(body); ok {
		return &Envelope{ContentType: "image/svg+xml", JSON: map[string]any{
			"svg":          svg,
			"content_type": "image/svg+xml",
		}}, nil
	}

	if len(body) < minArtifactBytes {
		return nil, apperrors.Validation(
			fmt.Sprintf("upstream returned an invalid artifact (%d bytes)", len(body)))
	}

	detected := detectImageType(body, contentType)
	return &Envelope{ContentType: detected, JSON: map[string]any{
		"image_base64": base64.StdEncoding.EncodeToString(body),
		"content_type": detected,
	}}, nil
}

func adaptAudio(req *Request, contentType string, body []byte) (*Envelope, error) {
	if len(body) < minArtifactBytes {
		return nil, apperrors.Validation(
			fmt.Sprintf("upstream returned an invalid artifact (%d bytes)", len(body)))
	}
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Envelope{
		ContentType: contentType,
		Body:        body,
		Filename:    audioFilename(req, contentType),
	}, nil
}

func adaptSVG(body []byte) (*Envelope, error) {
	svg, ok := sniffSVG(body)
	if !ok {
		return nil, apperrors.Validation("upstream did not return an SVG document")
	}
	return &Envelope{ContentType: "image/svg+xml", JSON: map[string]any{
		"svg":          svg,
		"content_type": "image/svg+xml",
	}}, nil
}

// sniffSVG decodes the body (UTF-8, falling back to Latin-1) and accepts
// it when an <svg tag appears after optional BOM and whitespace.
func sniffSVG(body []byte) (string, bool) {
	trimmed := bytes.TrimPrefix(body, utf8BOM)

	var text string
	if utf8.Valid(trimmed) {
		text = string(trimmed)
	} else {
		runes := make([]rune, len(trimmed))
		for i, b := range trimmed {
			runes[i] = rune(b)
		}
		text = string(runes)
	}

	probe := strings.ToLower(strings.TrimSpace(text))
	if strings.HasPrefix(probe, "<svg") || strings.HasPrefix(probe, "<?xml") && strings.Contains(probe, "<svg") {
		return text, true
	}
	return "", false
}

func detectImageType(body []byte, reported string) string {
	switch {
	case bytes.HasPrefix(body, pngMagic):
		return "image/png"
	case bytes.HasPrefix(body, jpegMagic):
		return "image/jpeg"
	case reported != "" && strings.HasPrefix(reported, "image/"):
		return reported
	default:
		return "application/octet-stream"
	}
}

func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// audioFilename derives a download name from the request so attachments
// are recognizable; defaults keep the extension honest.
func audioFilename(req *Request, contentType string) string {
	ext := ".mp3"
	switch {
	case strings.Contains(contentType, "wav"):
		ext = ".wav"
	case strings.Contains(contentType, "ogg"):
		ext = ".ogg"
	}

	base := req.Spec.Key
	if text, ok := req.Payload["text"].(string); ok && text != "" {
		cleaned := strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				return r
			}
			return '-'
		}, text)
		if len(cleaned) > 40 {
			cleaned = cleaned[:40]
		}
		base = cleaned
	} else if req.File != nil && req.File.Filename != "" {
		base = strings.TrimSuffix(req.File.Filename, "."+strings.TrimPrefix(ext, "."))
	}
	return base + ext
}
