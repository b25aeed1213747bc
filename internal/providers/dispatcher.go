package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// File is an uploaded artifact forwarded to multipart upstreams.
type File struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// Request binds a spec to one inbound call's parameters.
type Request struct {
	Spec    *Spec
	Params  map[string]string
	Payload map[string]any
	File    *File
}

// Envelope is the normalized response the core hands back to handlers,
// independent of what the upstream returned.
type Envelope struct {
	StatusCode  int
	ContentType string
	// JSON is set for json/image/svg families (the adapted object).
	JSON map[string]any
	// Body is set for binary passthrough (audio).
	Body     []byte
	Filename string
	// Provider is "primary" or "fallback".
	Provider string
}

func (e *Envelope) IsBinary() bool { return e.Body != nil }

// Dispatcher performs upstream calls through one shared pooled client.
type Dispatcher struct {
	client   *http.Client
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Dispatcher{
		// Per-request deadlines come from the spec via context; the
		// client itself carries no timeout.
		client:   &http.Client{Transport: transport},
		registry: registry,
		logger:   logger,
	}
}

// Dispatch executes the request, adapting the response per the spec's
// family. When the spec declares a fallback and the primary answer is
// unusable (401/403 or empty artifact), the fallback runs exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Envelope, error) {
	envelope, err := d.dispatchOne(ctx, req, "primary")
	if err == nil || req.Spec.Fallback == nil || !fallbackWorthy(err) {
		return envelope, err
	}

	fbSpec, fbErr := d.registry.Get(req.Spec.Fallback.Key)
	if fbErr != nil {
		d.logger.Error("fallback spec missing", "key", req.Spec.Fallback.Key, "error", fbErr)
		return nil, err
	}

	params, payload := req.Params, req.Payload
	if req.Spec.Fallback.Adapt != nil {
		params, payload = req.Spec.Fallback.Adapt(req.Params, req.Payload)
	}

	d.logger.Info("primary dispatch unusable, trying fallback",
		"primary", req.Spec.Key, "fallback", fbSpec.Key, "error", err)

	fbReq := &Request{Spec: fbSpec, Params: params, Payload: payload, File: req.File}
	return d.dispatchOne(ctx, fbReq, "fallback")
}

func (d *Dispatcher) dispatchOne(ctx context.Context, req *Request, provider string) (*Envelope, error) {
	spec := req.Spec

	ctx, cancel := context.WithTimeout(ctx, spec.timeout())
	defer cancel()

	httpReq, err := d.buildRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, upstreamUnavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, upstreamUnavailable(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(resp.StatusCode, body)
	}

	envelope, err := adaptBody(spec, req, resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}
	envelope.StatusCode = resp.StatusCode
	envelope.Provider = provider
	return envelope, nil
}

func (d *Dispatcher) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	spec := req.Spec
	endpoint := renderURL(spec.URL, req.Params)

	var body io.Reader
	contentType := ""

	switch spec.Shape {
	case ShapeQuery:
		// Everything rides in the rendered URL.
	case ShapeForm:
		form := url.Values{}
		for k, v := range req.Payload {
			form.Set(k, fmt.Sprintf("%v", v))
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case ShapeJSON:
		encoded, err := json.Marshal(req.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	case ShapeMultipart:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		if req.File != nil {
			field := req.File.FieldName
			if field == "" {
				field = "file"
			}
			part, err := writer.CreateFormFile(field, req.File.Filename)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(req.File.Data); err != nil {
				return nil, err
			}
		}
		for k, v := range req.Payload {
			writer.WriteField(k, fmt.Sprintf("%v", v))
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		body = &buf
		contentType = writer.FormDataContentType()
	default:
		return nil, fmt.Errorf("unknown request shape %q", spec.Shape)
	}

	httpReq, err := http.NewRequestWithContext(ctx, spec.Method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("x-rapidapi-key", d.registry.APIKey())
	if spec.Host != "" {
		httpReq.Header.Set("x-rapidapi-host", spec.Host)
	}
	return httpReq, nil
}

// renderURL substitutes {name} holes with URL-escaped parameter values.
// Unbound holes render empty rather than leaking the placeholder upstream.
func renderURL(template string, params map[string]string) string {
	result := template
	for key, value := range params {
		result = strings.ReplaceAll(result, "{"+key+"}", url.QueryEscape(value))
	}
	for {
		start := strings.Index(result, "{")
		if start < 0 {
			break
		}
		end := strings.Index(result[start:], "}")
		if end < 0 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	return result
}
