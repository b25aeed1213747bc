package providers

import (
	"time"
)

// Shape describes how the upstream expects the request encoded.
type Shape string

const (
	ShapeQuery     Shape = "query"
	ShapeForm      Shape = "form"
	ShapeJSON      Shape = "json"
	ShapeMultipart Shape = "multipart"
)

// Family describes how the upstream response body is adapted.
type Family string

const (
	FamilyJSON  Family = "json"
	FamilyImage Family = "image"
	FamilyAudio Family = "audio"
	FamilySVG   Family = "svg"
	FamilyText  Family = "text"
)

// CostPolicy computes a request's credit cost from its parsed payload.
type CostPolicy func(params map[string]string, payload map[string]any) int

// Fallback names an alternate spec tried once when the primary returns
// 401/403 or an unusable artifact. Adapt rewrites the request for it.
type Fallback struct {
	Key   string
	Adapt func(params map[string]string, payload map[string]any) (map[string]string, map[string]any)
}

// Spec declares everything the dispatcher needs to invoke one upstream
// operation. The registry is the single source of provider specifics.
type Spec struct {
	// Key is the logical operation name handlers select by.
	Key string
	// AppID ties usage records to the catalog entry.
	AppID  string
	Method string
	// URL is a template with {param} holes bound from request params.
	URL string
	// Host is sent as the upstream host header next to the API key.
	Host    string
	Shape   Shape
	Family  Family
	Timeout time.Duration
	// Cost is the constant credit cost; CostFn overrides it when set.
	Cost     int
	CostFn   CostPolicy
	Fallback *Fallback
}

const defaultTimeout = 20 * time.Second

// ResolveCost evaluates the cost policy once, before any reservation.
func (s *Spec) ResolveCost(params map[string]string, payload map[string]any) int {
	if s.CostFn != nil {
		return s.CostFn(params, payload)
	}
	return s.Cost
}

func (s *Spec) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return defaultTimeout
}
