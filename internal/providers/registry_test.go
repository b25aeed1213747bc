package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryLoadsCatalog(t *testing.T) {
	r := NewRegistry("key", nil)

	spec, err := r.Get("instagram-stats")
	require.NoError(t, err)
	assert.Equal(t, "instagram-stats", spec.AppID)
	assert.Equal(t, "key", r.APIKey())

	_, err = r.Get("no-such-provider")
	assert.Error(t, err)
}

func TestNewRegistryAppliesHostOverrides(t *testing.T) {
	r := NewRegistry("key", map[string]string{"whois": "alt-whois.example.com"})

	overridden, err := r.Get("whois")
	require.NoError(t, err)
	assert.Equal(t, "alt-whois.example.com", overridden.Host)

	untouched, err := r.Get("dns-lookup")
	require.NoError(t, err)
	assert.Equal(t, "dns-lookup-api.p.rapidapi.com", untouched.Host)
}

func TestEveryFallbackKeyResolves(t *testing.T) {
	r := NewRegistry("key", nil)
	for _, key := range r.Keys() {
		spec, err := r.Get(key)
		require.NoError(t, err)
		if spec.Fallback != nil {
			_, err := r.Get(spec.Fallback.Key)
			assert.NoError(t, err, "fallback of %s must exist", key)
		}
	}
}

func TestSpecTimeoutDefaults(t *testing.T) {
	assert.Equal(t, defaultTimeout, (&Spec{}).timeout())
	assert.Equal(t, 45*time.Second, (&Spec{Timeout: 45 * time.Second}).timeout())
}

func TestResolveCost(t *testing.T) {
	fixed := &Spec{Cost: 2}
	assert.Equal(t, 2, fixed.ResolveCost(nil, nil))

	dynamic := &Spec{CostFn: llmCost}
	assert.Equal(t, 1, dynamic.ResolveCost(nil, map[string]any{"model": "gpt-3.5-turbo"}))
	assert.Equal(t, 2, dynamic.ResolveCost(nil, map[string]any{"model": "gpt-4o"}))
	assert.Equal(t, 3, dynamic.ResolveCost(nil, map[string]any{"model": "claude-3-opus"}))
}

func TestLLMCostImageSurcharge(t *testing.T) {
	cost := llmCost(nil, map[string]any{
		"model":     "gpt-4o",
		"image_url": "https://example.com/photo.png",
	})
	assert.Equal(t, 4, cost, "2 for the model tier plus 2 for vision input")
}

func TestTTSCost(t *testing.T) {
	assert.Equal(t, 1, ttsCost(nil, map[string]any{"voice": "standard"}))
	assert.Equal(t, 2, ttsCost(nil, map[string]any{"voice": "neural"}))
	assert.Equal(t, 1, ttsCost(nil, nil))
}

func TestQRFallbackAdapt(t *testing.T) {
	t.Run("plain data passes through as text", func(t *testing.T) {
		params, payload := qrFallbackAdapt(
			map[string]string{"size": "400"},
			map[string]any{"kind": "text", "data": "https://example.com"},
		)
		assert.Nil(t, payload)
		assert.Equal(t, "https://example.com", params["text"])
		assert.Equal(t, "400", params["size"])
	})

	t.Run("wifi payload encodes the WIFI scheme", func(t *testing.T) {
		params, _ := qrFallbackAdapt(nil, map[string]any{
			"kind":     "wifi",
			"ssid":     "HomeNet",
			"password": "hunter2",
		})
		assert.Equal(t, "WIFI:S:HomeNet;T:WPA;P:hunter2;;", params["text"])
		assert.Equal(t, "300", params["size"], "missing size falls back to the default")
	})
}

func TestAppIDForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/full/seo/analyze", "seo-analyzer"},
		{"/api/preview/ai/chat", "ai-assistant"},
		{"/api/full/generate/qr", "qr-generator"},
		{"/api/full/net/whois", "whois-lookup"},
		{"/api/full/auth/login", ""},
		{"/api/full/credits/balance", ""},
		{"/health", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, AppIDForPath(tt.path))
		})
	}
}

func TestCatalogSpecsAreWellFormed(t *testing.T) {
	r := NewRegistry("key", nil)
	for _, key := range r.Keys() {
		spec, err := r.Get(key)
		require.NoError(t, err)
		assert.NotEmpty(t, spec.AppID, "spec %s needs an app id", key)
		assert.NotEmpty(t, spec.Method, "spec %s needs a method", key)
		assert.NotEmpty(t, spec.URL, "spec %s needs a url", key)
		assert.NotEmpty(t, spec.Host, "spec %s needs a host", key)
		if spec.CostFn == nil {
			assert.Greater(t, spec.Cost, 0, "spec %s needs a positive cost", key)
		}
	}
}
