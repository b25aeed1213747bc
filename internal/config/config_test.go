package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostOverrides(t *testing.T) {
	environ := []string{
		"PATH=/usr/bin",
		"PROVIDER_HOST_WHOIS=alt-whois.example.com",
		"PROVIDER_HOST_DNS_LOOKUP=alt-dns.example.com",
		"PROVIDER_HOST_EMPTY=",
		"PROVIDER_API_KEY=not-an-override",
	}

	overrides := hostOverrides(environ)

	assert.Equal(t, "alt-whois.example.com", overrides["whois"])
	assert.Equal(t, "alt-dns.example.com", overrides["dns-lookup"], "underscores map to dashes")
	assert.NotContains(t, overrides, "empty", "empty values are ignored")
	assert.Len(t, overrides, 2)
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_SET", "value")

	assert.Equal(t, "value", getEnv("CONFIG_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", getEnv("CONFIG_TEST_UNSET", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	// getEnv treats empty as unset, so blanking the variables pins the
	// defaults regardless of the test environment.
	for _, key := range []string{"PORT", "API_VERSION", "RATE_LIMIT_PREVIEW", "RATE_LIMIT_FULL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "full", cfg.Server.Cohort)
	assert.Equal(t, 50, cfg.RateLimit.PreviewPerHour)
	assert.Equal(t, 200, cfg.RateLimit.FullPerHour)
}
