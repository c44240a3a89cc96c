package provider_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahara/internal/port"
	"sahara/internal/provider"
)

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := provider.NewRateLimitError("groq", errors.New("429"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Contains(t, err.Error(), "groq rate limited")
	assert.ErrorContains(t, errors.Unwrap(err), "429")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, provider.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, provider.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 0, provider.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))

	future := time.Now().Add(2 * time.Minute).UTC().Format(http.TimeFormat)
	secs := provider.ParseRetryAfterHeader(future)
	assert.InDelta(t, 120, secs, 3)
}

func TestStatusError(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": []string{"5"}}}
	err := provider.StatusError("gemini", resp, []byte("slow down"))

	var rlErr *provider.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 5*time.Second, rlErr.RetryAfter)

	resp = &http.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}}
	err = provider.StatusError("gemini", resp, []byte("bad gateway"))
	assert.False(t, errors.As(err, &rlErr))
	assert.EqualError(t, err, "gemini API error (status 502): bad gateway")
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", provider.Truncate("short", 10))
	assert.Equal(t, "abc...", provider.Truncate("abcdef", 3))

	out := provider.Truncate("অনুরোধ সীমা অতিক্রম", 4)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "অনুর...", out)
}

func TestUnavailable(t *testing.T) {
	u := &provider.Unavailable{Name: "groq", Err: errors.New("api key is required")}

	_, err := u.Complete(context.Background(), port.CompletionRequest{})

	assert.EqualError(t, err, "groq not configured: api key is required")
}
