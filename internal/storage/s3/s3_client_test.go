package s3_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sahara/internal/config"
	"sahara/internal/domain"
	s3store "sahara/internal/storage/s3"
)

const noSuchKeyBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>missing.png</Key></Error>`

func newTestSource(t *testing.T, handler http.HandlerFunc, maxMB int64) *s3store.ImageSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	src, err := s3store.NewImageSource(&config.S3Config{
		Region:    "ap-south-1",
		Bucket:    "scans",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
	}, maxMB)
	require.NoError(t, err)
	return src
}

// bucketStub serves one object with HEAD and Range support the way S3 does,
// recording each request and the body bytes it sent.
type bucketStub struct {
	payload []byte

	mu      sync.Mutex
	methods []string
	paths   []string
	sent    int64
}

func (b *bucketStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.methods = append(b.methods, r.Method)
	b.paths = append(b.paths, r.URL.Path)
	b.mu.Unlock()
	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(&countingWriter{ResponseWriter: w, stub: b}, r, "", time.Time{}, bytes.NewReader(b.payload))
}

func (b *bucketStub) requests() (methods, paths []string, sent int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.methods...), append([]string(nil), b.paths...), b.sent
}

type countingWriter struct {
	http.ResponseWriter
	stub *bucketStub
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.stub.mu.Lock()
	w.stub.sent += int64(n)
	w.stub.mu.Unlock()
	return n, err
}

func TestImageSource_Fetch(t *testing.T) {
	payload := []byte("\x89PNG\r\n\x1a\nfake-scan")
	stub := &bucketStub{payload: payload}
	src := newTestSource(t, stub.ServeHTTP, 10)

	data, err := src.Fetch(context.Background(), "/uploads/rx-1.png")

	require.NoError(t, err)
	assert.Equal(t, payload, data)
	methods, paths, _ := stub.requests()
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
	for _, p := range paths {
		assert.Equal(t, "/scans/uploads/rx-1.png", p)
	}
}

func TestImageSource_Fetch_NotFound(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(noSuchKeyBody))
	}, 10)

	_, err := src.Fetch(context.Background(), "missing.png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrImageNotFound))
}

func TestImageSource_Fetch_EmptyKey(t *testing.T) {
	called := false
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, 10)

	_, err := src.Fetch(context.Background(), "   ")

	assert.True(t, errors.Is(err, domain.ErrInputInvalid))
	assert.False(t, called)
}

func TestImageSource_Fetch_TooLarge(t *testing.T) {
	stub := &bucketStub{payload: make([]byte, 2*1024*1024)}
	src := newTestSource(t, stub.ServeHTTP, 1)

	_, err := src.Fetch(context.Background(), "huge.png")

	assert.True(t, errors.Is(err, domain.ErrInputInvalid))
	methods, _, sent := stub.requests()
	assert.Equal(t, []string{http.MethodHead}, methods)
	assert.LessOrEqual(t, sent, int64(1024*1024))
}
