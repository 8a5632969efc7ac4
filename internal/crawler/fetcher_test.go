package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFetcher(retries int) *HTTPFetcher {
	return NewHTTPFetcher(FetcherOptions{Timeout: 5 * time.Second, MaxRetries: retries}, zap.NewNop())
}

func TestFetchParsesDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(listing("1,99 €")))
	}))
	defer server.Close()

	page, err := newTestFetcher(1).Fetch(context.Background(), server.URL+"/cat?page=1")
	require.NoError(t, err)

	assert.Equal(t, server.URL+"/cat?page=1", page.URL)
	assert.Equal(t, 1, page.Doc.Find("div.product").Length())
}

func TestFetchReportsRedirectedLocation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new?page=1", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listing()))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := newTestFetcher(1).Fetch(context.Background(), server.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/new?page=1", page.URL)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(listing("1,00")))
	}))
	defer server.Close()

	page, err := newTestFetcher(3).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Doc.Find("div.product").Length())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestFetcher(2).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestFetcher(3).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewHTTPFetcherDefaults(t *testing.T) {
	f := NewHTTPFetcher(FetcherOptions{RetryWait: -1}, zap.NewNop())

	assert.Equal(t, defaultTimeout, f.Client.Timeout)
	assert.Equal(t, defaultMaxRetries, f.MaxRetries)
	assert.Equal(t, defaultRetryWait, f.RetryWait)
}
