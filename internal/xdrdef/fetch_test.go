package xdrdef

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(t *testing.T, handler http.Handler, token string) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewFetcher(token, 5*time.Second)
	f.RawURL = srv.URL + "/raw"
	f.APIURL = srv.URL + "/api"
	f.MaxRetries = 2
	f.InitialInterval = time.Millisecond
	return f
}

func TestFetch(t *testing.T) {
	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v23.0"}`))
	})
	mux.HandleFunc("/api/contents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "v23.0", r.URL.Query().Get("ref"))
		_, _ = w.Write([]byte(`[
			{"name":"Stellar-types.x","type":"file"},
			{"name":"README.md","type":"file"},
			{"name":"Stellar-ledger.x","type":"file"},
			{"name":"Stellar-missing.x","type":"file"},
			{"name":"nested.x","type":"dir"}
		]`))
	})
	mux.HandleFunc("/raw/v23.0/Stellar-types.x", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("typedef opaque Hash[32];"))
	})
	mux.HandleFunc("/raw/v23.0/Stellar-ledger.x", func(w http.ResponseWriter, r *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("struct L { Hash h; };"))
	})
	mux.HandleFunc("/raw/v23.0/Stellar-missing.x", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	f := testFetcher(t, mux, "secret")

	tag, files, failed, err := f.Fetch(context.Background(), "latest")
	require.NoError(t, err)
	assert.Equal(t, "v23.0", tag)
	assert.Equal(t, map[string]string{
		"Stellar-ledger.x": "struct L { Hash h; };",
		"Stellar-types.x":  "typedef opaque Hash[32];",
	}, files)
	assert.Equal(t, []string{"Stellar-missing.x"}, failed)
	assert.Equal(t, int32(2), flaky.Load())
}

func TestFetchNormalizesVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/contents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v22.0", r.URL.Query().Get("ref"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"name":"A.x","type":"file"}]`))
	})
	mux.HandleFunc("/raw/v22.0/A.x", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("const A = 1;"))
	})
	f := testFetcher(t, mux, "")

	tag, files, failed, err := f.Fetch(context.Background(), "22.0")
	require.NoError(t, err)
	assert.Equal(t, "v22.0", tag)
	assert.Len(t, files, 1)
	assert.Empty(t, failed)
}

func TestFetchErrors(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		var calls atomic.Int32
		f := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"API rate limit exceeded for 1.2.3.4."}`))
		}), "")
		_, _, _, err := f.Fetch(context.Background(), "v1.0")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Contains(t, err.Error(), "unauthenticated")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("server keeps failing", func(t *testing.T) {
		var calls atomic.Int32
		f := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}), "")
		_, err := f.LatestTag(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500 Internal Server Error")
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("no files fetched", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/contents", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"name":"A.x","type":"file"}]`))
		})
		f := testFetcher(t, mux, "")
		_, _, _, err := f.Fetch(context.Background(), "v1.0")
		assert.ErrorContains(t, err, "failed to fetch any .x file from stellar-xdr v1.0")
	})

	t.Run("empty release", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/contents", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		f := testFetcher(t, mux, "")
		_, _, _, err := f.Fetch(context.Background(), "v1.0")
		assert.ErrorContains(t, err, "no .x files in stellar-xdr v1.0")
	})
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "v22.0", NormalizeTag("22.0"))
	assert.Equal(t, "v22.0", NormalizeTag("v22.0"))
	assert.Equal(t, "latest", NormalizeTag("latest"))
}
