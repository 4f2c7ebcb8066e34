package simbaclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SIMBAChain/simba-sdk-go/pkg/simba"
	"github.com/SIMBAChain/simba-sdk-go/pkg/simbaclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		client, err := simbaclient.New(nil)

		require.ErrorIs(t, err, simba.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("normalizes the base URL", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			baseURL string
			want    string
		}{
			{
				name:    "schemeless",
				baseURL: "api.example.com",
				want:    "https://api.example.com",
			},
			{
				name:    "trailing slash",
				baseURL: "https://api.example.com/",
				want:    "https://api.example.com",
			},
			{
				name:    "schemeless with trailing slash",
				baseURL: "api.example.com/",
				want:    "https://api.example.com",
			},
			{
				name:    "explicit http",
				baseURL: "http://localhost:8080",
				want:    "http://localhost:8080",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				client, err := simbaclient.New(&simba.Config{BaseURL: tt.baseURL})
				require.NoError(t, err)

				t.Cleanup(func() { _ = client.Close() })

				assert.Equal(t, tt.want, client.BaseURL())
			})
		}
	})

	t.Run("debug logger", func(t *testing.T) {
		t.Parallel()

		client, err := simbaclient.New(&simba.Config{BaseURL: "api.example.com", Debug: true})

		require.NoError(t, err)
		assert.NoError(t, client.Close())
	})
}

func TestNewDefaultStore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := simbaclient.New(&simba.Config{BaseURL: server.URL})
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	// The default in-memory store lets an unauthenticated request through.
	resp, err := client.Get(context.Background(), "/v2/info", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-static", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := simbaclient.NewWithToken(server.URL, "client-one", "tok-static")
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	resp, err := client.Get(context.Background(), "/v2/info", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewWithClientCredentials(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()

	mux.HandleFunc("/o/token/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostFormValue("grant_type"))
		assert.Equal(t, "client-one", r.PostFormValue("client_id"))
		assert.Equal(t, "secret-one", r.PostFormValue("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-granted", "expires_in": 3600}`))
	})

	mux.HandleFunc("/v2/info", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-granted", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := simbaclient.NewWithClientCredentials(server.URL, server.URL+"/o/token/", "client-one", "secret-one")
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Authorize(context.Background(), "", nil))

	resp, err := client.Get(context.Background(), "/v2/info", nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status": "ok"}`, resp.Text())
}
