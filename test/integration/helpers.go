//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	testClientID     = "itest-client"
	testClientSecret = "itest-secret"
)

type appRecord struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// platformServer simulates the credential-protected platform surface the SDK
// talks to: an OAuth2 token endpoint plus an authenticated application
// resource, with one deliberately flaky endpoint for retry coverage.
type platformServer struct {
	mu        sync.Mutex
	tokens    map[string]bool
	apps      map[string]appRecord
	grants    int
	flakyHits atomic.Int32
	srv       *httptest.Server
}

func newPlatformServer() *platformServer {
	p := &platformServer{
		tokens: make(map[string]bool),
		apps:   make(map[string]appRecord),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/o/token/", p.handleToken)
	mux.HandleFunc("/v2/apps/", p.handleApps)
	mux.HandleFunc("/v2/flaky/", p.handleFlaky)

	p.srv = httptest.NewServer(mux)

	return p
}

func (p *platformServer) URL() string {
	return p.srv.URL
}

func (p *platformServer) Close() {
	p.srv.Close()
}

func (p *platformServer) grantCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.grants
}

func (p *platformServer) resetFlaky() {
	p.flakyHits.Store(0)
}

func (p *platformServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)

		return
	}

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	if r.PostFormValue("grant_type") != "client_credentials" ||
		r.PostFormValue("client_id") != testClientID ||
		r.PostFormValue("client_secret") != testClientSecret {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "invalid_client")

		return
	}

	p.mu.Lock()
	p.grants++
	token := fmt.Sprintf("itest-token-%d", p.grants)
	p.tokens[token] = true
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": token,
		"expires_in":   3600,
	})
}

func (p *platformServer) authenticated(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tokens[strings.TrimPrefix(header, "Bearer ")]
}

//nolint:funlen
func (p *platformServer) handleApps(w http.ResponseWriter, r *http.Request) {
	if !p.authenticated(r) {
		writeDetail(w, http.StatusUnauthorized, "authentication required")

		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v2/apps/"), "/")

	p.mu.Lock()
	defer p.mu.Unlock()

	if name == "" {
		switch r.Method {
		case http.MethodGet:
			results := make([]appRecord, 0, len(p.apps))
			for _, app := range p.apps {
				results = append(results, app)
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"count":   len(results),
				"results": results,
			})
		case http.MethodPost:
			var app appRecord
			if err := json.NewDecoder(r.Body).Decode(&app); err != nil || app.Name == "" {
				writeDetail(w, http.StatusBadRequest, "invalid application payload")

				return
			}

			p.apps[app.Name] = app

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(app)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

		return
	}

	app, ok := p.apps[name]
	if !ok {
		writeDetail(w, http.StatusNotFound, "no such application")

		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(app)
	case http.MethodPut:
		var update appRecord
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid application payload")

			return
		}

		update.Name = name
		p.apps[name] = update

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(update)
	case http.MethodDelete:
		delete(p.apps, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (p *platformServer) handleFlaky(w http.ResponseWriter, r *http.Request) {
	if !p.authenticated(r) {
		writeDetail(w, http.StatusUnauthorized, "authentication required")

		return
	}

	if p.flakyHits.Add(1) < 3 {
		writeDetail(w, http.StatusServiceUnavailable, "temporarily unavailable")

		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status": "ok"}`)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
