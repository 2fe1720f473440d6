package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// stubUpstream is a fake classification/search/document service. Each
// path maps to a canned JSON response; every handled request is recorded
// as "path query" in arrival order.
type stubUpstream struct {
	mu        sync.Mutex
	responses map[string]any
	requests  []string
	server    *httptest.Server
}

func newStubUpstream(t *testing.T, responses map[string]any) *stubUpstream {
	t.Helper()
	s := &stubUpstream{responses: responses}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Path+" "+r.FormValue("query"))
		resp, ok := s.responses[r.URL.Path]
		s.mu.Unlock()
		if !ok {
			http.Error(w, "not stubbed", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubUpstream) client() *PriceClient {
	cfg := DefaultConfig()
	cfg.API.BaseURL = s.server.URL
	return NewPriceClient(cfg)
}

func (s *stubUpstream) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *stubUpstream) setResponse(path string, resp any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = resp
}
