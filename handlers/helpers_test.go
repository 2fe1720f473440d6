package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"quotewizard/services"
)

// upstream is a stub for the external classification/search/document
// services, keyed by request path.
type upstream struct {
	mu        sync.Mutex
	responses map[string]any
	requests  []string
	server    *httptest.Server
}

func newUpstream(t *testing.T, responses map[string]any) *upstream {
	t.Helper()
	u := &upstream{responses: responses}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.URL.Path)
		resp, ok := u.responses[r.URL.Path]
		u.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) registry() *services.Registry {
	cfg := services.DefaultConfig()
	cfg.API.BaseURL = u.server.URL
	return services.NewRegistry(services.NewPriceClient(cfg))
}

func (u *upstream) recorded() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// jsonRequest builds a request with a JSON body and content type.
func jsonRequest(method, target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody parses the recorded JSON response into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// stub responses shared by the aggregation tests.
var classifyResponse = map[string]any{
	"it": []any{
		map[string]any{"Main Category": "Demolizioni", "Description": "demolizione muri"},
	},
}

var searchResponse = map[string]any{
	"results": []any{
		map[string]any{"code": "D1", "description": "Demolizione", "price": "25.00"},
	},
}

var siteworksResponse = map[string]any{
	"Works": []any{
		map[string]any{"Area": "Piano terra", "Item": "demolizione", "Work": "demolizione tramezzi", "Quantity": 12.0, "Unit": "mq"},
	},
	"Missing": []any{},
	"GeneralTimeline": map[string]any{
		"Activities": []any{
			map[string]any{"Activity": "demolizione tramezzi", "Starting": 0.0, "Finishing": 1.0},
		},
	},
}
