package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/spf13/cast"
)

// NoCategoryData is reported when a source fetch is attempted for an
// activity whose classification is absent or failed.
const NoCategoryData = "No category data"

// PriceClient talks to the external classification and price-search
// services. It never fetches a classification on behalf of a source
// fetch: classification is an explicit separate step, and a source fetch
// without one fails immediately.
type PriceClient struct {
	baseURL string
	httpc   *http.Client
}

// NewPriceClient builds a client from the service config.
func NewPriceClient(cfg Config) *PriceClient {
	return &PriceClient{baseURL: cfg.API.BaseURL, httpc: cfg.HTTPClient()}
}

// FetchCategoryData classifies an activity description. Transport and
// decode failures are folded into the returned classification's Error
// field; the call itself never fails loudly.
func (c *PriceClient) FetchCategoryData(ctx context.Context, activity string) CategoryClassification {
	payload, err := c.PostForm(ctx, "/mistral_activity_categories", map[string]string{"query": activity})
	if err != nil {
		return CategoryClassification{Error: err.Error()}
	}

	if m, ok := payload.(map[string]any); ok {
		if errMsg := cast.ToString(m["error"]); errMsg != "" {
			return CategoryClassification{Error: errMsg, RawAnswer: cast.ToString(m["raw_answer"])}
		}
		if raw := cast.ToString(m["raw_answer"]); raw != "" {
			return CategoryClassification{RawAnswer: raw}
		}
	}
	return CategoryClassification{Categories: NormalizeCategories(payload)}
}

// FetchActivitySource runs the price search for one activity against one
// source, reading the classification from the store's cache. A missing
// or failed classification fails the whole fetch with NoCategoryData;
// an individual category's transport failure is swallowed and merely
// yields fewer items, but an error payload declared by the service
// itself fails the whole fetch so callers can surface and retry it.
func (c *PriceClient) FetchActivitySource(ctx context.Context, store *Store, activity string, source PriceSource) SourceFetchResult {
	cls, ok := store.Classification(activity)
	if !ok || cls.Failed() {
		res := SourceFetchResult{Activity: activity, Source: source, Error: NoCategoryData}
		if ok {
			res.Error = cls.Error
			res.RawAnswer = cls.RawAnswer
			if res.Error == "" && res.RawAnswer == "" {
				res.Error = NoCategoryData
			}
		}
		return res
	}

	var items []PriceLineItem
	for _, cat := range cls.Categories {
		if cat.Description == "" {
			continue
		}
		payload, err := c.PostForm(ctx, "/search_"+string(source), map[string]string{"query": cat.Description})
		if err != nil {
			log.Printf("client: %s search for %q failed: %v", source, cat.Description, err)
			continue
		}
		if m, ok := payload.(map[string]any); ok {
			errMsg := cast.ToString(m["error"])
			raw := cast.ToString(m["raw_answer"])
			if errMsg != "" || raw != "" {
				log.Printf("client: %s search for %q returned an error payload: %s%s", source, cat.Description, errMsg, raw)
				return SourceFetchResult{Activity: activity, Source: source, Error: errMsg, RawAnswer: raw}
			}
		}
		items = append(items, TagItems(ExtractResults(payload), activity, cat.MainCategory, source)...)
	}
	return SourceFetchResult{Activity: activity, Source: source, Items: items}
}

// PostForm sends a multipart form POST to the given path and decodes the
// JSON response into a generic value.
func (c *PriceClient) PostForm(ctx context.Context, path string, fields map[string]string) (any, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("post %s: status %d", path, resp.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return payload, nil
}

// PostJSON sends a JSON POST and returns the raw response bytes with the
// response content type. Used for the binary document endpoints.
func (c *PriceClient) PostJSON(ctx context.Context, path string, body any) ([]byte, string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("post %s: status %d", path, resp.StatusCode)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s response: %w", path, err)
	}
	return out, resp.Header.Get("Content-Type"), nil
}
