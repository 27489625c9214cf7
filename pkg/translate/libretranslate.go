// Package translate provides a LibreTranslate-backed translation delegate.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client translates text via a LibreTranslate instance. Calls are rate
// limited so a burst of multilingual queries cannot saturate the delegate.
type Client struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	client  *http.Client
}

// New creates a translation client. apiKey may be empty for self-hosted
// instances.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type translateReq struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResp struct {
	TranslatedText string `json:"translatedText"`
}

// Translate converts text from the source language to the target language.
// Regional variants in source (e.g. "ar-AE") are reduced to their base code.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, _ := json.Marshal(translateReq{
		Q:      text,
		Source: baseLang(source),
		Target: baseLang(target),
		APIKey: c.apiKey,
	})
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("translate: status %d", resp.StatusCode)
	}

	var result translateResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("translate decode: %w", err)
	}
	return result.TranslatedText, nil
}

// baseLang strips a regional suffix: "ar-AE" → "ar".
func baseLang(code string) string {
	for i := range code {
		if code[i] == '-' {
			return code[:i]
		}
	}
	return code
}
