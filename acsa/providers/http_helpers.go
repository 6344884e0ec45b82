package providers

import (
	"bytes"
	"context"
	"net/http"
)

// newJSONRequest builds a POST request with a JSON content-type header.
// Shared by every OpenAI-shaped backend (OpenAI itself and the three
// OpenAI-compatible aggregators).
func newJSONRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
