package testutil

import "net/http"

// WithAPIKey sets the Authorization header the way the BriteVerify API expects it.
func WithAPIKey(req *http.Request, apiKey string) *http.Request {
	req.Header.Set("Authorization", "ApiKey: "+apiKey)
	return req
}
