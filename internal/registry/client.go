package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient implements Registry over the gateway's JSON API. The gateway
// wraps the actual chain transaction (wallet, gas, confirmation); this client
// deliberately knows nothing about any of that.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a gateway-backed registry client.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

type registerProofRequest struct {
	ContentHash string `json:"content_hash"`
	VectorHash  string `json:"vector_hash"`
	MetadataURI string `json:"metadata_uri"`
}

type registerProofResponse struct {
	ProofID string `json:"proof_id"`
}

// RegisterProof submits a new proof to the gateway.
func (c *HTTPClient) RegisterProof(ctx context.Context, contentHash, vectorHash, metadataURI string) (string, error) {
	body, err := json.Marshal(registerProofRequest{
		ContentHash: contentHash,
		VectorHash:  vectorHash,
		MetadataURI: metadataURI,
	})
	if err != nil {
		return "", fmt.Errorf("marshal register request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/v1/proofs", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", parseError(resp)
	}

	var out registerProofResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode register response: %w", err)
	}
	return out.ProofID, nil
}

// VerifyHash queries the gateway for a prior registration. A 404 is a valid
// "not registered" answer, not an error.
func (c *HTTPClient) VerifyHash(ctx context.Context, contentHash string) (*Verification, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/proofs/"+contentHash, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Verification{Found: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var out Verification
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	return resp, nil
}

// parseError converts a non-success gateway response into a RemoteError.
func parseError(resp *http.Response) error {
	re := &RemoteError{Status: resp.StatusCode, Code: "unknown", Message: resp.Status}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var parsed RemoteError
		if json.Unmarshal(data, &parsed) == nil && parsed.Message != "" {
			re.Code = parsed.Code
			re.Message = parsed.Message
		}
	}
	return re
}

var _ Registry = (*HTTPClient)(nil)
