package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// OpenAIProvider calls an OpenAI-compatible /embeddings endpoint. It
// satisfies port.Provider; availability is optional and callers fall
// back to the deterministic strategy on any error.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewOpenAIProvider creates a provider for the given endpoint. The API
// key is read from the named environment variable; a missing key is an
// error so the caller can decide to run without the external model.
func NewOpenAIProvider(apiKeyEnv, model, baseURL string, timeout time.Duration) (*OpenAIProvider, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Encode converts text into a vector of floats.
func (p *OpenAIProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{
		Input: []string{text},
		Model: p.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if embResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", embResp.Error.Message)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("API returned no embeddings")
	}

	return embResp.Data[0].Embedding, nil
}

// Name returns the provider's model name.
func (p *OpenAIProvider) Name() string {
	return p.model
}

// ProgressFunc reports warm-up progress; processed counts completed
// steps out of total.
type ProgressFunc func(processed, total int)

// WarmUp probes the provider with a trivial request so the first real
// query does not pay the cold-start cost. It is entirely best-effort:
// the returned error is informational and must not gate Encode.
func (p *OpenAIProvider) WarmUp(ctx context.Context, progress ProgressFunc) error {
	if progress != nil {
		progress(0, 1)
	}
	_, err := p.Encode(ctx, "warmup")
	if progress != nil {
		progress(1, 1)
	}
	if err != nil {
		return fmt.Errorf("provider warm-up failed: %w", err)
	}
	return nil
}
