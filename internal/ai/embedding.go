package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EmbeddingConfig holds the endpoint settings for an OpenAI-compatible
// embeddings API.
type EmbeddingConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// maxEmbeddingBatch caps array input per request; embedding APIs commonly
// reject larger arrays.
const maxEmbeddingBatch = 10

// Embed returns the vector for one text.
func (c *OpenAICompatibleClient) Embed(ctx context.Context, cfg EmbeddingConfig, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}
	vectors, err := c.embedRequest(ctx, cfg, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in input order, splitting into requests of at most
// maxEmbeddingBatch. Whitespace-only entries are dropped before sending.
func (c *OpenAICompatibleClient) EmbedBatch(ctx context.Context, cfg EmbeddingConfig, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	trimmed := make([]string, 0, len(texts))
	for _, t := range texts {
		if s := strings.TrimSpace(t); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no non-empty texts for embedding")
	}

	vectors := make([][]float32, 0, len(trimmed))
	for start := 0; start < len(trimmed); start += maxEmbeddingBatch {
		end := start + maxEmbeddingBatch
		if end > len(trimmed) {
			end = len(trimmed)
		}
		batch, err := c.embedRequest(ctx, cfg, trimmed[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// embedRequest posts one embeddings call and returns a vector per input, in
// order. The API must answer with exactly as many vectors as inputs.
func (c *OpenAICompatibleClient) embedRequest(ctx context.Context, cfg EmbeddingConfig, input []string) ([][]float32, error) {
	bodyBytes, err := json.Marshal(map[string]interface{}{
		"model": cfg.Model,
		"input": input,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build embedding request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding json failed: %w", err)
	}
	if len(parsed.Data) != len(input) {
		return nil, fmt.Errorf("embedding count mismatch: %d inputs, %d vectors", len(input), len(parsed.Data))
	}
	vectors := make([][]float32, len(parsed.Data))
	for i := range parsed.Data {
		vectors[i] = parsed.Data[i].Embedding
	}
	return vectors, nil
}
