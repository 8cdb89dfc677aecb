package llm

import (
	"context"
	"fmt"
	"strings"

	"promptkit/internal/services"
)

// BlankEmbeddingText replaces empty input, which the service rejects.
const BlankEmbeddingText = "this is blank"

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// PrepareEmbeddingText applies the input rules used by Embed.
func PrepareEmbeddingText(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if text == "" {
		return BlankEmbeddingText
	}
	return text
}

// Embed returns the embedding vector for text using the configured embedding
// model. Newlines become spaces and empty text is replaced by a fixed
// placeholder.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	const op = "llm embed"
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "llm", "embed", "api key required", nil)
	}
	payload := embeddingRequest{
		Input: []string{PrepareEmbeddingText(text)},
		Model: c.cfg.EmbeddingModel,
	}

	var vector []float64
	err := c.withRetry(ctx, op, func() error {
		var decoded embeddingResponse
		if _, err := c.postJSON(ctx, "embeddings", payload, &decoded); err != nil {
			return err
		}
		if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
			return fmt.Errorf("%s: empty embedding data: %w", op, errAPIResponse)
		}
		vector = decoded.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, newTransportError(op, err)
	}
	return vector, nil
}
