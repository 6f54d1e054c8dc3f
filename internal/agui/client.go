package agui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const azureAPIVersion = "2024-06-01"

// AzureOpenAIClient implements ChatCompleter against the Azure OpenAI chat
// completions endpoint.
type AzureOpenAIClient struct {
	endpoint   string
	deployment string
	apiKey     string
	httpClient *http.Client
}

func NewAzureOpenAIClient(endpoint, deployment, apiKey string) *AzureOpenAIClient {
	return &AzureOpenAIClient{
		endpoint:   endpoint,
		deployment: deployment,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatCompletionRequest struct {
	Messages []Message `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AzureOpenAIClient) Complete(ctx context.Context, instructions string, messages []Message) (Message, error) {
	payload := chatCompletionRequest{}
	if instructions != "" {
		payload.Messages = append(payload.Messages, Message{Role: "system", Content: instructions})
	}
	payload.Messages = append(payload.Messages, messages...)

	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encoding completion request: %w", err)
	}

	u, err := url.JoinPath(c.endpoint, "openai", "deployments", c.deployment, "chat", "completions")
	if err != nil {
		return Message{}, fmt.Errorf("building completion url: %w", err)
	}
	u += "?api-version=" + azureAPIVersion

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("calling completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Message{}, fmt.Errorf("reading completion response: %w", err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Message{}, fmt.Errorf("decoding completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return Message{}, fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return Message{}, fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return Message{}, fmt.Errorf("completion response contained no choices")
	}
	return parsed.Choices[0].Message, nil
}
