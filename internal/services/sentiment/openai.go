package sentiment

import (
	"context"
	"time"

	"SignalPulse/internal/domain/models"
	xhttp "SignalPulse/pkg/http"
)

// OpenAI calls an OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	apiKey  string
	baseURL string
	model   string
	client  *xhttp.Client
}

func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *OpenAI) Name() string { return "openai" }

type oaChatRequest struct {
	Model       string          `json:"model"`
	Messages    []oaChatMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type oaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaChatResponse struct {
	Choices []struct {
		Message oaChatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAI) Analyze(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", models.PipelineErrorf(models.KindProviderUnavailable, "sentiment.openai",
			"api key not configured")
	}

	var resp oaChatResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    p.baseURL + "/v1/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + p.apiKey,
			"Content-Type":  "application/json",
		},
		Body: oaChatRequest{
			Model: p.model,
			Messages: []oaChatMessage{
				{Role: "user", Content: prompt},
			},
			Temperature: 0.2,
		},
	}, &resp)
	if err != nil {
		return "", models.NewPipelineError(models.KindProviderUnavailable, "sentiment.openai", err)
	}

	if len(resp.Choices) == 0 {
		return "", models.PipelineErrorf(models.KindParse, "sentiment.openai", "no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
