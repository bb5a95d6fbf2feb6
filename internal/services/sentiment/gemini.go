package sentiment

import (
	"context"
	"fmt"
	"time"

	"SignalPulse/internal/domain/models"
	xhttp "SignalPulse/pkg/http"
)

// Gemini calls a Gemini-compatible generateContent endpoint.
type Gemini struct {
	apiKey  string
	baseURL string
	model   string
	client  *xhttp.Client
}

func NewGemini(apiKey, baseURL, model string, timeout time.Duration) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *Gemini) Name() string { return "gemini" }

type gmGenerateRequest struct {
	Contents []gmContent `json:"contents"`
}

type gmContent struct {
	Parts []gmPart `json:"parts"`
}

type gmPart struct {
	Text string `json:"text"`
}

type gmGenerateResponse struct {
	Candidates []struct {
		Content gmContent `json:"content"`
	} `json:"candidates"`
}

func (p *Gemini) Analyze(ctx context.Context, prompt string) (string, error) {
	if p.apiKey == "" {
		return "", models.PipelineErrorf(models.KindProviderUnavailable, "sentiment.gemini",
			"api key not configured")
	}

	var resp gmGenerateResponse
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.model),
		QueryParams: map[string][]string{
			"key": {p.apiKey},
		},
		Body: gmGenerateRequest{
			Contents: []gmContent{
				{Parts: []gmPart{{Text: prompt}}},
			},
		},
	}, &resp)
	if err != nil {
		return "", models.NewPipelineError(models.KindProviderUnavailable, "sentiment.gemini", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", models.PipelineErrorf(models.KindParse, "sentiment.gemini", "no candidates in response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
