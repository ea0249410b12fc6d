package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/dimasma0305/evilclippy/internal/log"
)

// DefaultGeminiBaseURL is the public Generative Language API endpoint
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Gemini talks to the generateContent REST endpoint
type Gemini struct {
	client  *req.Client
	apiKey  string
	model   string
	baseURL string
}

// NewGemini creates a Gemini provider. Empty model and baseURL use the defaults.
func NewGemini(apiKey, model, baseURL string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}

	client := req.C().
		SetUserAgent("evilclippy").
		SetTimeout(60 * time.Second).
		EnableKeepAlives()

	return &Gemini{
		client:  client,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name implements Provider
func (g *Gemini) Name() string { return ProviderGemini }

// Generate implements Provider
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}

	log.DebugH3("[gemini] POST %s", url)
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBodyJsonMarshal(body).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var out geminiResponse
	if len(resp.Bytes()) > 0 {
		if err := resp.UnmarshalJson(&out); err != nil && resp.StatusCode == 200 {
			return "", fmt.Errorf("error unmarshal json: %w, %s", err, resp.String())
		}
	}
	if resp.StatusCode != 200 {
		if out.Error != nil {
			return "", fmt.Errorf("gemini returned %d %s: %s", resp.StatusCode, out.Error.Status, out.Error.Message)
		}
		return "", fmt.Errorf("request end with %d status, %s", resp.StatusCode, resp.String())
	}

	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}
