package remote

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

// DefaultConfidence is used when the model omits confidence or returns nonsense
const DefaultConfidence = 0.8

var fenceRe = regexp.MustCompile("```(?:json)?\\n?")

type rawResponse struct {
	Severity   string `json:"severity"`
	Insult     string `json:"insult"`
	Advice     string `json:"advice"`
	Reason     string `json:"reason"`
	Confidence any    `json:"confidence"`
}

// stripFences removes markdown code fences wrapping the payload
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = fenceRe.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// ParseResponse extracts and validates the JSON verdict from model output.
// Any problem is an *AnalysisError; no default verdict is ever substituted.
func ParseResponse(text string) (Response, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return Response{}, &AnalysisError{Stage: StageParse, Err: fmt.Errorf("%w: %v", errors.ErrRemoteResponse, err)}
	}

	sev := verdict.Severity(raw.Severity)
	if !sev.Valid() {
		return Response{}, &AnalysisError{Stage: StageSchema, Err: fmt.Errorf("%w: severity %q", errors.ErrRemoteResponse, raw.Severity)}
	}
	if strings.TrimSpace(raw.Insult) == "" || strings.TrimSpace(raw.Advice) == "" || strings.TrimSpace(raw.Reason) == "" {
		return Response{}, &AnalysisError{Stage: StageSchema, Err: fmt.Errorf("%w: missing insult, advice or reason", errors.ErrRemoteResponse)}
	}

	conf := DefaultConfidence
	if v, ok := raw.Confidence.(float64); ok && v > 0 && v <= 1 {
		conf = v
	}

	return Response{
		Severity:   sev,
		Insult:     raw.Insult,
		Advice:     raw.Advice,
		Reason:     raw.Reason,
		Confidence: conf,
	}, nil
}
