// Package remote asks a hosted language model to judge a code snippet.
package remote

import (
	"fmt"

	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

// Request is one snippet to judge
type Request struct {
	Code            string
	FilePath        string
	Language        string
	DetectedPattern string
}

// Response is the validated JSON contract returned by the model
type Response struct {
	Severity   verdict.Severity `json:"severity"`
	Insult     string           `json:"insult"`
	Advice     string           `json:"advice"`
	Reason     string           `json:"reason"`
	Confidence float64          `json:"confidence"`
}

// Verdict converts a model response into a remote-tagged verdict
func (r Response) Verdict() verdict.Verdict {
	conf := r.Confidence
	return verdict.Verdict{
		Severity:   r.Severity,
		Message:    r.Insult + " " + r.Advice,
		Emotion:    verdict.EmotionFor(r.Severity),
		Provenance: verdict.FromRemote,
		Confidence: &conf,
		Note:       r.Reason,
	}
}

// Analysis stages reported by AnalysisError
const (
	StageRequest = "request"
	StageParse   = "parse"
	StageSchema  = "schema"
)

// AnalysisError is returned for every failed remote analysis
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("remote analysis failed at %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
