package remote

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dimasma0305/evilclippy/internal/clippy/errors"
	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Response
		wantErr string
	}{
		{
			name: "plain json",
			text: `{"severity":"high","insult":"eval on line 1.","advice":"Use JSON.parse.","reason":"Code injection","confidence":0.95}`,
			want: Response{Severity: verdict.SeverityHigh, Insult: "eval on line 1.", Advice: "Use JSON.parse.", Reason: "Code injection", Confidence: 0.95},
		},
		{
			name: "json fence",
			text: "```json\n{\"severity\":\"low\",\"insult\":\"i\",\"advice\":\"a\",\"reason\":\"r\",\"confidence\":0.5}\n```",
			want: Response{Severity: verdict.SeverityLow, Insult: "i", Advice: "a", Reason: "r", Confidence: 0.5},
		},
		{
			name: "bare fence and missing confidence",
			text: "```\n{\"severity\":\"medium\",\"insult\":\"i\",\"advice\":\"a\",\"reason\":\"r\"}\n```",
			want: Response{Severity: verdict.SeverityMedium, Insult: "i", Advice: "a", Reason: "r", Confidence: DefaultConfidence},
		},
		{
			name: "invalid confidence",
			text: `{"severity":"medium","insult":"i","advice":"a","reason":"r","confidence":"very"}`,
			want: Response{Severity: verdict.SeverityMedium, Insult: "i", Advice: "a", Reason: "r", Confidence: DefaultConfidence},
		},
		{
			name: "zero confidence",
			text: `{"severity":"medium","insult":"i","advice":"a","reason":"r","confidence":0}`,
			want: Response{Severity: verdict.SeverityMedium, Insult: "i", Advice: "a", Reason: "r", Confidence: DefaultConfidence},
		},
		{name: "not json", text: "Your code is bad.", wantErr: StageParse},
		{name: "bad severity", text: `{"severity":"critical","insult":"i","advice":"a","reason":"r"}`, wantErr: StageSchema},
		{name: "missing advice", text: `{"severity":"low","insult":"i","reason":"r"}`, wantErr: StageSchema},
		{name: "blank insult", text: `{"severity":"low","insult":"  ","advice":"a","reason":"r"}`, wantErr: StageSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.text)
			if tt.wantErr != "" {
				var ae *AnalysisError
				if !errors.As(err, &ae) {
					t.Fatalf("expected *AnalysisError, got %v", err)
				}
				if ae.Stage != tt.wantErr {
					t.Errorf("Stage = %q, want %q", ae.Stage, tt.wantErr)
				}
				if !errors.Is(err, errors.ErrRemoteResponse) {
					t.Errorf("error should wrap ErrRemoteResponse: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResponseVerdict(t *testing.T) {
	v := Response{Severity: verdict.SeverityHigh, Insult: "Bad.", Advice: "Fix it.", Reason: "why", Confidence: 0.7}.Verdict()
	if v.Message != "Bad. Fix it." {
		t.Errorf("Message = %q", v.Message)
	}
	if v.Emotion != verdict.EmotionFurious || v.Provenance != verdict.FromRemote || v.Note != "why" {
		t.Errorf("unexpected verdict %+v", v)
	}
	if v.Confidence == nil || *v.Confidence != 0.7 {
		t.Errorf("Confidence = %v", v.Confidence)
	}
}
