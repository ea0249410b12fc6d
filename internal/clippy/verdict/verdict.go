// Package verdict defines the result shapes produced by the analysis pipeline
package verdict

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the ordered classification of how problematic a file is
type Severity string

// Severity tiers, lowest first
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank returns the position of s in the low < medium < high order
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is one of the three known tiers
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// AtLeast reports whether s ranks at or above other
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// ParseSeverity parses a case-insensitive severity name
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

// Emotion is the avatar mood shown alongside a message
type Emotion string

// Emotions
const (
	EmotionIdle    Emotion = "idle"
	EmotionAnnoyed Emotion = "annoyed"
	EmotionFurious Emotion = "furious"
)

// EmotionFor maps a severity to its emotion
func EmotionFor(s Severity) Emotion {
	switch s {
	case SeverityHigh:
		return EmotionFurious
	case SeverityMedium:
		return EmotionAnnoyed
	default:
		return EmotionIdle
	}
}

// Provenance records which tier produced a verdict
type Provenance string

// Provenance tags
const (
	FromCache    Provenance = "cache"
	FromRemote   Provenance = "remote"
	FromLocal    Provenance = "local"
	FromFallback Provenance = "fallback"
)

// Verdict is the classification of one analyzed file change
type Verdict struct {
	Severity    Severity   `json:"severity"`
	Message     string     `json:"message"`
	Emotion     Emotion    `json:"emotion"`
	ShouldLaugh bool       `json:"shouldLaugh"`
	LaughReason string     `json:"laughReason,omitempty"`
	Provenance  Provenance `json:"provenance"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// UsedRemote reports whether the severity came from the remote model, directly or via cache
func (v Verdict) UsedRemote() bool {
	return v.Provenance == FromRemote || v.Provenance == FromCache
}

// WithProvenance returns a copy of v tagged with p
func (v Verdict) WithProvenance(p Provenance) Verdict {
	v.Provenance = p
	if v.Confidence != nil {
		c := *v.Confidence
		v.Confidence = &c
	}
	return v
}

const (
	analyzerFallbackMessage = "I tried to analyze your code but something went wrong. Spooky."
	watcherFallbackMessage  = "I tried to judge your code but it broke my analyzer. Impressive."
)

// AnalyzerFallback is returned when the analysis chain itself fails
func AnalyzerFallback() Verdict {
	return Verdict{
		Severity:   SeverityLow,
		Message:    analyzerFallbackMessage,
		Emotion:    EmotionIdle,
		Provenance: FromFallback,
		Note:       "Error fallback",
	}
}

// WatcherFallback is emitted when an analysis escapes with an error at the watcher boundary
func WatcherFallback() Verdict {
	return Verdict{
		Severity:   SeverityLow,
		Message:    watcherFallbackMessage,
		Emotion:    EmotionAnnoyed,
		Provenance: FromFallback,
		Note:       "Watcher fallback",
	}
}

// EventType distinguishes analysis events from idle nudges
type EventType string

// Event types
const (
	EventInsult     EventType = "INSULT_TRIGGER"
	EventInactivity EventType = "INACTIVITY"
)

// Event is the record delivered to sinks for every analyzed change
type Event struct {
	ID          string     `json:"id"`
	Type        EventType  `json:"type"`
	Severity    Severity   `json:"severity"`
	FilePath    string     `json:"filePath,omitempty"`
	Message     string     `json:"message"`
	Emotion     Emotion    `json:"emotion"`
	ShouldLaugh bool       `json:"shouldLaugh"`
	LaughReason string     `json:"laughReason,omitempty"`
	UsedRemote  bool       `json:"usedRemote"`
	Provenance  Provenance `json:"provenance,omitempty"`
	Note        string     `json:"note,omitempty"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// NewEvent builds an insult event for filePath from v
func NewEvent(filePath string, v Verdict, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        EventInsult,
		Severity:    v.Severity,
		FilePath:    filePath,
		Message:     v.Message,
		Emotion:     v.Emotion,
		ShouldLaugh: v.ShouldLaugh,
		LaughReason: v.LaughReason,
		UsedRemote:  v.UsedRemote(),
		Provenance:  v.Provenance,
		Note:        v.Note,
		Confidence:  v.Confidence,
		Timestamp:   at,
	}
}

// NewInactivityEvent builds an idle nudge
func NewInactivityEvent(message string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventInactivity,
		Severity:  SeverityLow,
		Message:   message,
		Emotion:   EmotionAnnoyed,
		Timestamp: at,
	}
}
