package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SourceRequest asks for a digest of Keyword across Sources.
type SourceRequest struct {
	Keyword string
	Sources []string
}

type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// FailureKind classifies why a source produced no content.
type FailureKind int

const (
	AcquisitionFailure FailureKind = iota
	UnsupportedSource
)

func (k FailureKind) String() string {
	switch k {
	case UnsupportedSource:
		return "unsupported"
	default:
		return "acquisition"
	}
}

// SourceOutcome is the result of acquiring one source. Exactly one of
// Success or Failure is set.
type SourceOutcome struct {
	Success *Success
	Failure *Failure
}

type Success struct {
	Content   string
	Citations []Citation
}

type Failure struct {
	Reason string
	Kind   FailureKind
}

func Succeeded(content string, citations []Citation) SourceOutcome {
	return SourceOutcome{Success: &Success{Content: content, Citations: citations}}
}

func Failed(kind FailureKind, reason string) SourceOutcome {
	return SourceOutcome{Failure: &Failure{Reason: reason, Kind: kind}}
}

func (o SourceOutcome) OK() bool {
	return o.Success != nil
}

type SourceRef struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Website string `json:"website"`
}

// SiteSummary is the externally visible result for one requested source.
// Either Summary or Error is set; Sources is empty when Error is set.
type SiteSummary struct {
	Summary string      `json:"summary,omitempty"`
	Error   string      `json:"error,omitempty"`
	Sources []SourceRef `json:"sources"`
}

func (s SiteSummary) Failed() bool {
	return s.Error != ""
}

// MarshalJSON emits exactly one of "summary" or "error", so an empty
// summary still serializes as a success.
func (s SiteSummary) MarshalJSON() ([]byte, error) {
	sources := s.Sources
	if sources == nil {
		sources = []SourceRef{}
	}

	if s.Failed() {
		return json.Marshal(struct {
			Error   string      `json:"error"`
			Sources []SourceRef `json:"sources"`
		}{s.Error, sources})
	}
	return json.Marshal(struct {
		Summary string      `json:"summary"`
		Sources []SourceRef `json:"sources"`
	}{s.Summary, sources})
}

// Digest is the envelope returned for one acquire-and-summarize request.
type Digest struct {
	ID        uuid.UUID              `json:"id"`
	Keyword   string                 `json:"keyword"`
	CreatedAt time.Time              `json:"created_at"`
	Results   map[string]SiteSummary `json:"results"`
}
