// Package advisor talks to the external text-generation service that
// describes reorganisations and proposes structural changes.
package advisor

import (
	"context"
	"errors"

	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
)

// ErrUnavailable is returned when no text-generation backend is configured.
var ErrUnavailable = errors.New("advisor: text generation unavailable")

// Summary describes the impact of moving from one record set to another.
type Summary = rollup.Impact

// Recommendation is one proposed structural change.
type Recommendation struct {
	Area            string `json:"area"`
	Optimization    string `json:"optimization"`
	PotentialImpact string `json:"potentialImpact"`
}

// Recommendations is the analysis returned by Recommend.
type Recommendations struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Summarizer describes the change between two versions of the organisation.
type Summarizer interface {
	Summarize(ctx context.Context, before, after []position.Position) (Summary, error)
}

// Recommender proposes optimisations for an organisation given its goals.
type Recommender interface {
	Recommend(ctx context.Context, records []position.Position, goals string) (Recommendations, error)
}

// Advisor is both a Summarizer and a Recommender.
type Advisor interface {
	Summarizer
	Recommender
}

// Unavailable answers every call with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Summarize(context.Context, []position.Position, []position.Position) (Summary, error) {
	return Summary{}, ErrUnavailable
}

func (Unavailable) Recommend(context.Context, []position.Position, string) (Recommendations, error) {
	return Recommendations{}, ErrUnavailable
}
