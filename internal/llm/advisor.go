package llm

import (
	"context"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/worker"
)

// UnavailableMessage is recorded when the explanation service fails
const UnavailableMessage = "AI service unavailable"

// Advisor rate limits a Provider and folds its failures into the result
type Advisor struct {
	provider Provider
	limiter  *worker.Limiter
}

// NewAdvisor wraps provider. A nil limiter means no rate limiting.
func NewAdvisor(provider Provider, limiter *worker.Limiter) *Advisor {
	return &Advisor{provider: provider, limiter: limiter}
}

// Provider returns the wrapped provider
func (a *Advisor) Provider() Provider {
	return a.provider
}

// Advise returns the explanation for a finished analysis. It never fails:
// errors are reported in the Error field with Enabled set.
func (a *Advisor) Advise(ctx context.Context, analysis *model.DocumentAnalysis) *model.AIExplanation {
	name := a.provider.Name()

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, name); err != nil {
			return unavailable(name, err)
		}
	}

	resp, err := a.provider.Explain(ctx, ExplainRequest{
		Summary: analysis.Summary,
		Risk:    analysis.Risk,
		Clauses: analysis.Clauses,
	})
	if err != nil {
		return unavailable(name, err)
	}

	explanation := resp.Explanation
	explanation.Enabled = true
	if explanation.Provider == "" {
		explanation.Provider = name
	}
	return &explanation
}

func unavailable(provider string, err error) *model.AIExplanation {
	return &model.AIExplanation{
		Enabled:  true,
		Provider: provider,
		Error:    UnavailableMessage + ": " + err.Error(),
	}
}
