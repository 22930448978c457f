package commitmsg

import (
	"context"
	"fmt"

	"github.com/gorewood/commitmsg/internal/output"
)

// NoQuotaWarning is shown instead of usage figures when no quota is set.
const NoQuotaWarning = "no token limit configured; set COMMITMSG_TOKEN_LIMIT"

// Usage is a token measurement against an optional quota.
// Remaining and Percentage are only meaningful when Configured is true.
type Usage struct {
	Used       int
	Limit      int
	Remaining  int
	Percentage float64
	Configured bool
}

// PercentageString formats Percentage with two decimals, e.g. "25.00%".
func (u Usage) PercentageString() string {
	return fmt.Sprintf("%.2f%%", u.Percentage)
}

// Reporter measures the token cost of a representative prompt.
type Reporter struct {
	counter TokenCounter
	sample  string
	limit   int
}

// NewReporter returns a Reporter measuring sample against limit.
// A limit of zero or less means no quota is configured.
func NewReporter(counter TokenCounter, sample string, limit int) *Reporter {
	return &Reporter{counter: counter, sample: sample, limit: limit}
}

// Report counts the sample's tokens. With a quota it also computes the
// remaining budget and the share used; without one only Used is set.
func (r *Reporter) Report(ctx context.Context) (Usage, error) {
	used, err := r.counter.CountTokens(ctx, r.sample)
	if err != nil {
		return Usage{}, output.NewSystemErrorWithCause("failed to count tokens: "+err.Error(), err)
	}

	usage := Usage{Used: used}
	if r.limit <= 0 {
		return usage, nil
	}

	usage.Limit = r.limit
	usage.Remaining = r.limit - used
	usage.Percentage = float64(used) / float64(r.limit) * 100
	usage.Configured = true
	return usage, nil
}
