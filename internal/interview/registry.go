// Package interview implements the qualification interview core: the phase
// state machine, the qualification scoreboard and the answer evaluation
// pipeline.
package interview

import (
	"errors"
	"fmt"
	"math"
)

// MandatorySpec describes one pass/fail eligibility gate. A single failed
// mandatory qualification disqualifies the candidate.
type MandatorySpec struct {
	ID           string   `mapstructure:"id"`
	Label        string   `mapstructure:"label"`
	Question     string   `mapstructure:"question"`
	QuickOptions []string `mapstructure:"quick-options"`
	PassKeywords []string `mapstructure:"pass-keywords"`
	FailKeywords []string `mapstructure:"fail-keywords"`
	Weight       int      `mapstructure:"weight"`
}

// PreferredSpec describes one graded qualification scored 0.0-1.0. Never
// disqualifying.
type PreferredSpec struct {
	ID              string   `mapstructure:"id"`
	Label           string   `mapstructure:"label"`
	Question        string   `mapstructure:"question"`
	FollowUpPrompts []string `mapstructure:"follow-up-prompts"`
	Weight          float64  `mapstructure:"weight"`
}

// Job carries the role details surfaced in prompts and in the job Q&A phase.
type Job struct {
	Company     string `mapstructure:"company"`
	Role        string `mapstructure:"role"`
	Location    string `mapstructure:"location"`
	Pay         string `mapstructure:"pay"`
	Schedule    string `mapstructure:"schedule"`
	Description string `mapstructure:"description"`
}

// Registry is the static, ordered interview configuration. Order of the
// qualification lists is significant: the interview proceeds in list order.
type Registry struct {
	Job       Job             `mapstructure:"job"`
	Mandatory []MandatorySpec `mapstructure:"mandatory"`
	Preferred []PreferredSpec `mapstructure:"preferred"`

	// TopicKeywords is the relevance vocabulary used by the off-topic guardrail.
	TopicKeywords []string `mapstructure:"topic-keywords"`

	MandatoryPoints int `mapstructure:"mandatory-points"`
	PreferredPoints int `mapstructure:"preferred-points"`
	// Threshold is the minimum total score for a Qualified decision.
	Threshold int `mapstructure:"threshold"`
}

// preferredWeightSlack absorbs rounding in preferred weights (13.33 + 13.33 +
// 13.34 sums to 40 only up to a tolerance).
const preferredWeightSlack = 0.5

// Validate checks the registry invariants: non-empty ordered lists, unique
// IDs, and weights summing to the configured point totals.
func (r *Registry) Validate() error {
	if r == nil {
		return errors.New("registry is required")
	}

	if len(r.Mandatory) == 0 {
		return errors.New("at least one mandatory qualification is required")
	}
	if len(r.Preferred) == 0 {
		return errors.New("at least one preferred qualification is required")
	}

	seen := make(map[string]struct{}, len(r.Mandatory)+len(r.Preferred))

	mandatorySum := 0
	for i, spec := range r.Mandatory {
		if spec.ID == "" {
			return fmt.Errorf("mandatory qualification %d has no id", i)
		}
		if _, ok := seen[spec.ID]; ok {
			return fmt.Errorf("duplicate qualification id %q", spec.ID)
		}
		seen[spec.ID] = struct{}{}

		if spec.Question == "" {
			return fmt.Errorf("mandatory qualification %q has no question", spec.ID)
		}
		mandatorySum += spec.Weight
	}

	preferredSum := 0.0
	for i, spec := range r.Preferred {
		if spec.ID == "" {
			return fmt.Errorf("preferred qualification %d has no id", i)
		}
		if _, ok := seen[spec.ID]; ok {
			return fmt.Errorf("duplicate qualification id %q", spec.ID)
		}
		seen[spec.ID] = struct{}{}

		if spec.Question == "" {
			return fmt.Errorf("preferred qualification %q has no question", spec.ID)
		}
		preferredSum += spec.Weight
	}

	if mandatorySum != r.MandatoryPoints {
		return fmt.Errorf("mandatory weights sum to %d, expected %d", mandatorySum, r.MandatoryPoints)
	}

	if math.Abs(preferredSum-float64(r.PreferredPoints)) > preferredWeightSlack {
		return fmt.Errorf("preferred weights sum to %.2f, expected %d", preferredSum, r.PreferredPoints)
	}

	if r.Threshold <= 0 || r.Threshold > r.MandatoryPoints+r.PreferredPoints {
		return fmt.Errorf("qualification threshold %d is out of range", r.Threshold)
	}

	return nil
}
