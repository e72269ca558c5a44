package interview

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tsavowest/ai-interviewer/internal/ai"
	"github.com/tsavowest/ai-interviewer/internal/logger"
)

// FallbackPolicy controls how evaluation degrades when the completion service
// is unreachable or returns an unparsable judgment.
type FallbackPolicy struct {
	// MandatoryPass makes mandatory evaluation fail open: a gateway error
	// counts as a Pass so transient API failures never disqualify a candidate.
	MandatoryPass bool `mapstructure:"mandatory-pass"`
	// PreferredScore is the neutral detail score assumed on gateway or parse
	// failure.
	PreferredScore float64 `mapstructure:"preferred-score"`
}

// DefaultFallbackPolicy preserves the fail-open behavior: Pass for mandatory
// judgments, 0.5 for preferred scoring.
func DefaultFallbackPolicy() FallbackPolicy {
	return FallbackPolicy{
		MandatoryPass:  true,
		PreferredScore: 0.5,
	}
}

// Evaluator converts free-text answers into pass/fail or graded outcomes,
// using local keyword rules first and an LLM judgment call as fallback.
type Evaluator struct {
	judge  ai.Judge
	policy FallbackPolicy
	logger *zap.Logger
}

func NewEvaluator(judge ai.Judge, policy FallbackPolicy, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Evaluator{
		judge:  judge,
		policy: policy,
		logger: log,
	}
}

// EvaluateMandatory decides whether the answer satisfies a mandatory
// qualification. Fail keywords take precedence over pass keywords; when
// neither matches the answer is delegated to a strict binary judgment call.
func (e *Evaluator) EvaluateMandatory(ctx context.Context, spec *MandatorySpec, answer string) bool {
	lowered := strings.ToLower(strings.TrimSpace(answer))

	for _, kw := range spec.FailKeywords {
		if strings.Contains(lowered, kw) {
			return false
		}
	}
	for _, kw := range spec.PassKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}

	response, err := e.judge.Judge(ctx, judgeMandatoryPrompt(spec, answer))
	if err != nil {
		e.logger.Error("mandatory judgment failed, applying fallback",
			zap.String("qualification", spec.ID),
			zap.Bool("fallback_pass", e.policy.MandatoryPass),
			zap.Error(err),
		)
		return e.policy.MandatoryPass
	}

	return strings.Contains(strings.ToUpper(response), "PASS")
}

// ScorePreferred rates the combined answer text for a preferred qualification
// on the 0.0-1.0 rubric. Gateway or parse failures yield the policy's neutral
// score.
func (e *Evaluator) ScorePreferred(ctx context.Context, spec *PreferredSpec, answer string) float64 {
	response, err := e.judge.Judge(ctx, judgePreferredPrompt(spec, answer))
	if err != nil {
		e.logger.Error("preferred scoring failed, applying fallback",
			zap.String("qualification", spec.ID),
			zap.Float64("fallback_score", e.policy.PreferredScore),
			zap.Error(err),
		)
		return e.policy.PreferredScore
	}

	score, err := parseScore(response)
	if err != nil {
		e.logger.Warn("unparsable preferred score, applying fallback",
			zap.String("qualification", spec.ID),
			zap.String("response", logger.TruncateForLog(response, 50)),
			zap.Float64("fallback_score", e.policy.PreferredScore),
		)
		return e.policy.PreferredScore
	}

	return clamp01(score)
}

func parseScore(response string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(response))
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}

	// Models occasionally wrap the number in punctuation or trailing text.
	token := strings.TrimRight(strings.TrimLeft(fields[0], "`*"), "`*.,:;")
	return strconv.ParseFloat(token, 64)
}
