package interview

import (
	"fmt"
	"math"
	"strings"
)

// Status is the assessment state of a single qualification.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPass    Status = "Pass"
	StatusFail    Status = "Fail"
	StatusPartial Status = "Partial"
)

const (
	DecisionQualified    = "Qualified"
	DecisionNotQualified = "Not Qualified"
)

// Preferred answers are banded by detail score: >= passBand is a Pass,
// >= partialBand is a Partial, anything below is a Fail.
const (
	passBand    = 0.7
	partialBand = 0.3
)

const (
	maxMandatoryEvidence = 200
	maxPreferredEvidence = 300
)

// MandatoryResult is the scoreboard entry for one mandatory qualification.
type MandatoryResult struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Weight   int    `json:"weight"`
	Status   Status `json:"status"`
	Evidence string `json:"evidence,omitempty"`
}

// PreferredResult is the scoreboard entry for one preferred qualification.
// DetailScore is 0.0 (no relevant experience) to 1.0 (excellent, detailed).
type PreferredResult struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Weight      float64 `json:"weight"`
	Status      Status  `json:"status"`
	DetailScore float64 `json:"detail_score"`
	Evidence    string  `json:"evidence,omitempty"`
}

// Points is the weighted contribution of this preferred qualification,
// rounded to one decimal.
func (r *PreferredResult) Points() float64 {
	return roundTo(r.Weight*r.DetailScore, 1)
}

// Tracker is the mutable scoreboard for one interview session. Results keep
// the registry's list order and are never deleted.
type Tracker struct {
	mandatory []*MandatoryResult
	preferred []*PreferredResult

	mandatoryPoints int
	preferredPoints int
	threshold       int
}

// NewTracker builds a scoreboard with every qualification in Pending state.
func NewTracker(reg *Registry) *Tracker {
	t := &Tracker{
		mandatory:       make([]*MandatoryResult, 0, len(reg.Mandatory)),
		preferred:       make([]*PreferredResult, 0, len(reg.Preferred)),
		mandatoryPoints: reg.MandatoryPoints,
		preferredPoints: reg.PreferredPoints,
		threshold:       reg.Threshold,
	}

	for _, spec := range reg.Mandatory {
		t.mandatory = append(t.mandatory, &MandatoryResult{
			ID:     spec.ID,
			Label:  spec.Label,
			Weight: spec.Weight,
			Status: StatusPending,
		})
	}

	for _, spec := range reg.Preferred {
		t.preferred = append(t.preferred, &PreferredResult{
			ID:     spec.ID,
			Label:  spec.Label,
			Weight: spec.Weight,
			Status: StatusPending,
		})
	}

	return t
}

// UpdateMandatory records a pass/fail result with truncated evidence. Unknown
// IDs are ignored.
func (t *Tracker) UpdateMandatory(id string, passed bool, evidence string) {
	result := t.findMandatory(id)
	if result == nil {
		return
	}

	result.Status = StatusFail
	if passed {
		result.Status = StatusPass
	}
	result.Evidence = truncateEvidence(evidence, maxMandatoryEvidence)
}

// UpdatePreferred records a graded result. The detail score is clamped to
// [0,1] and mapped onto Pass/Partial/Fail bands.
func (t *Tracker) UpdatePreferred(id string, detailScore float64, evidence string) {
	result := t.findPreferred(id)
	if result == nil {
		return
	}

	detailScore = clamp01(detailScore)
	result.DetailScore = detailScore
	switch {
	case detailScore >= passBand:
		result.Status = StatusPass
	case detailScore >= partialBand:
		result.Status = StatusPartial
	default:
		result.Status = StatusFail
	}
	result.Evidence = truncateEvidence(evidence, maxPreferredEvidence)
}

// MandatoryScore sums the weights of passed mandatory qualifications.
func (t *Tracker) MandatoryScore() int {
	score := 0
	for _, result := range t.mandatory {
		if result.Status == StatusPass {
			score += result.Weight
		}
	}
	return score
}

// PreferredScore sums weight-scaled detail scores, rounded to one decimal.
func (t *Tracker) PreferredScore() float64 {
	score := 0.0
	for _, result := range t.preferred {
		score += result.Weight * result.DetailScore
	}
	return roundTo(score, 1)
}

// TotalScore is the rounded sum of both score components.
func (t *Tracker) TotalScore() int {
	return int(math.Round(float64(t.MandatoryScore()) + t.PreferredScore()))
}

// Disqualified reports whether any mandatory qualification has failed. A
// single failure is terminal regardless of preferred performance.
func (t *Tracker) Disqualified() bool {
	for _, result := range t.mandatory {
		if result.Status == StatusFail {
			return true
		}
	}
	return false
}

// AllMandatoryAssessed reports whether no mandatory qualification is pending.
func (t *Tracker) AllMandatoryAssessed() bool {
	for _, result := range t.mandatory {
		if result.Status == StatusPending {
			return false
		}
	}
	return true
}

// AllPreferredAssessed reports whether no preferred qualification is pending.
func (t *Tracker) AllPreferredAssessed() bool {
	for _, result := range t.preferred {
		if result.Status == StatusPending {
			return false
		}
	}
	return true
}

// Decision returns Qualified only when no mandatory qualification failed and
// the total score reaches the threshold.
func (t *Tracker) Decision() string {
	if t.Disqualified() {
		return DecisionNotQualified
	}
	if t.TotalScore() >= t.threshold {
		return DecisionQualified
	}
	return DecisionNotQualified
}

// Breakdown is a read-only snapshot of the full scoreboard.
type Breakdown struct {
	Mandatory      []MandatoryResult `json:"mandatory"`
	Preferred      []PreferredResult `json:"preferred"`
	MandatoryScore int               `json:"mandatory_score"`
	PreferredScore float64           `json:"preferred_score"`
	TotalScore     int               `json:"total_score"`
	Decision       string            `json:"decision"`
}

// GenerateBreakdown snapshots the scoreboard without mutating it.
func (t *Tracker) GenerateBreakdown() Breakdown {
	b := Breakdown{
		Mandatory:      make([]MandatoryResult, 0, len(t.mandatory)),
		Preferred:      make([]PreferredResult, 0, len(t.preferred)),
		MandatoryScore: t.MandatoryScore(),
		PreferredScore: t.PreferredScore(),
		TotalScore:     t.TotalScore(),
		Decision:       t.Decision(),
	}

	for _, result := range t.mandatory {
		b.Mandatory = append(b.Mandatory, *result)
	}
	for _, result := range t.preferred {
		b.Preferred = append(b.Preferred, *result)
	}

	return b
}

// RenderBreakdown formats the scoreboard as the markdown block embedded in the
// final decision prompt.
func (t *Tracker) RenderBreakdown() string {
	var sb strings.Builder

	sb.WriteString("**Mandatory Qualifications:**\n")
	for _, result := range t.mandatory {
		icon := "❌"
		if result.Status == StatusPass {
			icon = "✅"
		}
		fmt.Fprintf(&sb, "- %s %s: %s\n", icon, result.Label, result.Status)
	}
	fmt.Fprintf(&sb, "\nMandatory Score: %d/%d\n\n", t.MandatoryScore(), t.mandatoryPoints)

	sb.WriteString("**Preferred Qualifications:**\n")
	for _, result := range t.preferred {
		fmt.Fprintf(&sb, "- %s %s: %s (%.1f pts)\n", preferredIcon(result.Status), result.Label, result.Status, result.Points())
	}
	fmt.Fprintf(&sb, "\nPreferred Score: %.1f/%d\n", t.PreferredScore(), t.preferredPoints)

	return sb.String()
}

// GenerateSummary renders the recruiter-facing assessment block.
func (t *Tracker) GenerateSummary() string {
	var sb strings.Builder
	frame := strings.Repeat("=", 50)

	sb.WriteString(frame + "\n")
	sb.WriteString("  CANDIDATE ASSESSMENT SUMMARY\n")
	sb.WriteString(frame + "\n\n")

	sb.WriteString("MANDATORY QUALIFICATIONS:\n")
	for _, result := range t.mandatory {
		icon := "❌"
		if result.Status == StatusPass {
			icon = "✅"
		}
		fmt.Fprintf(&sb, "  %s %s: %s\n", icon, result.Label, result.Status)
		if result.Evidence != "" {
			fmt.Fprintf(&sb, "     → %s\n", result.Evidence)
		}
	}
	fmt.Fprintf(&sb, "  Mandatory Score: %d/%d\n\n", t.MandatoryScore(), t.mandatoryPoints)

	sb.WriteString("PREFERRED QUALIFICATIONS:\n")
	for _, result := range t.preferred {
		fmt.Fprintf(&sb, "  %s %s: %s (%.1f pts)\n", preferredIcon(result.Status), result.Label, result.Status, result.Points())
		if result.Evidence != "" {
			fmt.Fprintf(&sb, "     → %s\n", result.Evidence)
		}
	}
	fmt.Fprintf(&sb, "  Preferred Score: %.1f/%d\n\n", t.PreferredScore(), t.preferredPoints)

	fmt.Fprintf(&sb, "TOTAL SCORE: %d/%d\n", t.TotalScore(), t.mandatoryPoints+t.preferredPoints)
	fmt.Fprintf(&sb, "DECISION: %s\n", t.Decision())
	sb.WriteString(frame)

	return sb.String()
}

func (t *Tracker) findMandatory(id string) *MandatoryResult {
	for _, result := range t.mandatory {
		if result.ID == id {
			return result
		}
	}
	return nil
}

func (t *Tracker) findPreferred(id string) *PreferredResult {
	for _, result := range t.preferred {
		if result.ID == id {
			return result
		}
	}
	return nil
}

func preferredIcon(status Status) string {
	switch status {
	case StatusPass:
		return "✅"
	case StatusPartial:
		return "🟡"
	case StatusFail:
		return "❌"
	default:
		return "⬜"
	}
}

func truncateEvidence(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
