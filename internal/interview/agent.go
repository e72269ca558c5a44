package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tsavowest/ai-interviewer/internal/ai"
	"github.com/tsavowest/ai-interviewer/internal/guardrails"
	"github.com/tsavowest/ai-interviewer/internal/logger"
)

// Phase identifies the active interview stage. Transitions are strictly
// forward; ForceDecision and JobQA exit are the only shortcuts.
type Phase string

const (
	PhaseGreeting  Phase = "GREETING"
	PhaseMandatory Phase = "MANDATORY"
	PhasePreferred Phase = "PREFERRED"
	PhaseFollowup  Phase = "FOLLOWUP"
	PhaseDecision  Phase = "DECISION"
	PhaseJobQA     Phase = "JOB_QA"
	PhaseEnded     Phase = "ENDED"
)

const (
	// DefaultMaxFollowups is the per-qualification follow-up budget.
	DefaultMaxFollowups = 1

	// historyWindow bounds how many recent turns are replayed to the model.
	historyWindow = 8

	// answerSeparator joins the initial answer with follow-up answers before
	// scoring a preferred qualification.
	answerSeparator = " | "

	// sectionSeparator splits a transition message from the decision output
	// inside one reply.
	sectionSeparator = "\n\n---\n\n"

	endedReply    = "The interview has concluded. Thank you for your time! 🙏"
	farewellReply = "Thank you for your time. The interview process is now complete. Have a great day! 👋"
)

// exitKeywords end the job Q&A phase when matched in a short message.
var exitKeywords = []string{"no", "none", "bye", "goodbye", "exit", "done", "thank you", "thanks"}

const exitMaxWords = 5

type phaseHandler func(ctx context.Context, input string) (Phase, string)

// Agent orchestrates one interview session: it routes candidate messages
// through guardrails, evaluation, scoreboard updates and reply generation.
// Not safe for concurrent use; callers serialize turns per session.
type Agent struct {
	generator ai.Generator
	evaluator *Evaluator
	registry  *Registry
	tracker   *Tracker
	filter    *guardrails.Filter
	logger    *zap.Logger

	system       string
	phase        Phase
	maxFollowups int

	mandatoryIndex int
	preferredIndex int
	followupCount  int
	currentAnswers []string

	history  []ai.Message
	handlers map[Phase]phaseHandler
}

// New creates an interview session in the Greeting phase. The registry is
// validated up front; an invalid configuration refuses to start.
func New(gateway ai.Gateway, reg *Registry, policy FallbackPolicy, maxFollowups int, log *zap.Logger) (*Agent, error) {
	if gateway == nil {
		return nil, errors.New("completion gateway is required")
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("validate qualification registry: %w", err)
	}

	if maxFollowups < 0 {
		maxFollowups = DefaultMaxFollowups
	}

	if log == nil {
		log = zap.NewNop()
	}

	a := &Agent{
		generator:    gateway,
		evaluator:    NewEvaluator(gateway, policy, log),
		registry:     reg,
		tracker:      NewTracker(reg),
		filter:       guardrails.NewFilter(reg.TopicKeywords),
		logger:       log,
		system:       systemPrompt(reg.Job),
		phase:        PhaseGreeting,
		maxFollowups: maxFollowups,
	}

	a.handlers = map[Phase]phaseHandler{
		PhaseMandatory: a.handleMandatory,
		PhasePreferred: a.handlePreferred,
		PhaseFollowup:  a.handleFollowup,
		PhaseDecision:  a.handleDecision,
		PhaseJobQA:     a.handleJobQA,
	}

	return a, nil
}

// Start generates the greeting plus the first mandatory question and moves
// the session into the Mandatory phase.
func (a *Agent) Start(ctx context.Context) string {
	a.logger.Info("starting interview", zap.String(logger.FieldPhase, string(a.phase)))

	reply := a.callLLM(ctx, greetingPrompt(a.registry.Job, a.registry.Mandatory[0].Question))
	a.appendAssistant(reply)
	a.phase = PhaseMandatory

	return reply
}

// Submit processes one candidate message to completion and returns the
// assistant reply. Every turn yields text; internal failures degrade to
// apologetic replies instead of errors.
func (a *Agent) Submit(ctx context.Context, input string) string {
	a.logger.Info("processing candidate message",
		zap.String(logger.FieldPhase, string(a.phase)),
		zap.String("preview", logger.TruncateForLog(input, 50)),
	)

	a.history = append(a.history, ai.Message{Role: ai.RoleCandidate, Content: input})

	if a.phase == PhaseEnded {
		a.appendAssistant(endedReply)
		return endedReply
	}

	if a.filter.IsPromptInjection(input) {
		a.logger.Warn("prompt injection detected")
		return a.redirect()
	}

	if !a.filter.IsOnTopic(input) {
		a.logger.Info("message flagged as off-topic")
		return a.redirect()
	}

	handler, ok := a.handlers[a.phase]
	if !ok {
		// Greeting phase without Start: treat the message as a mandatory answer.
		handler = a.handleMandatory
	}

	next, reply := handler(ctx, input)
	a.phase = next
	a.appendAssistant(reply)

	return reply
}

// ForceDecision jumps to the decision output from whatever has been assessed
// so far and leaves the session in the job Q&A phase.
func (a *Agent) ForceDecision(ctx context.Context) string {
	a.logger.Info("force decision triggered", zap.String(logger.FieldPhase, string(a.phase)))

	reply := a.decisionOutput(ctx)
	a.phase = PhaseJobQA
	a.appendAssistant(reply)

	return reply
}

// Progress is a read-only snapshot of interview completion state.
type Progress struct {
	Phase          Phase `json:"phase"`
	Answered       int   `json:"answered"`
	Total          int   `json:"total"`
	MandatoryDone  int   `json:"mandatory_done"`
	MandatoryTotal int   `json:"mandatory_total"`
	PreferredDone  int   `json:"preferred_done"`
	PreferredTotal int   `json:"preferred_total"`
	Disqualified   bool  `json:"is_disqualified"`
	Score          int   `json:"score"`
}

// GetProgress reports the current snapshot.
func (a *Agent) GetProgress() Progress {
	mandatoryTotal := len(a.registry.Mandatory)
	preferredTotal := len(a.registry.Preferred)

	mandatoryDone := min(a.mandatoryIndex, mandatoryTotal)
	preferredDone := min(a.preferredIndex, preferredTotal)

	answered := mandatoryDone + preferredDone
	switch a.phase {
	case PhaseDecision, PhaseJobQA, PhaseEnded:
		answered = mandatoryTotal + preferredTotal
	}

	return Progress{
		Phase:          a.phase,
		Answered:       answered,
		Total:          mandatoryTotal + preferredTotal,
		MandatoryDone:  mandatoryDone,
		MandatoryTotal: mandatoryTotal,
		PreferredDone:  preferredDone,
		PreferredTotal: preferredTotal,
		Disqualified:   a.tracker.Disqualified(),
		Score:          a.tracker.TotalScore(),
	}
}

// Phase returns the active phase.
func (a *Agent) Phase() Phase {
	return a.phase
}

// Summary returns the recruiter-facing assessment block.
func (a *Agent) Summary() string {
	return a.tracker.GenerateSummary()
}

// Breakdown returns the structured scoreboard snapshot.
func (a *Agent) Breakdown() Breakdown {
	return a.tracker.GenerateBreakdown()
}

// History returns a copy of the full conversation record.
func (a *Agent) History() []ai.Message {
	out := make([]ai.Message, len(a.history))
	copy(out, a.history)
	return out
}

// QuickOptions returns the quick-answer options for the pending mandatory
// question, or nil when free text is expected.
func (a *Agent) QuickOptions() []string {
	if a.phase == PhaseMandatory && a.mandatoryIndex < len(a.registry.Mandatory) {
		return a.registry.Mandatory[a.mandatoryIndex].QuickOptions
	}
	return nil
}

// ── Phase handlers ──────────────────────────────────────────────────────────

func (a *Agent) handleMandatory(ctx context.Context, input string) (Phase, string) {
	if a.mandatoryIndex >= len(a.registry.Mandatory) {
		a.logger.Info("all mandatory qualifications complete")
		return a.askPreferred(ctx)
	}

	spec := &a.registry.Mandatory[a.mandatoryIndex]
	passed := a.evaluator.EvaluateMandatory(ctx, spec, input)
	a.tracker.UpdateMandatory(spec.ID, passed, input)
	a.mandatoryIndex++

	if !passed {
		a.logger.Info("candidate failed mandatory requirement", zap.String("qualification", spec.ID))

		evaluation := fmt.Sprintf(
			"The candidate FAILED this mandatory requirement (%s). "+
				"They are disqualified. Acknowledge their answer politely, briefly explain "+
				"this is a mandatory requirement, and let them know you'll now provide the "+
				"final assessment.",
			spec.Label,
		)
		disqualifyMsg := a.callLLM(ctx, mandatoryPrompt(spec.Label, input, evaluation, "Transition to the final decision."))
		decisionMsg := a.decisionOutput(ctx)

		return PhaseEnded, disqualifyMsg + sectionSeparator + decisionMsg
	}

	a.logger.Info("candidate passed mandatory requirement", zap.String("qualification", spec.ID))

	if a.mandatoryIndex >= len(a.registry.Mandatory) {
		first := a.registry.Preferred[0]
		evaluation := "The candidate PASSED this requirement. Acknowledge positively."
		next := fmt.Sprintf(
			"All mandatory questions are complete! Transition smoothly by saying "+
				"something like 'Great, you meet all the essential requirements! Now I'd "+
				"like to learn more about your experience and skills.' Then ask about: "+
				"%s.\nSuggested question: %s",
			first.Label, first.Question,
		)
		return PhasePreferred, a.callLLM(ctx, mandatoryPrompt(spec.Label, input, evaluation, next))
	}

	nextSpec := a.registry.Mandatory[a.mandatoryIndex]
	evaluation := "The candidate PASSED this requirement. Acknowledge briefly and positively."
	next := fmt.Sprintf("Now ask the next mandatory question: %s", nextSpec.Question)

	return PhaseMandatory, a.callLLM(ctx, mandatoryPrompt(spec.Label, input, evaluation, next))
}

// askPreferred poses the pending preferred question without consuming input,
// used when the mandatory list was exhausted out of band.
func (a *Agent) askPreferred(ctx context.Context) (Phase, string) {
	if a.preferredIndex >= len(a.registry.Preferred) {
		return a.handleDecision(ctx, "")
	}

	spec := &a.registry.Preferred[a.preferredIndex]
	return PhasePreferred, a.callLLM(ctx, preferredPrompt(spec))
}

func (a *Agent) handlePreferred(ctx context.Context, input string) (Phase, string) {
	if a.preferredIndex >= len(a.registry.Preferred) {
		return a.handleDecision(ctx, "")
	}

	spec := &a.registry.Preferred[a.preferredIndex]
	a.currentAnswers = append(a.currentAnswers, input)

	if a.followupCount < a.maxFollowups {
		a.followupCount++
		return PhaseFollowup, a.callLLM(ctx, followupPrompt(spec, input))
	}

	return a.scorePreferredAndAdvance(ctx, spec)
}

func (a *Agent) handleFollowup(ctx context.Context, input string) (Phase, string) {
	spec := &a.registry.Preferred[a.preferredIndex]
	a.currentAnswers = append(a.currentAnswers, input)

	if a.followupCount < a.maxFollowups {
		a.followupCount++
		return PhaseFollowup, a.callLLM(ctx, followupPrompt(spec, input))
	}

	return a.scorePreferredAndAdvance(ctx, spec)
}

// scorePreferredAndAdvance combines all accumulated answers for the current
// preferred qualification, scores them once, and advances the cursor.
func (a *Agent) scorePreferredAndAdvance(ctx context.Context, spec *PreferredSpec) (Phase, string) {
	combined := strings.Join(a.currentAnswers, answerSeparator)
	detailScore := a.evaluator.ScorePreferred(ctx, spec, combined)

	a.tracker.UpdatePreferred(spec.ID, detailScore, combined)
	a.logger.Info("scored preferred qualification",
		zap.String("qualification", spec.ID),
		zap.Float64("detail_score", detailScore),
	)

	a.preferredIndex++
	a.followupCount = 0
	a.currentAnswers = nil

	if a.preferredIndex >= len(a.registry.Preferred) {
		transition := a.callLLM(ctx,
			"The candidate just answered the last preferred qualification question. "+
				"Acknowledge their answer briefly and positively, then say you've completed "+
				"the interview and will now provide the assessment.")
		decision := a.decisionOutput(ctx)

		return PhaseJobQA, transition + sectionSeparator + decision
	}

	next := &a.registry.Preferred[a.preferredIndex]
	instruction := fmt.Sprintf(
		"Acknowledge the candidate's previous answer briefly and positively, "+
			"then transition to ask about: %s.\nSuggested question: %s",
		next.Label, next.Question,
	)

	return PhasePreferred, a.callLLM(ctx, instruction)
}

func (a *Agent) handleDecision(ctx context.Context, _ string) (Phase, string) {
	return PhaseJobQA, a.decisionOutput(ctx)
}

func (a *Agent) handleJobQA(ctx context.Context, input string) (Phase, string) {
	if isExitIntent(input) {
		return PhaseEnded, farewellReply
	}

	assessment := fmt.Sprintf("Score: %d/%d, Decision: %s",
		a.tracker.TotalScore(),
		a.registry.MandatoryPoints+a.registry.PreferredPoints,
		a.tracker.Decision(),
	)

	return PhaseJobQA, a.callLLM(ctx, jobQAPrompt(a.registry.Job.Description, input, assessment))
}

// ── Helpers ─────────────────────────────────────────────────────────────────

// callLLM sends the phase instruction with the bounded history window and
// converts gateway failure into an apologetic reply so the session survives.
func (a *Agent) callLLM(ctx context.Context, instruction string) string {
	window := a.history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	reply, err := a.generator.Generate(ctx, ai.GenerateRequest{
		SystemPrompt: a.system,
		History:      window,
		Instruction:  instruction,
	})
	if err != nil {
		a.logger.Error("reply generation failed", zap.Error(err))
		return fmt.Sprintf(
			"I apologize, I'm experiencing a technical issue on my end. (Error: %s)",
			logger.TruncateForLog(err.Error(), 100),
		)
	}

	return strings.TrimSpace(reply)
}

// redirect answers a guarded message with the fixed redirect line plus a
// reminder of the pending question. No phase state is mutated.
func (a *Agent) redirect() string {
	reply := guardrailRedirect + a.questionReminder()
	a.appendAssistant(reply)
	return reply
}

func (a *Agent) questionReminder() string {
	switch {
	case a.phase == PhaseMandatory && a.mandatoryIndex < len(a.registry.Mandatory):
		return fmt.Sprintf("\n\nLet me repeat the question: **%s**", a.registry.Mandatory[a.mandatoryIndex].Question)
	case a.phase == PhasePreferred || a.phase == PhaseFollowup:
		return "\n\nCould you please answer the previous question?"
	}
	return ""
}

func (a *Agent) decisionOutput(ctx context.Context) string {
	prompt := decisionPrompt(a.tracker.RenderBreakdown(), a.tracker.TotalScore(), a.tracker.Decision())
	return a.callLLM(ctx, prompt)
}

func (a *Agent) appendAssistant(reply string) {
	a.history = append(a.history, ai.Message{Role: ai.RoleAssistant, Content: reply})
}

func isExitIntent(input string) bool {
	lowered := strings.ToLower(input)
	if len(strings.Fields(input)) >= exitMaxWords {
		return false
	}

	for _, kw := range exitKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
