package interview

import (
	"strconv"
	"strings"

	_ "embed"
)

//go:embed prompts/system.md
var systemTemplate string

//go:embed prompts/greeting.md
var greetingTemplate string

//go:embed prompts/mandatory.md
var mandatoryTemplate string

//go:embed prompts/preferred.md
var preferredTemplate string

//go:embed prompts/followup.md
var followupTemplate string

//go:embed prompts/decision.md
var decisionTemplate string

//go:embed prompts/jobqa.md
var jobQATemplate string

//go:embed prompts/judge_mandatory.md
var judgeMandatoryTemplate string

//go:embed prompts/judge_preferred.md
var judgePreferredTemplate string

const guardrailRedirect = "I appreciate your curiosity! However, I'm here specifically to help assess your " +
	"fit for this role. Let's stay focused on the interview so I can give you the " +
	"best assessment. "

func fill(template string, values map[string]string) string {
	for key, value := range values {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(template)
}

func systemPrompt(job Job) string {
	return fill(systemTemplate, map[string]string{
		"COMPANY":  job.Company,
		"ROLE":     job.Role,
		"LOCATION": job.Location,
		"PAY":      job.Pay,
		"SCHEDULE": job.Schedule,
	})
}

func greetingPrompt(job Job, firstQuestion string) string {
	return fill(greetingTemplate, map[string]string{
		"COMPANY":        job.Company,
		"ROLE":           job.Role,
		"LOCATION":       job.Location,
		"PAY":            job.Pay,
		"SCHEDULE":       job.Schedule,
		"FIRST_QUESTION": firstQuestion,
	})
}

func mandatoryPrompt(qualLabel, answer, evaluation, next string) string {
	return fill(mandatoryTemplate, map[string]string{
		"CURRENT_QUAL":           qualLabel,
		"ANSWER":                 answer,
		"EVALUATION_INSTRUCTION": evaluation,
		"NEXT_INSTRUCTION":       next,
	})
}

func preferredPrompt(spec *PreferredSpec) string {
	return fill(preferredTemplate, map[string]string{
		"QUAL_LABEL":    spec.Label,
		"QUAL_QUESTION": spec.Question,
	})
}

func followupPrompt(spec *PreferredSpec, answer string) string {
	suggestions := make([]string, 0, len(spec.FollowUpPrompts))
	for _, s := range spec.FollowUpPrompts {
		suggestions = append(suggestions, "- "+s)
	}

	return fill(followupTemplate, map[string]string{
		"QUAL_LABEL":  spec.Label,
		"ANSWER":      answer,
		"SUGGESTIONS": strings.Join(suggestions, "\n"),
	})
}

func decisionPrompt(breakdown string, score int, decision string) string {
	return fill(decisionTemplate, map[string]string{
		"BREAKDOWN": breakdown,
		"SCORE":     strconv.Itoa(score),
		"DECISION":  decision,
	})
}

func jobQAPrompt(jobDescription, question, assessment string) string {
	return fill(jobQATemplate, map[string]string{
		"JOB_DESCRIPTION": jobDescription,
		"QUESTION":        question,
		"ASSESSMENT":      assessment,
	})
}

func judgeMandatoryPrompt(spec *MandatorySpec, answer string) string {
	return fill(judgeMandatoryTemplate, map[string]string{
		"QUESTION":   spec.Question,
		"ANSWER":     answer,
		"QUAL_LABEL": spec.Label,
	})
}

func judgePreferredPrompt(spec *PreferredSpec, answer string) string {
	return fill(judgePreferredTemplate, map[string]string{
		"QUAL_LABEL": spec.Label,
		"QUESTION":   spec.Question,
		"ANSWER":     answer,
	})
}
