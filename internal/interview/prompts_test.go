package interview

import (
	"strings"
	"testing"
)

func TestFillReplacesAllPlaceholders(t *testing.T) {
	t.Parallel()

	got := fill("  Hello {{NAME}}, welcome to {{NAME}} at {{PLACE}}.  ", map[string]string{
		"NAME":  "Alex",
		"PLACE": "Tampa",
	})

	want := "Hello Alex, welcome to Alex at Tampa."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPromptTemplatesResolve(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	tests := []struct {
		name     string
		prompt   string
		contains []string
	}{
		{
			name:     "system",
			prompt:   systemPrompt(reg.Job),
			contains: []string{"Tsavo West Inc", reg.Job.Role, reg.Job.Pay},
		},
		{
			name:     "greeting",
			prompt:   greetingPrompt(reg.Job, reg.Mandatory[0].Question),
			contains: []string{reg.Mandatory[0].Question, "Tsavo West Inc"},
		},
		{
			name:     "mandatory",
			prompt:   mandatoryPrompt("Age Requirement (21+)", "Yes", "PASSED", "Ask the next question"),
			contains: []string{"Age Requirement (21+)", "Yes", "PASSED", "Ask the next question"},
		},
		{
			name:     "preferred",
			prompt:   preferredPrompt(&reg.Preferred[0]),
			contains: []string{reg.Preferred[0].Label, reg.Preferred[0].Question},
		},
		{
			name:   "followup",
			prompt: followupPrompt(&reg.Preferred[0], "I drove a van"),
			contains: []string{
				"I drove a van",
				"- " + reg.Preferred[0].FollowUpPrompts[0],
			},
		},
		{
			name:     "decision",
			prompt:   decisionPrompt("scoreboard here", 75, DecisionQualified),
			contains: []string{"scoreboard here", "75", DecisionQualified},
		},
		{
			name:     "job qa",
			prompt:   jobQAPrompt("job text", "What is the pay?", "Score: 75/100"),
			contains: []string{"job text", "What is the pay?", "Score: 75/100"},
		},
		{
			name:     "judge mandatory",
			prompt:   judgeMandatoryPrompt(&reg.Mandatory[0], "I turned 22 last month"),
			contains: []string{reg.Mandatory[0].Question, "I turned 22 last month", "PASS"},
		},
		{
			name:     "judge preferred",
			prompt:   judgePreferredPrompt(&reg.Preferred[0], "Two years at FedEx"),
			contains: []string{reg.Preferred[0].Question, "Two years at FedEx", "0.0 to 1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if strings.Contains(tt.prompt, "{{") {
				t.Fatalf("unresolved placeholder in prompt:\n%s", tt.prompt)
			}
			for _, want := range tt.contains {
				if !strings.Contains(tt.prompt, want) {
					t.Fatalf("prompt missing %q:\n%s", want, tt.prompt)
				}
			}
		})
	}
}
