package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tsavowest/ai-interviewer/internal/interview"
	intlogger "github.com/tsavowest/ai-interviewer/internal/logger"
)

const (
	// Free-text escape offered alongside quick-answer options.
	promptOtherAnswer = "Other (type my own answer)"

	cmdProgress = "/progress"
	cmdSummary  = "/summary"
	cmdDecision = "/decision"
	cmdQuit     = "/quit"
)

var errInterviewQuit = errors.New("quit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("show-summary", false, "print the recruiter summary when the interview ends")
}

// runInterview drives one candidate session over stdin/stdout.
func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := intlogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	registry, err := resolveRegistry(config)
	if err != nil {
		logger.Fatal("invalid interview configuration", zap.Error(err))
	}

	gateway, err := newGateway(ctx, config, logger)
	if err != nil {
		logger.Fatal(
			"creating the completion gateway",
			zap.Error(err),
			zap.String("hint", "set the "+geminiKeyEnv+" environment variable or the ai.gemini section in the configuration file"),
		)
	}

	maxFollowups, policy := resolveEvaluation(config)

	agent, err := interview.New(gateway, registry, policy, maxFollowups, logger)
	if err != nil {
		logger.Fatal("creating the interview agent", zap.Error(err))
	}

	logger.Info("starting the interview",
		zap.String("company", registry.Job.Company),
		zap.String("role", registry.Job.Role),
		zap.String("model", gateway.Model()),
	)

	printReply(agent.Start(ctx))

	for agent.Phase() != interview.PhaseEnded {
		input, err := readAnswer(agent)
		if err != nil {
			if errors.Is(err, errInterviewQuit) {
				logger.Info("exiting", zap.String("reason", "quit requested"))
				return
			}
			logger.Fatal("reading candidate input", zap.Error(err))
		}

		if handled := handleCommand(ctx, agent, input); handled {
			continue
		}

		printReply(agent.Submit(ctx, input))
	}

	fmt.Println("The interview has ended.")

	if cmd.Flag("show-summary").Value.String() == "true" {
		fmt.Println()
		fmt.Println(agent.Summary())
	}
}

// readAnswer collects the next candidate message, offering quick-answer
// options when the pending mandatory question defines them.
func readAnswer(agent *interview.Agent) (string, error) {
	options := agent.QuickOptions()

	if len(options) > 0 {
		selectPrompt := promptui.Select{
			Label: "Your answer",
			Items: append(append([]string{}, options...), promptOtherAnswer),
		}

		_, selected, err := selectPrompt.Run()
		if err != nil {
			return "", err
		}

		if selected != promptOtherAnswer {
			return selected, nil
		}
	}

	textPrompt := promptui.Prompt{Label: "You"}

	input, err := textPrompt.Run()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) == cmdQuit {
		return "", errInterviewQuit
	}

	return input, nil
}

// handleCommand intercepts control commands that are not candidate answers.
func handleCommand(ctx context.Context, agent *interview.Agent, input string) bool {
	switch strings.TrimSpace(input) {
	case cmdProgress:
		progress := agent.GetProgress()
		fmt.Printf("\nPhase: %s | Answered: %d/%d | Score: %d | Disqualified: %t\n\n",
			progress.Phase, progress.Answered, progress.Total, progress.Score, progress.Disqualified)
		return true
	case cmdSummary:
		fmt.Println()
		fmt.Println(agent.Summary())
		fmt.Println()
		return true
	case cmdDecision:
		printReply(agent.ForceDecision(ctx))
		return true
	}
	return false
}

func printReply(reply string) {
	fmt.Printf("\n🤖 %s\n\n", reply)
}
