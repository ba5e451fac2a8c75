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

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/logger"
)

const (
	PromptExit = "exit"
	PromptQuit = "quit"
)

var coachCmd = &cobra.Command{
	Use:   "coach [QUESTION]",
	Short: "Ask the career coach a question, or chat with it interactively",
	Args:  cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		coach(args)
	},
}

func init() {
	rootCmd.AddCommand(coachCmd)
}

func coach(args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	advisor := newAdvisor(ctx, config.AI, logger)

	if len(args) == 1 {
		fmt.Println(advisor.Advise(ctx, args[0]))
		return
	}

	coach, ok := advisor.(*gemini.Coach)
	if !ok {
		fmt.Println(advisor.Advise(ctx, ""))
		return
	}

	if err := chat(ctx, coach.NewSession()); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// newAdvisor never fails: configuration problems turn into an Unavailable advisor.
func newAdvisor(ctx context.Context, cfg *AIConfig, log *zap.Logger) ai.Advisor {
	if cfg.Provider == ProviderLocal {
		return ai.Unavailable{Reason: "the local provider has no chat model"}
	}

	key, err := geminiKey(cfg)
	if err != nil {
		log.Warn("career coach is disabled", zap.Error(err))
		return ai.Unavailable{Reason: "no Gemini API key is configured"}
	}

	client, err := newGeminiClient(ctx, cfg.Gemini, key, log)
	if err != nil {
		log.Warn("career coach is disabled", zap.Error(err))
		return ai.Unavailable{Reason: err.Error()}
	}

	return gemini.NewCoach(client.Generator(), log)
}

func geminiKey(cfg *AIConfig) (string, error) {
	provider, key, err := resolveProvider(cfg)
	if err != nil {
		return "", err
	}
	if provider != ProviderGemini {
		return "", errors.New("gemini api key is not configured")
	}
	return key, nil
}

type advisorSession interface {
	Advise(ctx context.Context, query string) string
}

// chat runs the interactive loop until the user exits or interrupts.
func chat(ctx context.Context, session advisorSession) error {
	fmt.Printf("Ask a career question. Type %q to leave.\n", PromptExit)

	prompt := promptui.Prompt{Label: "You"}
	for {
		question, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(question)) {
		case PromptExit, PromptQuit:
			return nil
		case "":
			continue
		}

		fmt.Printf("\n%s\n\n", session.Advise(ctx, question))
	}
}
