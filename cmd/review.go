package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"hireflow/internal/hiring"
	"hireflow/internal/logger"
)

const (
	PromptApprove = "Approve (shortlist and send interview link)"
	PromptReject  = "Reject"
	PromptSkip    = "Skip for now"
	PromptExit    = "exit"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review applications flagged for a manual decision",
	Run: func(cmd *cobra.Command, _ []string) {
		review(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func review(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildApp(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the application", zap.Error(err))
	}
	defer deps.db.Close()

	for {
		flagged, err := flaggedCandidates(deps)
		if err != nil {
			logger.Fatal("loading flagged candidates", zap.Error(err))
		}
		if len(flagged) == 0 {
			logger.Info("exiting", zap.String("reason", "no candidates awaiting review"))
			return
		}

		items := make([]string, 0, len(flagged)+1)
		for _, c := range flagged {
			items = append(items, fmt.Sprintf("%s %s / %s / score %.1f / missing: %s",
				c.ID, c.Name, c.Email, c.MatchScore, strings.Join(c.MissingSkills, ", "),
			))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptExit),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if selected == PromptExit {
			return
		}

		candidateID := strings.Split(selected, " ")[0]
		if err := decideCandidate(ctx, deps, logger, candidateID); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func flaggedCandidates(deps *appDeps) ([]*hiring.Candidate, error) {
	applied, err := deps.candidates.ListByStatus(hiring.StatusApplied)
	if err != nil {
		return nil, err
	}

	flagged := make([]*hiring.Candidate, 0, len(applied))
	for _, c := range applied {
		if c.ReviewFlagged {
			flagged = append(flagged, c)
		}
	}
	return flagged, nil
}

func decideCandidate(ctx context.Context, deps *appDeps, logger *zap.Logger, candidateID string) error {
	actionPrompt := promptui.Select{
		Label: "Decision for " + candidateID,
		Items: []string{PromptApprove, PromptReject, PromptSkip},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptSkip:
		return nil
	case PromptApprove:
		c, err := deps.funnel.Review(ctx, candidateID, true)
		if err != nil {
			return err
		}
		logger.Info("candidate shortlisted",
			zap.String("candidate_id", c.ID),
			zap.String("status", string(c.Status)),
		)
		return nil
	case PromptReject:
		c, err := deps.funnel.Review(ctx, candidateID, false)
		if err != nil {
			return err
		}
		logger.Info("candidate rejected", zap.String("candidate_id", c.ID))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
