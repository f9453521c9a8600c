package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"github.com/krevetko/job-scout/internal/logger"
	"github.com/krevetko/job-scout/internal/search"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowSummary = "Show summary"
	PromptDumpToFile  = "Dump jobs to file"
	PromptExit        = "Exit"

	minCVLength = 50
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowSummary, PromptDumpToFile, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot CV job search",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("cv-file", "c", "", "path to a plain-text CV file")
	searchCmd.Flags().StringP("location", "l", "", "requested job location (empty means all locations)")
	searchCmd.Flags().BoolP("auto-approve", "y", false, "print results as json without the interactive prompt")

	searchCmd.MarkFlagRequired("cv-file")
}

// runSearch is the one-shot CLI counterpart of the HTTP search endpoint.
func runSearch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	cvFile, _ := cmd.Flags().GetString("cv-file")
	location, _ := cmd.Flags().GetString("location")

	cvText, err := os.ReadFile(cvFile)
	if err != nil {
		logger.Fatal("reading cv file", zap.Error(err))
	}

	if utf8.RuneCount(cvText) < minCVLength {
		logger.Fatal("cv text is too short to analyze",
			zap.Int("min_length", minCVLength),
			zap.String("hint", "provide the full plain-text CV"),
		)
	}

	orchestrator, err := buildOrchestrator(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the search pipeline", zap.Error(err))
	}

	result := orchestrator.Run(ctx, string(cvText), location)

	if result.Jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matching jobs found"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if autoApprove {
		pretty, _ := json.MarshalIndent(result.Jobs, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		logger.Info("current list of jobs",
			zap.Int("count", result.Jobs.Len()),
			zap.Float64("average_relevance", result.Summary.AverageRelevance),
		)

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result search.Result) error {
	switch action {
	case PromptShowSummary:
		pretty, _ := json.MarshalIndent(map[string]any{
			"summary":   result.Summary,
			"cvDetails": result.Facts,
		}, "", "  ")
		logger.Info(string(pretty))
		return nil
	case PromptDumpToFile:
		filename, err := result.Jobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}
