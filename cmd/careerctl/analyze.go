package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resumeId>",
	Short: "Run ATS scoring for a stored resume and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	defer app.Wait()

	result, err := app.AnalysesService.Analyze(ctx, ownerFlag, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"overall_score":   result.OverallScore,
		"category_scores": result.CategoryScores,
		"feedback":        result.Feedback,
		"recommendations": result.Recommendations,
		"analyzed_at":     result.AnalyzedAt,
	})
}
