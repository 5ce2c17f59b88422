package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"careerhub-backend/internal/report"
)

var (
	reportOut    string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report <resumeId>",
	Short: "Render the HTML analysis report for a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "html", "Report format: html or text (text prints to stdout unless --out is set)")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file (defaults to the report file name in the current directory)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	resume, err := app.ProfilesService.Find(ctx, ownerFlag, args[0])
	if err != nil {
		return err
	}

	var body []byte
	switch reportFormat {
	case "html":
		body, err = report.Render(resume, time.Now())
	case "text":
		var text string
		text, err = report.RenderText(resume, time.Now())
		if err == nil && reportOut == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		body = []byte(text)
	default:
		return fmt.Errorf("unknown --format %q", reportFormat)
	}
	if err != nil {
		return err
	}

	out := reportOut
	if out == "" {
		out = report.Filename(resume)
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", out)
	return nil
}
