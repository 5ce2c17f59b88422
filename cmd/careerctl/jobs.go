package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"careerhub-backend/internal/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage the saved job collection",
}

var jobsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Save job postings from a JSON file",
	Long:  "Reads either a JSON array of jobs or an object with a \"jobs\" array and saves each entry, skipping duplicates.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsImport,
}

func init() {
	jobsCmd.AddCommand(jobsImportCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open jobs file: %w", err)
	}
	defer f.Close()

	list, err := decodeJobs(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	saved, err := app.JobsService.Save(ctx, list)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d jobs (%d submitted)\n", len(saved), len(list))
	return nil
}

func decodeJobs(r io.Reader) ([]jobs.Job, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}
	var list []jobs.Job
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Jobs []jobs.Job `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode jobs file: %w", err)
	}
	if wrapped.Jobs == nil {
		return nil, fmt.Errorf("decode jobs file: no jobs array")
	}
	return wrapped.Jobs, nil
}
