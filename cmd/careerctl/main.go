// Command careerctl runs operator tasks against the career services backend.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"careerhub-backend/internal/bootstrap"
	"careerhub-backend/internal/shared/config"
)

var ownerFlag string

var rootCmd = &cobra.Command{
	Use:           "careerctl",
	Short:         "Career services backend operator CLI",
	Long:          "careerctl applies migrations, runs resume analyses, renders reports and imports job postings.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "user", "", "Owner user id (resolved from the resume id when empty)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApp wires the services without an HTTP router.
func buildApp(ctx context.Context) (*bootstrap.App, error) {
	app, err := bootstrap.BuildWith(ctx, config.Load(), bootstrap.Options{CLI: true})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return app, nil
}
