package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/purge"
	"github.com/bnema/regsweep/internal/registry"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one purge pass against the registry",
	Long: `Run a single purge pass: enumerate the configured scope, delete
qualifying tags, optionally remove empty namespaces, and print the report
as JSON on stdout.`,
	Run: runPurge,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "evaluate and report without deleting anything")
	rootCmd.AddCommand(runCmd)
}

func runPurge(cmd *cobra.Command, args []string) {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("failed to resolve configuration", "error", err)
	}
	if dryRun {
		cfg.Criteria.DryRun = true
	}

	client, err := registry.NewScalewayClient(
		cfg.Credentials.AccessKey,
		cfg.Credentials.SecretKey,
		cfg.Credentials.Region,
	)
	if err != nil {
		log.Fatal("failed to create registry client", "error", err)
	}

	report, err := purge.NewRunner(client, cfg.Criteria).Run(cmd.Context())
	if err != nil {
		log.Fatal("purge run aborted", "error", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal("failed to encode report", "error", err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	log.Info("purge pass completed",
		"images_analyzed", report.Summary.TotalImagesAnalyzed,
		"tags_found", report.Summary.TotalTagsFound,
		"deleted", report.Summary.SuccessfullyDeleted,
		"errors", report.Summary.Errors,
		"namespaces_deleted", report.Summary.NamespacesDeleted,
		"namespace_errors", report.Summary.NamespaceErrors,
	)
}
