package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bnema/regsweep/internal/config"
	"github.com/bnema/regsweep/internal/httpserve"
	"github.com/bnema/regsweep/internal/registry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the purge endpoint over HTTP",
	Long: `Expose the purge job as an HTTP endpoint. Each POST /purge runs one
full pass; the request body may carry a JSON object of configuration keys
overriding the process environment.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	e := httpserve.NewServer(newScalewayClient)

	addr := fmt.Sprintf(":%d", servePort)
	log.Info("serving purge endpoint", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func newScalewayClient(creds config.Credentials) (registry.Client, error) {
	return registry.NewScalewayClient(creds.AccessKey, creds.SecretKey, creds.Region)
}
