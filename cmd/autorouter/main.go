package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/logging"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/router"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "autorouter",
		Short: "Intent-sensitive auto-router CLI",
		Long: `autorouter classifies chat requests and resolves the model spec they
should be routed to, using the same pipeline the server runs per request.

Common workflows:
  autorouter route request.json      # Classify a request payload
  echo '{"text":"..."}' | autorouter route
  autorouter validate -c patterns.json
`,
		Version: fmt.Sprintf("%s (commit: %s)", version, gitCommit),
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to pattern config file (JSON or YAML)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(newRouteCmd())
	rootCmd.AddCommand(newValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRouteCmd() *cobra.Command {
	var userID string
	var specsPath string

	cmd := &cobra.Command{
		Use:   "route [request.json]",
		Short: "Classify a request payload and print the routing decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			output, _ := cmd.Flags().GetString("output")

			req, err := readRequest(args)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog(specsPath)
			if err != nil {
				return err
			}

			cfg := config.Load(configPath)
			r := router.New(cfg, nil, catalog, nil)

			decision, err := r.Route(cmd.Context(), req, userID)
			if err != nil {
				printError(fmt.Sprintf("routing aborted: %v", err))
				os.Exit(1)
			}
			if decision == nil {
				printWarning("no routing decision (request opted out or agent-owned)")
				return nil
			}

			if output == "json" {
				return printJSON(struct {
					Decision *router.Decision       `json:"decision"`
					Request  map[string]interface{} `json:"request"`
				}{decision, req})
			}
			printDecision(decision)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "local", "User id used for the gauge key")
	cmd.Flags().StringVar(&specsPath, "specs", "", "Path to a JSON spec catalog (defaults to a built-in demo catalog)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a pattern config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.DefaultPatternsPath
			}
			cfg, err := config.ParseFile(configPath)
			if err != nil {
				printError(fmt.Sprintf("invalid: %v", err))
				os.Exit(1)
			}
			printSuccess(fmt.Sprintf("valid: %d keyword groups, default intent %q",
				len(cfg.Groups), cfg.Gauge.DefaultIntent))
			return nil
		},
	}
}

func readRequest(args []string) (map[string]interface{}, error) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read request payload: %w", err)
	}

	var req map[string]interface{}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("request payload is not valid JSON: %w", err)
	}
	return req, nil
}
