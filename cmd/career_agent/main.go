// Package main provides the career_agent CLI: skill-based career
// recommendations, saved history, and the recommendation server.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/career-recommender/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// appConfig is resolved once per invocation by the root pre-run hook.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "career_agent",
	Short: "Career recommendations from your skills",
	Long: `career_agent suggests careers that fit a list of skills, shows a growth roadmap
for the best match, and keeps a history of past recommendations when signed in.

Configuration can be loaded from a JSON file using --config. CAREER_* environment
variables override the file, and flags override both.`,
	SilenceUsage:      true,
	PersistentPreRunE: resolveConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print request and session logs")
}

func resolveConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(configPath, verbose)
	if err != nil {
		return err
	}
	appConfig = cfg

	// The server always logs; interactive commands only when asked.
	if !cfg.Verbose && cmd != serveCmd {
		log.SetOutput(io.Discard)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
