package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizflow/quizflow/internal/cli"
	"github.com/quizflow/quizflow/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "quizflow",
	Short: "quizflow is a conversational quiz engine",
	Long:  `quizflow runs multi-turn quiz conversations backed by an LLM: pick a topic, answer questions, get scored.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a quizflow.yaml config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the configuration honoring the persistent flags and
// builds the application logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, cli.NewLogger(cfg, debug), nil
}
