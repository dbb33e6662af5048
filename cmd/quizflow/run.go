package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/internal/cli"
	"github.com/quizflow/quizflow/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive quiz in the terminal",
	Long:  `Starts the quiz engine in interactive mode: name a topic, answer questions, get scored.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		sessionID, _ := cmd.Flags().GetString("session")
		plain, _ := cmd.Flags().GetBool("plain")

		engineOpts := []quizflow.Option{}
		if debug {
			engineOpts = append(engineOpts, quizflow.WithLifecycleHooks(cli.DebugHooks(logger)))
		}

		engine, cleanup, err := cli.BuildEngine(cfg, logger, engineOpts...)
		if err != nil {
			fmt.Printf("Error initializing engine: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		interactive := runner.IsInteractive(os.Stdout) && !plain
		runnerOpts := []runner.Option{
			runner.WithLogger(logger),
			runner.WithBanner(interactive),
		}
		if interactive {
			runnerOpts = append(runnerOpts, runner.WithRenderer(runner.NewMarkdownRenderer()))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := runner.NewRunner(runnerOpts...)
		if err := r.Run(ctx, engine, sessionID); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("session", "", "Resume or create a named session (default: fresh session)")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}
