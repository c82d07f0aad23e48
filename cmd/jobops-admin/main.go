package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/target/jobops-api/config"
	"github.com/target/jobops-api/internal/bootstrap"
)

// commandContext carries what every subcommand needs once configuration is loaded.
type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader
}

type configLoader func() (config.AppConfig, error)

func main() {
	logger := bootstrap.InitLogger()
	root := newRootCommand(logger, bootstrap.LoadConfig)
	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCommand(logger *slog.Logger, load configLoader) *cobra.Command {
	cmdCtx := &commandContext{Logger: logger}

	root := &cobra.Command{
		Use:           "jobops-admin",
		Short:         "Operational tooling for the jobops API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cmdCtx.Ctx = cmd.Context()
			cmdCtx.Config = cfg
			cmdCtx.Out = cmd.OutOrStdout()
			cmdCtx.In = cmd.InOrStdin()
			return nil
		},
	}

	root.AddCommand(
		newMigrateCommand(cmdCtx),
		newDBResetCommand(cmdCtx),
		newSeedCommand(cmdCtx),
		newSweepCommand(cmdCtx),
		newIssueTokenCommand(cmdCtx),
	)
	return root
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
