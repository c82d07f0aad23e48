package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/jobops-api/internal/adapters/tokens"
	"github.com/target/jobops-api/internal/data"
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/domain/model"
	"github.com/target/jobops-api/internal/observability/metrics"
	"github.com/target/jobops-api/internal/service"
)

const defaultCommandTimeout = time.Minute

func newSweepCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		dryRun  bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the overdue sweep once, outside the schedule",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				svc := service.NewSweepService(service.SweepServiceOptions{
					Repo:    data.NewSweepRepo(db),
					Metrics: metrics.NoopSink{},
					Logger:  cmdCtx.Logger,
				})

				var (
					res model.SweepResult
					err error
				)
				if dryRun {
					res, err = svc.Preview(ctx)
				} else {
					res, err = svc.Run(ctx, service.SweepTriggerManual)
				}
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmdCtx.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultCommandTimeout, "overall timeout")
	return cmd
}

type issueTokenOptions struct {
	Username string
	TTL      time.Duration
	Timeout  time.Duration
}

func newIssueTokenCommand(cmdCtx *commandContext) *cobra.Command {
	var opts issueTokenOptions
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Mint an API bearer token for an active user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runIssueToken(cmdCtx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Username, "username", "", "username of the token subject")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "token lifetime (defaults to TOKENS_TTL)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "overall timeout")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func runIssueToken(cmdCtx *commandContext, opts issueTokenOptions) error {
	tokCfg := cmdCtx.Config.Tokens
	if !tokCfg.Enabled() {
		return errors.New("TOKENS_SECRET is not configured")
	}
	issuer, err := tokens.New(tokens.Config{Secret: tokCfg.Secret, Issuer: tokCfg.Issuer})
	if err != nil {
		return err
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = tokCfg.TTL
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		user, err := data.NewUserRepo(db).GetByUsername(ctx, opts.Username)
		if err != nil {
			return fmt.Errorf("look up user %q: %w", opts.Username, err)
		}
		if !user.IsActive {
			return fmt.Errorf("user %q is inactive", opts.Username)
		}

		token, err := issuer.Issue(domainauth.Session{
			UserID:    user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Role:      user.Role,
		}, ttl)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("issued api token", "username", user.Username, "role", user.Role, "ttl", ttl)
		return writef(cmdCtx.Out, "%s\n", token)
	})
}
