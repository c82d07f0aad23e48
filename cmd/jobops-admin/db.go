package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/jobops-api/internal/bootstrap"
	"github.com/target/jobops-api/internal/devseed"
	"github.com/target/jobops-api/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

func newMigrateCommand(cmdCtx *commandContext) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				cmdCtx.Logger.Info("running database migrations")
				if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
					return err
				}
				cmdCtx.Logger.Info("migrations completed successfully")
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "overall timeout")

	status := &cobra.Command{
		Use:   "status",
		Short: "List embedded migrations and whether each is applied",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				all, err := migrate.Status(ctx, db)
				if err != nil {
					return err
				}
				return printMigrationStatus(cmdCtx, all)
			})
		},
	}
	cmd.AddCommand(status)
	return cmd
}

func printMigrationStatus(cmdCtx *commandContext, all []migrate.Migration) error {
	for _, m := range all {
		state := "pending"
		if m.Applied {
			state = "applied"
		}
		if err := writef(cmdCtx.Out, "%-40s %s\n", m.Version, state); err != nil {
			return err
		}
	}
	return nil
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	File        string
	AllowRemote bool
}

func newDBResetCommand(cmdCtx *commandContext) *cobra.Command {
	var opts dbResetOptions
	cmd := &cobra.Command{
		Use:   "db-reset",
		Short: "Drop the database schema, run migrations, and optionally seed data",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runDBReset(cmdCtx, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "overall timeout")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm dropping the schema")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "seed fixture data after migrating")
	cmd.Flags().StringVar(&opts.File, "file", "", "YAML fixture to seed (defaults to the embedded dev fixture)")
	cmd.Flags().BoolVar(&opts.AllowRemote, "allow-remote", false, "allow non-local database hosts")
	return cmd
}

func runDBReset(cmdCtx *commandContext, opts dbResetOptions) error {
	if !opts.Yes {
		return fmt.Errorf(
			"refusing to reset database %q on %s:%d without --yes",
			cmdCtx.Config.Postgres.Name, cmdCtx.Config.Postgres.Host, cmdCtx.Config.Postgres.Port,
		)
	}
	if err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema"); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if err := cmdCtx.resetDatabase(ctx, db); err != nil {
			return err
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return err
		}

		if opts.Seed {
			if err := seedDatabase(ctx, cmdCtx, db, opts.File); err != nil {
				return err
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

type seedOptions struct {
	Timeout     time.Duration
	File        string
	AllowRemote bool
}

func newSeedCommand(cmdCtx *commandContext) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run database migrations and load users, equipment and jobs from a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed fixture data on the configured database"); err != nil {
				return err
			}
			return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
				cmdCtx.Logger.Info("ensuring database migrations are current")
				if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
					return err
				}
				return seedDatabase(ctx, cmdCtx, db, opts.File)
			})
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "overall timeout")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML fixture (defaults to the embedded dev fixture)")
	cmd.Flags().BoolVar(&opts.AllowRemote, "allow-remote", false, "allow non-local database hosts")
	return cmd
}

func seedDatabase(ctx context.Context, cmdCtx *commandContext, db *sql.DB, file string) error {
	fixture, err := devseed.Load(file)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("seeding fixture data", "file", file)
	sum, err := devseed.Run(ctx, devseed.NewServices(db), fixture, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	cmdCtx.Logger.Info("database seeding completed successfully",
		"users", sum.Users, "equipment", sum.Equipment, "jobs", sum.Jobs, "tasks", sum.Tasks)
	return nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) error {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return nil
	}
	if !allow {
		return fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	return requireRemoteHostConfirmation(cmdCtx, action, host)
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	if cmdCtx == nil {
		return errors.New("command context is required")
	}

	cfg := &cmdCtx.Config.Postgres
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cfg.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func requireRemoteHostConfirmation(cmdCtx *commandContext, action, host string) error {
	if err := writef(cmdCtx.Out,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n"+
			"Type %q to continue or press enter to abort: ",
		host, action, host,
	); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := bufio.NewReader(cmdCtx.In).ReadString('\n')
	if err != nil && resp == "" {
		return errors.New("aborted by user")
	}
	if strings.TrimSpace(resp) != host {
		return errors.New("remote safeguard check failed; aborted by user")
	}
	return nil
}
