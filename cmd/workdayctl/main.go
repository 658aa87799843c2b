package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/console"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/workday-backend-go/internal/service/report"
	"github.com/go-chi/jwtauth/v5"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Name:  "workdayctl",
		Usage: "operate the workday backend",
		Before: func(c *cli.Context) error {
			slog.SetDefault(console.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL")))
			return nil
		},
		Commands: []*cli.Command{
			migrateCommand,
			tokenCommand,
			reportCommand,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx, os.Args)
}

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "apply database migrations",
	ArgsUsage: "up|down|drop|version",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dir", Usage: "directory containing migration files (defaults to MIGRATIONS_DIR)"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		action := c.Args().First()
		if action == "" {
			action = "up"
		}
		dir := cfg.App.MigrationsDir
		if c.String("dir") != "" {
			dir = c.String("dir")
		}

		if err := database.Migrate(action, dir, cfg.DatabaseURL()); err != nil {
			return fmt.Errorf("migrate %s: %w", action, err)
		}
		slog.Info("Migration completed", "action", action, "dir", dir)
		return nil
	},
}

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "mint an access token for local testing",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "user id placed in the user_id claim", Required: true},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
			GenerateAccessToken(c.String("user"))
		if err != nil {
			return err
		}
		slog.Debug("Token issued", "user_id", c.String("user"), "expires_at", expiresAt)
		fmt.Fprintln(c.App.Writer, token)
		return nil
	},
}

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "print the monthly summary of a user",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "user", Usage: "user id", Required: true},
		&cli.StringFlag{Name: "date", Usage: "reference day YYYY-MM-DD (defaults to today)"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := c.Context
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: 2,
			MinConns: 1,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		// the service reads the user from verified claims, same as the API
		jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		tokenString, _, err := jwtService.GenerateAccessToken(c.String("user"))
		if err != nil {
			return err
		}
		token, err := jwtService.JWTAuth().Decode(tokenString)
		if err != nil {
			return err
		}
		ctx = jwtauth.NewContext(ctx, token, nil)

		svc := reportService.NewReportService(
			postgresql.NewWorkdayRepository(db),
			cfg.Workday,
			reportService.WithLocation(cfg.Location()),
		)

		req := report.SummaryRequest{}
		if date := c.String("date"); date != "" {
			req.Date = &date
		}
		resp, err := svc.Summary(ctx, req)
		if err != nil {
			return err
		}

		console.RenderSummary(c.App.Writer, resp)
		return nil
	},
}
