package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/joblink/internal/bootstrap"
	"github.com/yigit/joblink/internal/pkg/logger"
	"github.com/yigit/joblink/internal/server"
)

// @title JobLink API
// @version 1.0
// @description Job marketplace API: postings, ranked applicants and recruiter-led conversations

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "configs/config.yaml",
		Usage:   "path to the YAML configuration file",
		EnvVars: []string{"JOBLINK_CONFIG"},
	}

	serve := &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "apply pending migrations before serving"},
			&cli.BoolFlag{Name: "seed", Usage: "create demo accounts and a demo job when absent"},
		},
		Action: func(c *cli.Context) error {
			srv, err := server.NewServer(server.Options{
				ConfigPath: c.String("config"),
				Migrate:    c.Bool("migrate"),
				Seed:       c.Bool("seed"),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			return srv.Run()
		},
	}

	return &cli.App{
		Name:  "joblink",
		Usage: "job marketplace API",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			serve,
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: withDatabase(bootstrap.RunMigrationsCommand),
			},
			{
				Name:   "seed",
				Usage:  "create demo accounts and a demo job when absent, then exit",
				Action: withDatabase(bootstrap.SeedCommand),
			},
		},
		DefaultCommand: "serve",
	}
}

// withDatabase adapts a one-shot database command to a cli action
func withDatabase(run func(ctx context.Context, configPath string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return run(c.Context, c.String("config"))
	}
}
