package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"

	"github.com/alexanderramin/timelines/internal/cli"
	"github.com/alexanderramin/timelines/internal/config"
	"github.com/alexanderramin/timelines/internal/db"
	"github.com/alexanderramin/timelines/internal/observability"
	"github.com/alexanderramin/timelines/internal/service"
	"github.com/alexanderramin/timelines/internal/tickets"
	"github.com/alexanderramin/timelines/internal/tickets/githubprovider"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var useCaseObserver observability.UseCaseObserver = observability.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		useCaseObserver = observability.NewLogUseCaseObserver(os.Stderr)
	}

	scheduler, err := service.NewScheduler(cfg.ScheduleCacheSize, useCaseObserver)
	if err != nil {
		return fmt.Errorf("wiring scheduler: %w", err)
	}

	app := &cli.App{Scheduler: scheduler}

	// The ticket reconstructor is optional: it requires a configured
	// provider. Only the GitHub adapter ships in this module; without a
	// token, the tickets subcommands report it is unset.
	if cfg.GitHubToken != "" {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening ticket event cache: %w", err)
		}
		defer database.Close()

		httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.GitHubToken},
		))
		var provider tickets.Provider = githubprovider.New(httpClient, githubprovider.Config{})

		app.Tickets = service.NewTicketReconstructor(provider, database, useCaseObserver)
	}

	root := cli.NewRootCmd(app)
	return root.Execute()
}
