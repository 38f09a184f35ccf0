package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/client"
	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/page"
	"github.com/jonathan/portfolio/internal/seed"
)

const defaultBaseURL = "http://localhost:8080"

func newPreviewCmd(load configLoader) *cobra.Command {
	var (
		baseURL   string
		offline   bool
		reduced   bool
		htmlOut   string
		playIntro bool
		retries   int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Load the page as a visitor would and summarize each section",
		Long: `Builds a page session against a running API (or the bundled dataset with --offline),
waits for every section to settle and prints what would be shown, including which
sections fell back to static data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			src, err := previewSources(baseURL, cfg.Loader.BaseURL, offline, cfg.Loader.Timeout)
			if err != nil {
				return err
			}

			sleep := intro.SleepFunc(skipIntro)
			if playIntro {
				sleep = intro.RealSleep
			}
			session := page.NewSession(src, page.Options{
				ReducedMotion: reduced || cfg.Intro.ReducedMotion,
				Sleep:         sleep,
				Timeout:       cfg.Loader.Timeout,
				Logger:        logger,
			})
			defer session.Close()

			if err := session.Start(cmd.Context()); err != nil {
				logger.Warn("sections did not settle", zap.Error(err))
			}
			for attempt := 1; attempt <= retries; attempt++ {
				retried, err := session.RetryFailed(cmd.Context())
				if err != nil {
					logger.Warn("retry did not settle", zap.Int("attempt", attempt), zap.Error(err))
					break
				}
				if len(retried) == 0 {
					break
				}
				logger.Info("retried failed sections", zap.Int("attempt", attempt), zap.Strings("resources", retried))
			}
			view := session.Sections()
			observability.NewPrinter(cmd.OutOrStdout()).PrintView(view)

			if htmlOut == "" {
				return nil
			}
			f, err := os.Create(htmlOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", htmlOut, err)
			}
			if err := page.Render(f, view, session.Intro().Timeline()); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to render page: %w", err)
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (default loader.base_url or "+defaultBaseURL+")")
	cmd.Flags().BoolVar(&offline, "offline", false, "Load sections from the bundled dataset instead of the API")
	cmd.Flags().BoolVar(&reduced, "reduced-motion", false, "Use the reduced-motion intro")
	cmd.Flags().BoolVar(&playIntro, "play-intro", false, "Wait for the intro timeline in real time before loading")
	cmd.Flags().IntVar(&retries, "retries", 0, "Refetch sections that failed up to this many times before printing")
	cmd.Flags().StringVar(&htmlOut, "html", "", "Also write the rendered page to this file")
	return cmd
}

func previewSources(flagURL, configURL string, offline bool, timeout time.Duration) (page.Sources, error) {
	if offline {
		store, err := seed.NewStore(nil)
		if err != nil {
			return page.Sources{}, err
		}
		return page.StoreSources(store), nil
	}

	baseURL := flagURL
	if baseURL == "" {
		baseURL = configURL
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	opts := client.DefaultOptions()
	if timeout > 0 {
		opts.Timeout = timeout
	}
	c, err := client.New(baseURL, opts)
	if err != nil {
		return page.Sources{}, err
	}
	return page.ClientSources(c), nil
}

// skipIntro completes every intro step at once.
func skipIntro(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
