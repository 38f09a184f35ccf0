package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/scrolllock"
)

func newIntroCmd(load configLoader) *cobra.Command {
	var (
		reduced bool
		asJSON  bool
		play    bool
	)

	cmd := &cobra.Command{
		Use:   "intro",
		Short: "Print or play the intro timeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			reduced = reduced || cfg.Intro.ReducedMotion
			timeline := intro.DefaultTimeline()
			if reduced {
				timeline = timeline.ReducedMotion()
			}
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(timeline)
			}
			observability.NewPrinter(out).PrintTimeline(timeline)
			if !play {
				return nil
			}

			lock := scrolllock.New()
			seq := intro.New(lock, timeline, intro.Options{
				Logger: logger,
				OnStep: func(s intro.Step) {
					fmt.Fprintf(out, "  done %s.%s\n", s.Target, s.Property)
				},
			})
			start := time.Now()
			if err := seq.Run(cmd.Context(), intro.RealSleep); err != nil {
				return err
			}
			logger.Debug("intro finished", zap.Bool("scroll_locked", lock.Locked()))
			fmt.Fprintf(out, "revealed after %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reduced, "reduced-motion", false, "Use the shortened reduced-motion timeline")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the timeline as JSON")
	cmd.Flags().BoolVar(&play, "play", false, "Play the timeline in real time and report when content is revealed")
	return cmd
}
