package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/server"
	"github.com/username/zeiterfassung/internal/timeclock"
	"github.com/username/zeiterfassung/internal/tui"
)

func browseCmd() *cobra.Command {
	var withTimer bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse week and month reports interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Console log lines would tear the full-screen view
			if cfg.Log.File == "" {
				logger = zap.NewNop()
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			svc, err := a.dashboard()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			p := tea.NewProgram(tui.NewModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))

			if withTimer {
				watcher := timeclock.NewWatcher(a.client, timeclock.WatcherOptions{
					TickInterval:   cfg.Timer.GetTickInterval(),
					ResyncInterval: cfg.Timer.GetResyncInterval(),
					DailyTarget:    cfg.Timer.GetDailyTarget(),
				}, logger)
				watcher.OnTick(func(s timeclock.Status) {
					p.Send(tui.MsgTimer{Status: s})
				})
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Debug("Timer watcher stopped", zap.Error(err))
					}
				}()
			}

			if _, err := p.Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("failed to run report browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTimer, "timer", true, "Show the running timer")

	return cmd
}

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			svc, err := a.dashboard()
			if err != nil {
				return err
			}

			opts := server.Options{
				Listen:         cfg.Server.Listen,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}
			if cmd.Flags().Changed("listen") {
				opts.Listen = listen
			}

			ctx, cancel := signalContext()
			defer cancel()

			h := server.NewHandler(svc, a.client, a.addressValidator(), cfg.Timer.GetDailyTarget(), logger)
			return server.Serve(ctx, h, opts)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (overrides server.listen)")

	return cmd
}
