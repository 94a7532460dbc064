package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/render"
	"github.com/username/zeiterfassung/internal/timeclock"
	"github.com/username/zeiterfassung/internal/xano"
)

func timerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Start, stop and watch the time clock",
	}

	cmd.AddCommand(timerStartCmd(), timerStopCmd(), timerStatusCmd(), timerWatchCmd())
	return cmd
}

func timerStartCmd() *cobra.Command {
	var isBreak bool
	var comment string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			timer, err := a.client.StartTimer(cmd.Context(), xano.StartTimerRequest{IsBreak: isBreak, Comment: comment})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(timer)
			}

			kind := "Arbeit"
			if timer.IsBreak {
				kind = "Pause"
			}
			outPrintf("▶ %s gestartet um %s\n", kind, timer.StartedAt.Local().Format("15:04"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&isBreak, "break", false, "Record a break instead of work")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment for the entry")

	return cmd
}

func timerStopCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the timer and store the entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			var req *xano.StopTimerRequest
			if cmd.Flags().Changed("comment") {
				req = &xano.StopTimerRequest{Comment: comment}
			}

			entry, err := a.client.StopTimer(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(entry)
			}

			if entry == nil {
				outPrintln("⏹ Timer gestoppt")
				return nil
			}
			outPrintf("⏹ Timer gestoppt: %s - %s (%s)\n",
				entry.Start.Local().Format("15:04"),
				entry.End.Local().Format("15:04"),
				render.Hours(entry.Duration().Hours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Comment for the stored entry")

	return cmd
}

func timerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			timer, err := a.client.CurrentTimer(cmd.Context())
			if err != nil {
				return err
			}

			status := timeclock.StatusAt(timer, time.Now(), cfg.Timer.GetDailyTarget())
			if jsonOutput {
				return printJSON(status)
			}

			outPrintln(status.String())
			if status.Running {
				outPrintf("%s %s\n", render.ProgressBar(status.Progress, 30), render.Percent(status.Progress))
			}
			return nil
		},
	}
}

func timerWatchCmd() *cobra.Command {
	var tray bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the running timer (optionally in the system tray)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			useTray := cfg.Timer.SystemTray
			if cmd.Flags().Changed("tray") {
				useTray = tray
			}

			watcher := timeclock.NewWatcher(a.client, timeclock.WatcherOptions{
				TickInterval:   cfg.Timer.GetTickInterval(),
				ResyncInterval: cfg.Timer.GetResyncInterval(),
				DailyTarget:    cfg.Timer.GetDailyTarget(),
				SystemTray:     useTray,
			}, logger)

			if !useTray {
				watcher.OnTick(func(s timeclock.Status) {
					outPrintf("\r\033[K%s", s.String())
				})
			}

			ctx, cancel := signalContext()
			defer cancel()

			err = watcher.Start(ctx)
			outPrintln()
			return err
		},
	}

	cmd.Flags().BoolVar(&tray, "tray", false, "Show the timer in the system tray (Windows only)")

	return cmd
}
