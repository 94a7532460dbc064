package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/calendar"
	"github.com/username/zeiterfassung/internal/dashboard"
	"github.com/username/zeiterfassung/internal/render"
	"github.com/username/zeiterfassung/internal/xano"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show week and month reports",
	}

	cmd.AddCommand(reportWeekCmd(), reportMonthCmd())
	return cmd
}

func reportWeekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the report of one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := dateutil.Today()
			if date != "" {
				parsed, err := dateutil.ParseDate(date)
				if err != nil {
					return err
				}
				day = parsed
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
			view, err := svc.Week(cmd.Context(), day)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(view)
			}

			_, week := view.Report.WeekStart.ISOWeek()
			outPrintln(render.Title(fmt.Sprintf("KW %d: %s - %s", week,
				render.Date(view.Report.WeekStart), render.Date(view.Report.WeekEnd))))
			if view.Stale {
				outPrintln(render.Stale("Backend nicht erreichbar, Stand " + view.FetchedAt.Local().Format("02.01.2006 15:04")))
			}
			outPrintln(render.WeekTable(view.Rows))
			outPrintln(render.Summary(view.Report.Summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week (default today)")

	return cmd
}

func reportMonthCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the report of one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, mon := now.Year(), now.Month()
			if month != "" {
				var err error
				if year, mon, err = dashboard.ParseMonth(month); err != nil {
					return err
				}
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
			view, err := svc.Month(cmd.Context(), year, mon)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(view)
			}

			outPrintln(render.Title(fmt.Sprintf("%s %d", render.MonthName(view.Report.Month), view.Report.Year)))
			if view.Stale {
				outPrintln(render.Stale("Backend nicht erreichbar, Stand " + view.FetchedAt.Local().Format("02.01.2006 15:04")))
			}
			outPrintln(render.MonthGrid(view.Grid))
			outPrintln(render.Summary(view.Report.Summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default current month)")

	return cmd
}

func overtimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overtime",
		Short: "Show or recalculate the overtime account",
	}

	balance := &cobra.Command{
		Use:   "balance",
		Short: "Show the overtime balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			account, err := a.client.OvertimeBalance(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(account)
			}

			outPrintf("Überstundenkonto: %s (%s h)\n",
				render.SignedHours(account.CurrentBalance.Float64()),
				render.Decimal(account.CurrentBalance.Float64()))
			if limit := account.MaxAllowedOvertime.Float64(); limit > 0 {
				outPrintf("Maximal erlaubt:  %s\n", render.Hours(limit))
			}
			return nil
		},
	}

	recalc := &cobra.Command{
		Use:   "recalculate",
		Short: "Recalculate the balance from all entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			result, err := a.client.RecalculateOvertime(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			outPrintf("Überstundenkonto neu berechnet: %s → %s\n",
				render.SignedHours(result.PreviousBalance.Float64()),
				render.SignedHours(result.NewBalance.Float64()))
			return nil
		},
	}

	cmd.AddCommand(balance, recalc)
	return cmd
}

func holidaysCmd() *cobra.Command {
	var state, extraFile string

	cmd := &cobra.Command{
		Use:         "holidays [year]",
		Short:       "List public holidays",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			year := time.Now().Year()
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = y
			}

			if cfg != nil {
				if !cmd.Flags().Changed("state") {
					state = cfg.Calendar.State
				}
				if !cmd.Flags().Changed("extra") {
					extraFile = cfg.Calendar.ExtraHolidaysFile
				}
			}

			cal, err := calendar.New(state, extraFile, logger)
			if err != nil {
				return err
			}
			svc := dashboard.NewService(nil, nil, cal, logger)
			holidays := svc.Holidays(year)
			if jsonOutput {
				return printJSON(holidays)
			}

			logger.Debug("Listing holidays", zap.Int("year", year), zap.String("state", state))
			for _, h := range holidays {
				d, err := dateutil.ParseDate(h.Date)
				if err != nil {
					continue
				}
				outPrintf("%s %s  %s\n", render.WeekdayShort(d.Weekday()), render.Date(d), h.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", calendar.DefaultState, "German state code")
	cmd.Flags().StringVar(&extraFile, "extra", "", "File with additional days off")

	return cmd
}

func workingTimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "working-time",
		Short: "Show or set the weekly working-time schedule",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			wt, err := a.client.WorkingTime(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(wt)
			}
			if wt == nil {
				outPrintln("Kein Arbeitszeitmodell hinterlegt")
				return nil
			}

			outPrintf("Gültig ab %s\n", wt.ValidFrom)
			for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
				outPrintf("  %s  %s\n", render.WeekdayShort(day), render.Hours(wt.HoursFor(day)))
			}
			outPrintf("Woche: %s\n", render.Hours(wt.WeeklyHours()))
			if wt.WorksOnPublicHoliday {
				outPrintln("Arbeitet an Feiertagen")
			}
			return nil
		},
	}

	var validFrom string
	var hours [7]float64
	var holidays bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Store a new schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			wt, err := a.client.CreateWorkingTime(cmd.Context(), xano.WorkingTime{
				ValidFrom:            validFrom,
				MondayHours:          xano.Number(hours[time.Monday]),
				TuesdayHours:         xano.Number(hours[time.Tuesday]),
				WednesdayHours:       xano.Number(hours[time.Wednesday]),
				ThursdayHours:        xano.Number(hours[time.Thursday]),
				FridayHours:          xano.Number(hours[time.Friday]),
				SaturdayHours:        xano.Number(hours[time.Saturday]),
				SundayHours:          xano.Number(hours[time.Sunday]),
				WorksOnPublicHoliday: holidays,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(wt)
			}
			outPrintf("✅ Arbeitszeitmodell ab %s gespeichert (%s pro Woche)\n", wt.ValidFrom, render.Hours(wt.WeeklyHours()))
			return nil
		},
	}

	set.Flags().StringVar(&validFrom, "valid-from", dateutil.FormatDate(dateutil.Today()), "First day the schedule applies (YYYY-MM-DD)")
	set.Flags().Float64Var(&hours[time.Monday], "mon", 8, "Monday hours")
	set.Flags().Float64Var(&hours[time.Tuesday], "tue", 8, "Tuesday hours")
	set.Flags().Float64Var(&hours[time.Wednesday], "wed", 8, "Wednesday hours")
	set.Flags().Float64Var(&hours[time.Thursday], "thu", 8, "Thursday hours")
	set.Flags().Float64Var(&hours[time.Friday], "fri", 8, "Friday hours")
	set.Flags().Float64Var(&hours[time.Saturday], "sat", 0, "Saturday hours")
	set.Flags().Float64Var(&hours[time.Sunday], "sun", 0, "Sunday hours")
	set.Flags().BoolVar(&holidays, "works-on-holidays", false, "Public holidays count as working days")

	cmd.AddCommand(show, set)
	return cmd
}
