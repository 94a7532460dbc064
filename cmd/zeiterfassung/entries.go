package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/render"
	"github.com/username/zeiterfassung/internal/xano"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02.01.2006 15:04",
	time.RFC3339,
}

// parseDateTime parses a local date and time as typed on the command line
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date/time %q (use \"YYYY-MM-DD HH:MM\")", s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Manage time entries",
	}

	cmd.AddCommand(entriesListCmd(), entriesCreateCmd(), entriesUpdateCmd(), entriesDeleteCmd())
	return cmd
}

func entriesListCmd() *cobra.Command {
	var from, to string
	var page, perPage int
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			var result *xano.Page[xano.TimeEntry]
			if all {
				result, err = a.client.ListAllTimeEntries(cmd.Context(), page, perPage)
			} else {
				q := xano.TimeEntryQuery{Page: page, PerPage: perPage}
				if from != "" {
					if q.StartDate, err = dateutil.ParseDate(from); err != nil {
						return err
					}
				}
				if to != "" {
					if q.EndDate, err = dateutil.ParseDate(to); err != nil {
						return err
					}
				}
				result, err = a.client.ListTimeEntries(cmd.Context(), q)
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}

			printEntries(result.Items)
			if result.HasNext() {
				outPrintf("… weitere Einträge auf Seite %d\n", *result.NextPage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "Entries per page")
	cmd.Flags().BoolVar(&all, "all", false, "List entries of all users (office/admin)")

	return cmd
}

func printEntries(entries []xano.TimeEntry) {
	if len(entries) == 0 {
		outPrintln("Keine Einträge")
		return
	}

	var total float64
	for _, e := range entries {
		kind := "Arbeit"
		if e.IsBreak {
			kind = "Pause "
		}
		hours := e.Duration().Hours()
		if !e.IsBreak {
			total += hours
		}
		outPrintf("%6d  %s  %s-%s  %-7s  %s  %s\n",
			e.ID,
			render.Date(e.Start.Local()),
			e.Start.Local().Format("15:04"),
			e.End.Local().Format("15:04"),
			render.Hours(hours),
			kind,
			e.Comment)
	}
	outPrintf("Summe Arbeit: %s\n", render.Hours(total))
}

func entriesCreateCmd() *cobra.Command {
	var start, end, comment string
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a manual time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := parseDateTime(start)
			if err != nil {
				return err
			}
			endTime, err := parseDateTime(end)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			entry, err := a.client.CreateTimeEntry(cmd.Context(), xano.TimeEntryCreate{
				Start:   startTime,
				End:     endTime,
				IsBreak: isBreak,
				Comment: comment,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(entry)
			}
			outPrintf("✅ Eintrag %d angelegt (%s)\n", entry.ID, render.Hours(entry.Duration().Hours()))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End (YYYY-MM-DD HH:MM)")
	cmd.Flags().BoolVar(&isBreak, "break", false, "Entry is a break")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func entriesUpdateCmd() *cobra.Command {
	var start, end, comment string
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req xano.TimeEntryUpdate
			if cmd.Flags().Changed("start") {
				t, err := parseDateTime(start)
				if err != nil {
					return err
				}
				req.Start = &t
			}
			if cmd.Flags().Changed("end") {
				t, err := parseDateTime(end)
				if err != nil {
					return err
				}
				req.End = &t
			}
			if cmd.Flags().Changed("break") {
				req.IsBreak = &isBreak
			}
			if cmd.Flags().Changed("comment") {
				req.Comment = &comment
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			entry, err := a.client.UpdateTimeEntry(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(entry)
			}
			outPrintf("✅ Eintrag %d aktualisiert\n", entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end (YYYY-MM-DD HH:MM)")
	cmd.Flags().BoolVar(&isBreak, "break", false, "Entry is a break")
	cmd.Flags().StringVar(&comment, "comment", "", "New comment")

	return cmd
}

func entriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			if err := a.client.DeleteTimeEntry(cmd.Context(), id); err != nil {
				return err
			}
			outPrintf("🗑 Eintrag %d gelöscht\n", id)
			return nil
		},
	}
}
