package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/render"
	"github.com/username/zeiterfassung/internal/xano"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

var absenceTypeNames = map[xano.AbsenceType]string{
	xano.AbsenceVacation: "Urlaub",
	xano.AbsenceSick:     "Krank",
	xano.AbsenceOther:    "Sonstiges",
}

var absenceStatusNames = map[xano.AbsenceStatus]string{
	xano.AbsencePending:  "offen",
	xano.AbsenceApproved: "genehmigt",
	xano.AbsenceRejected: "abgelehnt",
}

func absencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "absences",
		Aliases: []string{"absence"},
		Short:   "Request and approve absences",
	}

	cmd.AddCommand(
		absencesListCmd(),
		absencesRequestCmd(),
		absencesStatusCmd("approve", "Approve an absence (office/admin)", xano.AbsenceApproved),
		absencesStatusCmd("reject", "Reject an absence (office/admin)", xano.AbsenceRejected),
		absencesDeleteCmd(),
	)
	return cmd
}

func absencesListCmd() *cobra.Command {
	var from, to, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List absences",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := xano.AbsenceQuery{StartDate: from, EndDate: to, Status: xano.AbsenceStatus(status)}
			if status != "" && !q.Status.Valid() {
				return fmt.Errorf("unknown status %q (pending, approved, rejected)", status)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			absences, err := a.client.ListAbsences(cmd.Context(), q)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(absences)
			}

			if len(absences) == 0 {
				outPrintln("Keine Abwesenheiten")
				return nil
			}
			for _, abs := range absences {
				outPrintf("%6d  %s - %s  %-9s  %-9s  %s\n",
					abs.ID,
					formatAbsenceDate(abs.StartDate),
					formatAbsenceDate(abs.EndDate),
					absenceTypeNames[abs.Type],
					absenceStatusNames[abs.Status],
					abs.Comment)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected)")

	return cmd
}

func formatAbsenceDate(s string) string {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		return s
	}
	return render.Date(d)
}

func absencesRequestCmd() *cobra.Command {
	var from, to, kind, comment string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request an absence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				to = from
			}
			req := xano.AbsenceCreate{
				StartDate: from,
				EndDate:   to,
				Type:      xano.AbsenceType(kind),
				Comment:   comment,
			}
			if err := req.Validate(); err != nil {
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

			abs, err := a.client.CreateAbsence(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(abs)
			}
			outPrintf("✅ %s vom %s bis %s beantragt (Nr. %d)\n",
				absenceTypeNames[abs.Type], formatAbsenceDate(abs.StartDate), formatAbsenceDate(abs.EndDate), abs.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default --from)")
	cmd.Flags().StringVar(&kind, "type", string(xano.AbsenceVacation), "Type (vacation, sick, other)")
	cmd.Flags().StringVar(&comment, "comment", "", "Comment")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func absencesStatusCmd(use, short string, status xano.AbsenceStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
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
			if u := a.session.User(); u != nil && !u.Role.CanApprove() {
				return fmt.Errorf("role %q may not %s absences", u.Role, use)
			}

			abs, err := a.client.SetAbsenceStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(abs)
			}
			outPrintf("Abwesenheit %d %s\n", abs.ID, absenceStatusNames[abs.Status])
			return nil
		},
	}
}

func absencesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Withdraw an absence request",
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

			if err := a.client.DeleteAbsence(cmd.Context(), id); err != nil {
				return err
			}
			outPrintf("🗑 Abwesenheit %d gelöscht\n", id)
			return nil
		},
	}
}
