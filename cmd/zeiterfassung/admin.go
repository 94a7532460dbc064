package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/username/zeiterfassung/internal/xano"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User administration (office/admin)",
	}

	cmd.AddCommand(adminUsersCmd(), adminUserCmd(), adminUserEntriesCmd(), adminSetUserCmd())
	return cmd
}

func adminUsersCmd() *cobra.Command {
	var role string
	var active bool
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := xano.UserQuery{Role: xano.Role(role), Page: page, PerPage: perPage}
			if role != "" && !q.Role.Valid() {
				return fmt.Errorf("unknown role %q (user, office, admin)", role)
			}
			if cmd.Flags().Changed("active") {
				q.IsActive = &active
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			users, err := a.client.ListUsers(cmd.Context(), q)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(users)
			}

			for _, u := range users.Items {
				state := "aktiv"
				if !u.IsActive {
					state = "inaktiv"
				}
				outPrintf("%6d  %-24s  %-30s  %-6s  %s\n", u.ID, displayName(&u), u.Email, u.Role, state)
			}
			if users.HasNext() {
				outPrintf("… weitere Benutzer auf Seite %d\n", *users.NextPage)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Filter by role")
	cmd.Flags().BoolVar(&active, "active", true, "Filter by activation")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "Users per page")

	return cmd
}

func adminUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show one user",
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

			user, err := a.client.GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(user)
			}

			outPrintf("%s <%s>\n", displayName(user), user.Email)
			outPrintf("  Rolle:  %s\n", user.Role)
			outPrintf("  Aktiv:  %t\n", user.IsActive)
			if user.ActiveTimer != nil {
				outPrintf("  Timer läuft seit %s\n", user.ActiveTimer.StartedAt.Local().Format("02.01.2006 15:04"))
			}
			if user.OvertimeAccount != nil {
				outPrintf("  Überstunden: %.2f h\n", user.OvertimeAccount.CurrentBalance.Float64())
			}
			return nil
		},
	}
}

func adminUserEntriesCmd() *cobra.Command {
	var from, to string
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "user-entries <id>",
		Short: "List the time entries of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

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

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			result, err := a.client.UserTimeEntries(cmd.Context(), id, q)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			printEntries(result.Items)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 50, "Entries per page")

	return cmd
}

func adminSetUserCmd() *cobra.Command {
	var role string
	var active bool

	cmd := &cobra.Command{
		Use:   "set-user <id>",
		Short: "Change a user's role or activation (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req xano.UserUpdate
			if cmd.Flags().Changed("role") {
				r := xano.Role(role)
				if !r.Valid() {
					return fmt.Errorf("unknown role %q (user, office, admin)", role)
				}
				req.Role = &r
			}
			if cmd.Flags().Changed("active") {
				req.IsActive = &active
			}
			if req.Role == nil && req.IsActive == nil {
				return fmt.Errorf("nothing to change, use --role or --active")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			user, err := a.client.UpdateUser(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(user)
			}
			outPrintf("✅ %s: Rolle %s, aktiv %t\n", displayName(user), user.Role, user.IsActive)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "New role (user, office, admin)")
	cmd.Flags().BoolVar(&active, "active", true, "Activate or deactivate the account")

	return cmd
}
