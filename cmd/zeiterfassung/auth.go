package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/username/zeiterfassung/internal/xano"
)

func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if email == "" {
				if email, err = promptLine("E-Mail: "); err != nil {
					return err
				}
			}
			password, err := promptPassword("Passwort: ")
			if err != nil {
				return err
			}

			resp, err := a.client.Login(cmd.Context(), xano.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}

			outPrintf("✅ Angemeldet als %s (%s)\n", displayName(&resp.User), resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")

	return cmd
}

func signupCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if email == "" {
				if email, err = promptLine("E-Mail: "); err != nil {
					return err
				}
			}
			if name == "" {
				if name, err = promptLine("Name: "); err != nil {
					return err
				}
			}
			password, err := promptPassword("Passwort: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword("Passwort wiederholen: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			resp, err := a.client.Signup(cmd.Context(), xano.SignupRequest{Email: email, Password: password, Name: name})
			if err != nil {
				return err
			}

			outPrintf("✅ Konto erstellt für %s\n", displayName(&resp.User))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.client.Logout(); err != nil {
				return err
			}
			outPrintln("Abgemeldet")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.requireLogin(); err != nil {
				return err
			}

			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(user)
			}

			outPrintf("%s <%s>\n", displayName(user), user.Email)
			outPrintf("  Rolle:  %s\n", user.Role)
			outPrintf("  Aktiv:  %t\n", user.IsActive)
			if user.EmployeeID != "" {
				outPrintf("  Personalnummer: %s\n", user.EmployeeID)
			}
			return nil
		},
	}
}

func displayName(u *xano.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

var stdin = bufio.NewReader(os.Stdin)

func promptLine(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(label)
	}

	fmt.Fprint(os.Stderr, label)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
