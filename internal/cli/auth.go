package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2beens/fitcourses/internal/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type authCommands struct {
	app      *app
	password string
}

func newAuthCmd(a *app) *cobra.Command {
	ac := &authCommands{app: a}
	cmd := &cobra.Command{Use: "auth", Short: "Session commands"}

	login := &cobra.Command{Use: "login <email>", Short: "Log in and keep the session", Args: cobra.ExactArgs(1), RunE: ac.login}
	login.Flags().StringVar(&ac.password, "password", "", "password, prompted for when empty")
	register := &cobra.Command{Use: "register <email>", Short: "Create an account", Args: cobra.ExactArgs(1), RunE: ac.register}
	register.Flags().StringVar(&ac.password, "password", "", "password, prompted for when empty")

	cmd.AddCommand(login, register)
	cmd.AddCommand(&cobra.Command{Use: "logout", Short: "Forget the session", Args: cobra.NoArgs, RunE: ac.logout})
	cmd.AddCommand(&cobra.Command{Use: "status", Short: "Show the session state", Args: cobra.NoArgs, RunE: ac.status})
	return cmd
}

func (ac *authCommands) login(cmd *cobra.Command, args []string) error {
	password, err := ac.readPassword(cmd)
	if err != nil {
		return err
	}
	return printAuthResult(cmd, ac.app.client.Auth.Login(cmd.Context(), strings.TrimSpace(args[0]), password))
}

func (ac *authCommands) register(cmd *cobra.Command, args []string) error {
	password, err := ac.readPassword(cmd)
	if err != nil {
		return err
	}
	return printAuthResult(cmd, ac.app.client.Auth.Register(cmd.Context(), strings.TrimSpace(args[0]), password))
}

func (ac *authCommands) logout(cmd *cobra.Command, _ []string) error {
	if err := ac.app.client.Auth.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}

func (ac *authCommands) status(cmd *cobra.Command, _ []string) error {
	status := ac.app.client.Auth.CheckAuthStatus(cmd.Context())
	// the token is a credential
	status.Token = ""
	return printJSON(cmd, status)
}

func (ac *authCommands) readPassword(cmd *cobra.Command) (string, error) {
	if ac.password != "" {
		return ac.password, nil
	}
	return promptPassword(cmd, "Password: ")
}

func printAuthResult(cmd *cobra.Command, res *auth.AuthResult) error {
	res.Token = ""
	if err := printJSON(cmd, res); err != nil {
		return err
	}
	if !res.Success {
		return ErrCommandFailed
	}
	return nil
}

// promptPassword reads without echo from a terminal, or a single line from
// any other input.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	defer fmt.Fprintln(cmd.ErrOrStderr())

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pass, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pass), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
