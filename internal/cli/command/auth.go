package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/securenotes-go/internal/cli/api"
	"github.com/yndnr/securenotes-go/internal/core/domain"
	"github.com/yndnr/securenotes-go/pkg/token"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password (prompted when omitted)",
			EnvVars: []string{"SECURENOTES_PASSWORD"},
		},
	}
}

// SignupCommand returns the signup command.
func SignupCommand() *cli.Command {
	return &cli.Command{
		Name:   "signup",
		Usage:  "Create an account and log in",
		Flags:  credentialFlags(),
		Action: authSignup,
	}
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Log in and store the access token",
		Flags:  credentialFlags(),
		Action: authLogin,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the stored access token",
		Action: authLogout,
	}
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show session state and API address",
		Action: authStatus,
	}
}

func authSignup(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	creds, err := readCredentials(c, rt)
	if err != nil {
		return err
	}

	rt.authenticating = true
	defer func() { rt.authenticating = false }()

	ctx := c.Context
	resp, err := rt.API.Signup(ctx, creds)
	if err != nil {
		return rt.report("Signup failed", err, api.MsgSignupFailed)
	}

	// Servers that do not hand out tokens on signup get a follow-up login.
	if !resp.HasAccessToken() {
		resp, err = rt.API.Login(ctx, creds)
		if err != nil {
			return rt.report("Login failed", err, api.MsgLoginFailed)
		}
	}

	if err := rt.Session.Establish(resp.AccessToken); err != nil {
		return rt.report("Signup failed", err, api.MsgSignupFailed)
	}
	rt.Notices.Info("Account created", "Welcome to Secure Notes.")
	return nil
}

func authLogin(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	creds, err := readCredentials(c, rt)
	if err != nil {
		return err
	}

	rt.authenticating = true
	defer func() { rt.authenticating = false }()

	resp, err := rt.API.Login(c.Context, creds)
	if err != nil {
		return rt.report("Login failed", err, api.MsgLoginFailed)
	}
	if err := rt.Session.Establish(resp.AccessToken); err != nil {
		return rt.report("Login failed", err, api.MsgLoginFailed)
	}
	rt.Notices.Info("Welcome back", "You are now logged in.")
	return nil
}

func authLogout(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	rt.Session.End()
	rt.Notices.Info("Logged out", "You have been signed out.")
	return nil
}

// statusView is the status command's output.
type statusView struct {
	Session    string `json:"session" yaml:"session"`
	Credential string `json:"credential" yaml:"credential"`
	Server     string `json:"server" yaml:"server"`
	Storage    string `json:"storage" yaml:"storage"`
}

func authStatus(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	credential := "-"
	if tok, ok := rt.Tokens.Get(); ok {
		credential = token.Fingerprint(tok)
	}
	return rt.render(statusView{
		Session:    rt.Session.State().String(),
		Credential: credential,
		Server:     rt.HTTP.BaseURL(),
		Storage:    rt.Config.Storage.Backend,
	})
}

// readCredentials collects the email flag and the password, prompting
// for the password when it was not given.
func readCredentials(c *cli.Context, rt *Runtime) (domain.Credentials, error) {
	creds := domain.Credentials{
		Email:    c.String("email"),
		Password: c.String("password"),
	}
	if creds.Password != "" {
		return creds, nil
	}

	pw, err := readPassword(rt.In, c.App.ErrWriter, "Password: ")
	if err != nil {
		return creds, fmt.Errorf("read password: %w", err)
	}
	creds.Password = pw
	return creds, nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if in == nil {
		return "", io.EOF
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(in)
}

// readLine reads a single line without buffering past it.
func readLine(in io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			if sb.Len() == 0 {
				return "", err
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(rt *Runtime, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	if rt.In == nil {
		return false
	}
	answer, err := readLine(rt.In)
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
