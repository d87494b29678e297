package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storefront/internal/app"
	"storefront/internal/domain"
	"storefront/internal/logging"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type createAdminOptions struct {
	name     string
	email    string
	password string
}

func newCreateAdminCmd() *cobra.Command {
	var opts createAdminOptions
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			if opts.email == "" {
				opts.email = cfg.AdminEmail
			}
			logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

			st, closeStore, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			return createAdmin(cmd.Context(), st, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "Admin", "Display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Login email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func createAdmin(ctx context.Context, users domain.UserRepository, opts createAdminOptions, in io.Reader, out io.Writer) error {
	password := opts.password
	if password == "" {
		pw, err := promptPassword(in, out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = pw
	}

	svc := app.NewAuthService(users, app.BcryptHasher{}, nil, nil)
	u, err := svc.CreateAdmin(ctx, opts.name, opts.email, password)
	if errors.Is(err, app.ErrUserExists) {
		return fmt.Errorf("an account for %s already exists", opts.email)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created admin %s (%s)\n", u.Email, u.ID)
	return nil
}

// promptPassword reads without echo from a terminal and falls back to a
// plain line read when stdin is not one.
func promptPassword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
