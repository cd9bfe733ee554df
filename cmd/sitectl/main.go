// cmd/sitectl/main.go
//
// sitectl – operator commands for a corpsite install.
//
//   sitectl migrate                              create or update tables
//   sitectl user add --username u --password p   bootstrap an account
//   sitectl config check                         load and validate config
//
// sitectl reads the same conf/site.yaml and CORPSITE_* environment as the
// web binary.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	_ "github.com/yanizio/corpsite/components/all"
	"github.com/yanizio/corpsite/internal/app"
	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/config"
	"github.com/yanizio/corpsite/internal/user"
)

var rootCmd = &cobra.Command{
	Use:           "sitectl",
	Short:         "Operate a corpsite installation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// migrateCmd applies every component's DDL.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Long: `Runs the CREATE TABLE IF NOT EXISTS statements of every component
against the configured database.  Safe to run repeatedly.`,
	RunE: runMigrate,
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage back-office accounts",
}

// userAddCmd creates an account without going through the admin API, which
// is the only way to obtain the first admin.
var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	Example: `  sitectl user add --username admin --password 'change-me-now'
  sitectl user add --username editor --password 'secret123' --role user`,
	RunE: runUserAdd,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate conf/site.yaml plus environment overrides",
	RunE:  runConfigCheck,
}

var (
	flagUsername string
	flagPassword string
	flagRole     string
)

func init() {
	userAddCmd.Flags().StringVar(&flagUsername, "username", "", "account name (required)")
	userAddCmd.Flags().StringVar(&flagPassword, "password", "", "plain-text password, at least 8 characters (required)")
	userAddCmd.Flags().StringVar(&flagRole, "role", auth.RoleAdmin, "admin or user")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(migrateCmd, userCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sitectl:", err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := app.Boot(cmd.Context(), app.Options{Console: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Migrate(cmd.Context(), component.All()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	a, err := app.Boot(cmd.Context(), app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := addUser(cmd.Context(), user.NewRepository(a.DB), flagUsername, flagPassword, flagRole, a.Config.Auth.BcryptCost)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %d)\n", u.Role, u.Username, u.ID)
	return nil
}

// accounts is the subset of user.Repository addUser needs.
type accounts interface {
	Create(ctx context.Context, username, hash, role string) (user.User, error)
}

func addUser(ctx context.Context, repo accounts, username, password, role string, cost int) (user.User, error) {
	switch {
	case username == "":
		return user.User{}, errors.New("username is required")
	case len(password) < 8:
		return user.User{}, errors.New("password must be at least 8 characters")
	case role != auth.RoleAdmin && role != auth.RoleUser:
		return user.User{}, fmt.Errorf("role must be %q or %q", auth.RoleAdmin, auth.RoleUser)
	}
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return user.User{}, err
	}
	return repo.Create(ctx, username, hash, role)
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "root:        %s\n", cfg.Paths.Root)
	fmt.Fprintf(out, "listen_addr: %s\n", cfg.HTTP.ListenAddr)
	fmt.Fprintf(out, "driver:      %s\n", cfg.Database.Driver)
	fmt.Fprintf(out, "orphans:     %s\n", cfg.Pages.Orphans)
	fmt.Fprintf(out, "nats:        %t\n", cfg.NATS.URL != "")
	fmt.Fprintf(out, "geoip:       %t\n", cfg.GeoIP.DB != "")
	fmt.Fprintln(out, "config ok")
	return nil
}
