package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/validate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type ctlConfig struct {
	Database postgres.DB
	Log      logger.Log
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Administration tool for the library service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newUserCmd())
	return root
}

func loadConfig() (ctlConfig, error) {
	var cfg ctlConfig
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func connect(ctx context.Context) (*pgxpool.Pool, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewLogger(cfg.Log, "libctl")
	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return pool, log, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			return postgres.Migrate(pool, migrations.MigrationFiles, args[0])
		},
	}
}

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var req model.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account, prompting for its password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			req.Password = password
			if err := validate.NewCustomValidator().Validate(&req); err != nil {
				for field, msgs := range validate.FieldErrors(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, strings.Join(msgs, " "))
				}
				return fmt.Errorf("invalid user")
			}

			pool, log, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			repo, err := repository.NewRepository(pool, log)
			if err != nil {
				return err
			}
			svc := service.NewService(repo, nil, service.Config{}, log)
			user, err := svc.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s #%d <%s>\n", user.Role, user.ID, user.Email)
			return nil
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "display name")
	create.Flags().StringVar(&req.Email, "email", "", "login email")
	create.Flags().StringVar(&req.Role, "role", auth.RoleAdmin, "admin, librarian or student")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")

	userCmd.AddCommand(create)
	return userCmd
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}
