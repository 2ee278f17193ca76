package main

import (
	"errors"
	"fmt"
	"os"

	"cnadmin/internal/config"
	"cnadmin/internal/db"
	"cnadmin/internal/user"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the cnadmin database schema",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := db.IgnoreNoChange(m.Up()); err != nil {
				return fmt.Errorf("migrate up failed: %w", err)
			}
			return nil
		})
	},
}

var downSteps int

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (all of them unless --steps is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			var err error
			if downSteps > 0 {
				err = m.Steps(-downSteps)
			} else {
				err = m.Down()
			}
			if err := db.IgnoreNoChange(err); err != nil {
				return fmt.Errorf("migrate down failed: %w", err)
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

var (
	adminUsername string
	adminNickname string
	adminPassword string
	adminReset    bool
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a login account, or reset its password with --reset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("ADMIN_PASSWORD")
		}
		if adminPassword == "" {
			return errors.New("password is required (--password or ADMIN_PASSWORD)")
		}

		cfg := config.Load()
		database := db.Init(&cfg.DB)
		defer database.Close()

		svc := user.NewUserService(user.NewUserRepository(), database)
		if adminReset {
			if err := svc.ResetPassword(cmd.Context(), adminUsername, adminPassword); err != nil {
				return fmt.Errorf("reset password: %w", err)
			}
			logrus.WithField("username", adminUsername).Info("Password reset")
			return nil
		}

		id, err := svc.CreateUser(cmd.Context(), adminUsername, adminNickname, adminPassword)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		logrus.WithFields(logrus.Fields{"user_id": id, "username": adminUsername}).Info("Account created")
		return nil
	},
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.Load()
	m, err := db.NewMigrator(db.MigrationURL(&cfg.DB))
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logrus.WithFields(logrus.Fields{"source": srcErr, "database": dbErr}).Warn("Failed to close migrator")
		}
	}()
	return fn(m)
}

func init() {
	downCmd.Flags().IntVar(&downSteps, "steps", 0, "number of migrations to roll back")

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "login name")
	createAdminCmd.Flags().StringVar(&adminNickname, "nickname", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (defaults to $ADMIN_PASSWORD)")
	createAdminCmd.Flags().BoolVar(&adminReset, "reset", false, "reset the password of an existing account")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, createAdminCmd)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
