package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/hotelluxe-backend/database"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/config"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/services"
	"github.com/Ananth-NQI/hotelluxe-backend/internal/storage"
)

const (
	appName        = "Hotel Luxe Backend"
	appVersion     = "1.0.0"
	flagPort       = "port"
	flagDatabase   = "database-url"
	flagUsername   = "username"
	flagPassword   = "password"
	configKeyPort  = "port"
	configKeyDBURL = "database_url"
)

func main() {
	config.LoadDotEnv()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hotelluxe: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfg *config.Config

	loadConfig := func(cmd *cobra.Command, _ []string) error {
		if err := v.BindPFlag(configKeyPort, cmd.Flags().Lookup(flagPort)); err != nil {
			return err
		}
		if err := v.BindPFlag(configKeyDBURL, cmd.Flags().Lookup(flagDatabase)); err != nil {
			return err
		}
		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	}

	serve := func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return withRuntime(cfg, func(logger *zap.Logger, db *gorm.DB) error {
			return runServer(ctx, cfg, logger, db)
		})
	}

	root := &cobra.Command{
		Use:               "hotelluxe",
		Short:             appName,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
		RunE:              serve,
	}
	root.PersistentFlags().String(flagPort, "", "HTTP listen port (overrides PORT)")
	root.PersistentFlags().String(flagDatabase, "", "database URL, postgres:// or sqlite:// (overrides DATABASE_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cfg, func(logger *zap.Logger, db *gorm.DB) error {
				return database.Migrate(db, logger)
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert the default room catalogue into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cfg, func(logger *zap.Logger, db *gorm.DB) error {
				if err := database.Migrate(db, logger); err != nil {
					return err
				}
				_, err := database.SeedRooms(db, logger)
				return err
			})
		},
	})

	root.AddCommand(newAdminCommand(func() *config.Config { return cfg }))
	return root
}

func newAdminCommand(cfg func() *config.Config) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard operators",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin or reset its password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString(flagUsername)
			password, _ := cmd.Flags().GetString(flagPassword)
			return withRuntime(cfg(), func(logger *zap.Logger, db *gorm.DB) error {
				if err := database.Migrate(db, logger); err != nil {
					return err
				}
				store := storage.NewDatabaseStore(db)
				tokens := services.NewTokenService(cfg().JWTSecret, cfg().JWTTTL)
				admins := services.NewAdminService(store, tokens, logger)
				created, err := admins.EnsureAdmin(context.Background(), username, password)
				if err != nil {
					return err
				}
				logger.Info("✅ admin saved", zap.String("username", created.Username))
				return nil
			})
		},
	}
	create.Flags().String(flagUsername, "admin", "admin username")
	create.Flags().String(flagPassword, "", "admin password (at least 8 characters)")
	_ = create.MarkFlagRequired(flagPassword)

	admin.AddCommand(create)
	return admin
}

// withRuntime builds the logger and database connection shared by every
// command and releases them afterwards.
func withRuntime(cfg *config.Config, fn func(logger *zap.Logger, db *gorm.DB) error) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.ResolvedDatabaseURL(), logger)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("database close failed", zap.Error(err))
		}
	}()

	return fn(logger, db)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
