package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/cache"
	"github.com/yukikurage/business-management-api/internal/config"
	"github.com/yukikurage/business-management-api/internal/constants"
	"github.com/yukikurage/business-management-api/internal/database"
	"github.com/yukikurage/business-management-api/internal/logger"
	"github.com/yukikurage/business-management-api/internal/notify"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	cfg *config.Config
	log *zap.Logger
}

func load(envFile string) (*app, error) {
	var files []string
	if envFile != "" {
		files = []string{envFile}
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) database() (*gorm.DB, error) {
	return database.Connect(a.cfg.Database, a.log)
}

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(*envFile)
			if err != nil {
				return err
			}
			db, err := a.database()
			if err != nil {
				return err
			}
			return database.Migrate(db, a.log)
		},
	}
}

func newSeedCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the static roles and permissions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(*envFile)
			if err != nil {
				return err
			}
			db, err := a.database()
			if err != nil {
				return err
			}
			if err := database.Seed(db); err != nil {
				return err
			}
			a.log.Info("roles and permissions seeded")
			return nil
		},
	}
}

func newCreateSuperuserCmd(envFile *string) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create or promote the superuser account",
		Long:  "Flags override SUPERUSER_USERNAME, SUPERUSER_EMAIL and SUPERUSER_PASSWORD.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(*envFile)
			if err != nil {
				return err
			}
			su := a.cfg.Superuser
			if username != "" {
				su.Username = username
			}
			if email != "" {
				su.Email = email
			}
			if password != "" {
				su.Password = password
			}

			db, err := a.database()
			if err != nil {
				return err
			}
			if err := database.Seed(db); err != nil {
				return err
			}

			jwt := a.cfg.JWT
			tokens := auth.NewTokenManager(jwt.Secret, jwt.Issuer, jwt.AccessTokenTTL, jwt.RefreshTokenTTL, jwt.ResetTokenTTL)
			svc := services.NewAuthService(repository.New(db), tokens, auth.NewHasher(0), cache.NewMemoryCache(), a.log)
			user, err := svc.CreateSuperuser(cmd.Context(), su.Username, su.Email, su.Password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "superuser %s (id %d) is ready\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "superuser name")
	cmd.Flags().StringVar(&email, "email", "", "superuser email")
	cmd.Flags().StringVar(&password, "password", "", "superuser password")
	return cmd
}

func newWorkerCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued invitation emails",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(*envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rdb, err := cache.NewRedisClient(ctx, a.cfg.RedisURL)
			if err != nil {
				return err
			}
			defer rdb.Close()

			smtp := a.cfg.SMTP
			mailer := notify.NewSMTPMailer(notify.SMTPConfig{
				Host:     smtp.Host,
				Port:     smtp.Port,
				Username: smtp.User,
				Password: smtp.Password,
				From:     smtp.From,
			}, a.cfg.AddressURL)

			worker := notify.NewWorker(notify.NewRedisQueue(rdb, constants.InvitationQueueKey), mailer, a.log)
			return worker.Run(ctx)
		},
	}
}
