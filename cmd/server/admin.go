package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/fleet-scheduling/internal/database"
	"github.com/iliyamo/fleet-scheduling/internal/database/migrations"
	"github.com/iliyamo/fleet-scheduling/internal/model"
	"github.com/iliyamo/fleet-scheduling/internal/queue"
	"github.com/iliyamo/fleet-scheduling/internal/repository"
	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
	"github.com/iliyamo/fleet-scheduling/internal/utils"
)

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, lg, err := bootstrap("migrate")
	if err != nil {
		return err
	}
	defer lg.Close()

	if err := migrations.MigrateUp(database.Options(cfg)); err != nil {
		return err
	}
	v, err := migrations.LatestVersion()
	if err != nil {
		return err
	}
	lg.Info("database migrated", "version", v)
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	username = strings.TrimSpace(username)
	if !scheduling.ValidUsername(username) {
		return fmt.Errorf("username %q is malformed", username)
	}

	cfg, lg, err := bootstrap("create-admin")
	if err != nil {
		return err
	}
	defer lg.Close()

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	db, err := database.Open(database.Options(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u := model.User{
		ID:           repository.UUIDGenerator{}.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := repository.NewUserRepo(db).Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return fmt.Errorf("username %s is taken", username)
		}
		return err
	}
	lg.Info("admin created", "id", u.ID, "username", u.Username)
	return nil
}

func runConsumer(cmd *cobra.Command, args []string) error {
	cfg, lg, err := bootstrap("consumer")
	if err != nil {
		return err
	}
	defer lg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = queue.StartConsumer(ctx, cfg.Events.AMQPURL, cfg.Events.AuditLogDir, lg.Logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
