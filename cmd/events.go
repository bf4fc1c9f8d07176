/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/devlink-social/apiserver/config"
	"github.com/devlink-social/apiserver/internal/mq"
	"github.com/devlink-social/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the activity event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print activity events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		backend, err := mq.NewBackend(cmd.Context(), cfg.MQ)
		if err != nil {
			return fmt.Errorf("connect to broker failed: %w", err)
		}
		if backend == nil {
			return errors.New("MQ_BACKEND is not configured")
		}
		defer func() {
			_ = backend.Close()
		}()

		return backend.Subscribe(cmd.Context(), services.ActivityChannel, func(ctx context.Context, msg mq.Message) error {
			fmt.Printf("%s %s\n", msg.Attributes["event"], msg.Data)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
