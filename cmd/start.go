package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rainbow-recipes/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Rainbow Recipes API
// @version 1.0
// @description Recipes, ingredient catalog and vendor listings.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var configPath string

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Rainbow Recipes server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(configPath)
		if err != nil {
			return err
		}
		defer rt.close()
		zap.ReplaceGlobals(rt.log)

		if rt.cfg.Auth.JWTSecret == "" {
			rt.log.Warn("No JWT secret configured; every bearer token will be rejected")
		}

		var store storage.Client
		if rt.cfg.Storage.Enabled {
			if store, err = storage.NewClient(rt.cfg.Storage); err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			rt.log.Info("Merge audit trail enabled", zap.String("bucket", rt.cfg.Storage.Bucket))
		}

		app, err := newApp(rt, store)
		if err != nil {
			return err
		}

		go func() {
			rt.log.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				rt.log.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		rt.log.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding the .env file")
	RootCmd.AddCommand(startCmd)
}
