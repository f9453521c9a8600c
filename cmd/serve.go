package cmd

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/krevetko/job-scout/internal/api"
	"github.com/krevetko/job-scout/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultAddress = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the job-scout HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address (default is :8080 or server.address from the config)")
	viper.BindPFlag("address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-scout api", zap.String("version", version))

	orchestrator, err := buildOrchestrator(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the search pipeline", zap.Error(err))
	}

	address := viper.GetString("address")
	if address == "" && config.Server != nil {
		address = config.Server.Address
	}
	if address == "" {
		address = defaultAddress
	}

	server := &http.Server{
		Addr:              address,
		Handler:           api.NewServer(orchestrator, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", zap.String("address", address))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
