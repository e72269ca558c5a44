package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	intlogger "github.com/tsavowest/ai-interviewer/internal/logger"
	"github.com/tsavowest/ai-interviewer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interview sessions over an HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "listen host")
	serveCmd.Flags().Int("port", 0, "listen port")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := intlogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	registry, err := resolveRegistry(config)
	if err != nil {
		logger.Fatal("invalid interview configuration", zap.Error(err))
	}

	gateway, err := newGateway(ctx, config, logger)
	if err != nil {
		logger.Fatal(
			"creating the completion gateway",
			zap.Error(err),
			zap.String("hint", "set the "+geminiKeyEnv+" environment variable or the ai.gemini section in the configuration file"),
		)
	}

	serverCfg := config.Server
	if serverCfg == nil {
		serverCfg = server.DefaultConfig()
	}
	if host := viper.GetString("server.host"); host != "" {
		serverCfg.Host = host
	}
	if port := viper.GetInt("server.port"); port != 0 {
		serverCfg.Port = port
	}
	serverCfg.Debug = viper.GetBool("debug")

	maxFollowups, policy := resolveEvaluation(config)

	srv, err := server.New(serverCfg, gateway, registry, policy, maxFollowups, logger)
	if err != nil {
		logger.Fatal("creating the interview server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("server stopped")
}
