package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/config"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/logging"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/notices"
	"github.com/MarcoPoloResearchLab/gripmetrics/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	rootCmd := newRootCommand(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	viper   *viper.Viper
	cfgFile string
	out     io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{viper: config.NewViper(), out: out}

	rootCmd := &cobra.Command{
		Use:          "gripmetrics",
		Short:        "GripMetrics training log",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	c.setupFlags(rootCmd)

	rootCmd.AddCommand(
		c.serveCommand(),
		c.exportCommand(),
		c.importCommand(),
		c.clearCommand(),
		c.statsCommand(),
		c.workoutsCommand(),
	)
	return rootCmd
}

func (c *cli) setupFlags(cmd *cobra.Command) {
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("id-strategy", defaults.GetString("ids.strategy"), "Record id strategy (base36, uuid)")

	c.bindFlag(cmd.PersistentFlags(), "database.path", "database-path")
	c.bindFlag(cmd.PersistentFlags(), "log.level", "log-level")
	c.bindFlag(cmd.PersistentFlags(), "ids.strategy", "id-strategy")
}

func (c *cli) bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := c.viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func (c *cli) initConfig() error {
	if c.cfgFile == "" {
		return nil
	}
	c.viper.SetConfigFile(c.cfgFile)
	if err := c.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", c.cfgFile, err)
	}
	return nil
}

func (c *cli) load() (config.AppConfig, error) {
	return config.Load(c.viper)
}

func (c *cli) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServer(cmd.Context())
		},
	}
	defaults := config.NewViper()
	cmd.Flags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.Flags().StringSlice("allowed-origins", defaults.GetStringSlice("cors.allowed_origins"), "CORS allowed origins")
	c.bindFlag(cmd.Flags(), "http.address", "http-address")
	c.bindFlag(cmd.Flags(), "cors.allowed_origins", "allowed-origins")
	return cmd
}

func (c *cli) runServer(ctx context.Context) error {
	appConfig, err := c.load()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	dispatcher := notices.NewDispatcher()
	app, err := openApplication(appConfig, logger, notices.Multi(dispatcher, notices.LogNotifier{Logger: logger}))
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Training:       app.training,
		Store:          app.store,
		Exporter:       app.exporter,
		Notices:        dispatcher,
		Logger:         logger,
		AllowedOrigins: appConfig.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              appConfig.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
