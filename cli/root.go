package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vehicle-tax/config"
	"vehicle-tax/logger"
	"vehicle-tax/rates"
	"vehicle-tax/repository"
	"vehicle-tax/service"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is what every subcommand needs, built once from the environment.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	tables *rates.RateTables
}

func newRootCmd() *cobra.Command {
	var envFile string
	a := &app{}

	cmd := &cobra.Command{
		Use:          "vehicle-tax",
		Short:        "Karnataka lifetime road-tax estimator for re-registered vehicles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			// Level and format are only known after reading the env.
			bootstrap := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL"), Output: cmd.ErrOrStderr()})
			a.cfg = config.FromEnv(bootstrap)
			a.logger = logger.New(logger.Config{Level: a.cfg.LogLevel, Pretty: a.cfg.LogPretty, Output: cmd.ErrOrStderr()})

			tables, err := rates.Load(a.cfg.TablesPath)
			if err != nil {
				a.logger.Error().Err(err).Str("path", a.cfg.TablesPath).Msg("load tax tables")
				return err
			}
			a.tables = tables
			a.logger.Debug().Str("tables", tables.Name()).Msg("tax tables loaded")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to seed the environment")
	cmd.AddCommand(newServeCmd(a), newEstimateCmd(a))
	return cmd
}

// newTaxService wires the explainer and its cache. The returned closer
// releases the cache connection.
func (a *app) newTaxService() (*service.TaxService, repository.CacheRepository, func() error) {
	var (
		cache  repository.CacheRepository
		closer = func() error { return nil }
	)
	if a.cfg.RedisAddr != "" {
		rc := repository.NewRedisCache(a.cfg.RedisAddr, a.logger)
		cache, closer = rc, rc.Close
	} else {
		cache = repository.NewMemoryCache()
	}

	ai := service.NewAIService(service.AIConfig{
		APIKey:  a.cfg.AIAPIKey,
		URL:     a.cfg.AIURL,
		Model:   a.cfg.AIModel,
		Timeout: a.cfg.AITimeout,
	}, a.logger)

	svc := service.NewTaxService(a.tables, a.logger, service.WithExplainer(ai, cache, a.cfg.CacheTTL))
	return svc, cache, closer
}
