package fx

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"exile-tracker/internal/config"
	"exile-tracker/internal/database"
	"exile-tracker/internal/domain"
	"exile-tracker/internal/engine"
	"exile-tracker/internal/item"
	"exile-tracker/internal/logger"
	"exile-tracker/internal/pob"
	"exile-tracker/internal/ranking"
	"exile-tracker/internal/repository"
	"exile-tracker/internal/server"
	"exile-tracker/internal/service"
	"exile-tracker/internal/session"
	"exile-tracker/internal/trade"
)

// ProvideSessionStore picks Redis when configured, process memory
// otherwise.
func ProvideSessionStore(cfg *config.Config, log zerolog.Logger) session.Store {
	if cfg.RedisAddr != "" {
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis session store")
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(rdb, cfg.SessionTTL)
	}
	log.Info().Msg("using in-memory session store")
	return session.NewMemoryStore(cfg.SessionTTL)
}

// ProvideEngines wires one calculation bridge per game. Games without
// a configured engine path fall back to zeroed stats.
func ProvideEngines(cfg *config.Config, log zerolog.Logger) engine.Registry {
	return engine.Registry{
		domain.GamePoE1: engine.NewHeadlessBridge(cfg.EnginePathPoE1, cfg.RunnerPath, log),
		domain.GamePoE2: engine.NewHeadlessBridge(cfg.EnginePathPoE2, cfg.RunnerPath, log),
	}
}

func ProvideBuildService(importer *pob.Importer, engines engine.Registry, store session.Store, cfg *config.Config, log zerolog.Logger) *service.BuildService {
	return service.NewBuildService(importer, engines, store, cfg.EngineTimeout, log)
}

func ProvideUpgradeService(tradeClient *trade.Client, store session.Store, cfg *config.Config, log zerolog.Logger) *service.UpgradeService {
	return service.NewUpgradeService(tradeClient, store, cfg.League, log)
}

// applyWeightOverrides overlays the optional weights file onto the
// built-in stat weight table at startup.
func applyWeightOverrides(cfg *config.Config, log zerolog.Logger) error {
	if cfg.WeightsFile == "" {
		return nil
	}
	overrides, err := ranking.LoadWeightsFile(cfg.WeightsFile)
	if err != nil {
		return err
	}
	for key, w := range overrides {
		ranking.DefaultWeights[key] = w
	}
	log.Info().Str("file", cfg.WeightsFile).Int("overrides", len(overrides)).Msg("stat weights overridden")
	return nil
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// item pipeline
	fx.Provide(item.NewNormalizer),
	fx.Provide(pob.NewImporter),
	// engine bridges and session storage
	fx.Provide(ProvideEngines),
	fx.Provide(ProvideSessionStore),
	// trade site client
	fx.Provide(trade.NewClient),
	// repos
	fx.Provide(repository.NewPresetRepository),
	// svc
	fx.Provide(ProvideBuildService),
	fx.Provide(ProvideUpgradeService),
	fx.Provide(service.NewPresetService),
	// server
	fx.Provide(server.New),
	fx.Invoke(applyWeightOverrides),
)
