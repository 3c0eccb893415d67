package di

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skilltree/application/ports"
	"skilltree/application/services"
	"skilltree/infrastructure/config"
	"skilltree/infrastructure/llm"
	"skilltree/infrastructure/persistence/memory"
	"skilltree/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *zap.Logger
	LogLevel          zap.AtomicLevel
	Metrics           *observability.Collector
	SessionStore      ports.SessionStore
	UpstreamClient    *llm.GroqClient
	RelayService      *services.RelayService
	SuggestionService *services.SuggestionService
	SessionService    *services.SessionService
}

// ProvideLogLevel parses the configured level into an adjustable zap level
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, err
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideMetrics creates the metrics collector, or nil when metrics are disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("skilltree")
}

// ProvideSessionStore creates the in-memory session store and its cleanup
func ProvideSessionStore(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) (*memory.InMemorySessionStore, func()) {
	store := memory.NewInMemorySessionStore(cfg.SessionTTL, cfg.SessionSweepInterval, logger)
	metrics.TrackActiveSessions(store.Count)
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close session store", zap.Error(err))
		}
	}
}

// ProvideGroqClient creates the upstream chat-completion client
func ProvideGroqClient(cfg *config.Config, logger *zap.Logger) *llm.GroqClient {
	return llm.NewGroqClient(llm.ClientConfig{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Breaker: llm.DefaultCircuitBreakerConfig("groq"),
	}, logger)
}

// ProvideRelayService creates the relay service
func ProvideRelayService(
	client ports.CompletionClient,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.RelayService {
	return services.NewRelayService(client, cfg.GroqModel, logger, metrics)
}

// ProvideSuggestionService creates the label fetcher used by node additions
func ProvideSuggestionService(
	relay *services.RelayService,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.SuggestionService {
	return services.NewSuggestionService(relay, upstreamTimeout(cfg), logger, metrics)
}

// ProvideSessionService creates the session service. A queued add waits at
// most one upstream timeout before making its own upstream call.
func ProvideSessionService(
	store ports.SessionStore,
	suggestions *services.SuggestionService,
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
) *services.SessionService {
	return services.NewSessionService(store, suggestions, upstreamTimeout(cfg), logger, metrics)
}

func upstreamTimeout(cfg *config.Config) time.Duration {
	if cfg.UpstreamTimeout <= 0 {
		return 30 * time.Second
	}
	return cfg.UpstreamTimeout
}
