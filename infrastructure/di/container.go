//go:build !wireinject
// +build !wireinject

// Package di wires the application. This file is the hand-maintained
// counterpart of the injector in wire.go; keep the two in step.
package di

import (
	"skilltree/infrastructure/config"
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	atomicLevel, err := ProvideLogLevel(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger, err := ProvideLogger(cfg, atomicLevel)
	if err != nil {
		return nil, nil, err
	}
	collector := ProvideMetrics(cfg)
	inMemorySessionStore, cleanup := ProvideSessionStore(cfg, logger, collector)
	groqClient := ProvideGroqClient(cfg, logger)
	relayService := ProvideRelayService(groqClient, cfg, logger, collector)
	suggestionService := ProvideSuggestionService(relayService, cfg, logger, collector)
	sessionService := ProvideSessionService(inMemorySessionStore, suggestionService, cfg, logger, collector)
	container := &Container{
		Config:            cfg,
		Logger:            logger,
		LogLevel:          atomicLevel,
		Metrics:           collector,
		SessionStore:      inMemorySessionStore,
		UpstreamClient:    groqClient,
		RelayService:      relayService,
		SuggestionService: suggestionService,
		SessionService:    sessionService,
	}
	return container, func() {
		cleanup()
	}, nil
}
