//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"skilltree/application/ports"
	"skilltree/infrastructure/config"
	"skilltree/infrastructure/llm"
	"skilltree/infrastructure/persistence/memory"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideMetrics,
	ProvideSessionStore,
	wire.Bind(new(ports.SessionStore), new(*memory.InMemorySessionStore)),
	ProvideGroqClient,
	wire.Bind(new(ports.CompletionClient), new(*llm.GroqClient)),
	ProvideRelayService,
	ProvideSuggestionService,
	ProvideSessionService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
