//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
)

// SuperSet is the full provider set.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideEventRepository,
	ProvideConnectionRepository,
	ProvideTagMappingRepository,
	ProvideEventPublisher,
	ProvideClassifier,
	ProvideMetrics,
	ProvideCache,
	ProvideRecordEntryHandler,
	ProvideUpdateEntryHandler,
	ProvideImportHistoryHandler,
	ProvideUpdateTagMappingHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideAuthenticator,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // replaced by wire
}
