// Package di wires the application together. Providers are consumed
// by wire; wire_gen.go holds the generated initializer.
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/commands"
	cmdbus "github.com/Asadaligondal/Identity-Compass/application/commands/bus"
	cmdhandlers "github.com/Asadaligondal/Identity-Compass/application/commands/handlers"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/application/queries"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	queryhandlers "github.com/Asadaligondal/Identity-Compass/application/queries/handlers"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/classification"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/messaging/eventbridge"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/persistence/dynamodb"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/persistence/memory"
	"github.com/Asadaligondal/Identity-Compass/interfaces/http/rest"
	resthandlers "github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/handlers"
	restmiddleware "github.com/Asadaligondal/Identity-Compass/interfaces/http/rest/middleware"
	"github.com/Asadaligondal/Identity-Compass/pkg/auth"
	"github.com/Asadaligondal/Identity-Compass/pkg/observability"
)

// ProvideLogger builds the logger for the configured environment.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig loads the AWS SDK configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient creates the DynamoDB client.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates the EventBridge client.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventRepository selects the event store. Development runs on
// the in-memory store so the API works without AWS credentials.
func ProvideEventRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EventRepository {
	if cfg.IsDevelopment() {
		return memory.NewEventRepository()
	}
	return dynamodb.NewEventRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideConnectionRepository selects the connection store.
func ProvideConnectionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ConnectionRepository {
	if cfg.IsDevelopment() {
		return memory.NewConnectionRepository()
	}
	return dynamodb.NewConnectionRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideTagMappingRepository selects the mapping store.
func ProvideTagMappingRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.TagMappingRepository {
	if cfg.IsDevelopment() {
		return memory.NewTagMappingRepository()
	}
	return dynamodb.NewTagMappingRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideEventPublisher selects the domain event publisher.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.IsDevelopment() {
		return memory.NewEventPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideClassifier selects the classification oracle. Without an API
// key the keyword-driven mock serves local development and tests.
func ProvideClassifier(cfg *config.Config, logger *zap.Logger) ports.Classifier {
	if cfg.OpenAIAPIKey == "" {
		logger.Info("no OpenAI key configured, using keyword classifier")
		return classification.NewMockClassifier()
	}
	return classification.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
}

// ProvideMetrics creates the Prometheus collectors.
func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

// ProvideCache creates the query cache.
func ProvideCache() ports.Cache {
	return NewInMemoryCache()
}

// Typed handler providers. The HTTP layer uses some of these directly
// when a response needs the handler's result.

func ProvideRecordEntryHandler(
	eventRepo ports.EventRepository,
	connRepo ports.ConnectionRepository,
	mappingRepo ports.TagMappingRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.RecordEntryHandler {
	return cmdhandlers.NewRecordEntryHandler(eventRepo, connRepo, mappingRepo, publisher, logger)
}

func ProvideUpdateEntryHandler(
	eventRepo ports.EventRepository,
	connRepo ports.ConnectionRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.UpdateEntryHandler {
	return cmdhandlers.NewUpdateEntryHandler(eventRepo, connRepo, publisher, logger)
}

func ProvideImportHistoryHandler(
	eventRepo ports.EventRepository,
	mappingRepo ports.TagMappingRepository,
	classifier ports.Classifier,
	publisher ports.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *cmdhandlers.ImportHistoryHandler {
	handler := cmdhandlers.NewImportHistoryHandler(eventRepo, mappingRepo, classifier, publisher, logger)
	handler.SetTemporalWindow(cfg.TemporalWindow())
	return handler
}

func ProvideUpdateTagMappingHandler(
	mappingRepo ports.TagMappingRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *cmdhandlers.UpdateTagMappingHandler {
	return cmdhandlers.NewUpdateTagMappingHandler(mappingRepo, publisher, logger)
}

// CommandHandlerAdapter adapts a typed handler to the generic bus
// interface.
type CommandHandlerAdapter struct {
	handler func(context.Context, cmdbus.Command) error
}

// Handle implements cmdbus.CommandHandler.
func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd cmdbus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus registers every command handler, each wrapped in
// the logging and metrics pipeline.
func ProvideCommandBus(
	recordHandler *cmdhandlers.RecordEntryHandler,
	updateHandler *cmdhandlers.UpdateEntryHandler,
	importHandler *cmdhandlers.ImportHistoryHandler,
	mappingHandler *cmdhandlers.UpdateTagMappingHandler,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*cmdbus.CommandBus, error) {
	commandBus := cmdbus.NewCommandBus()
	pipeline := cmdbus.NewPipeline(
		cmdbus.LoggingMiddleware(logger),
		cmdbus.MetricsMiddleware(metrics),
	)

	register := func(cmdType cmdbus.Command, handler cmdbus.CommandHandler) error {
		return commandBus.Register(cmdType, pipeline.Execute(handler))
	}

	if err := register(commands.RecordEntryCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd cmdbus.Command) error {
			recordCmd, ok := cmd.(commands.RecordEntryCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := recordHandler.Handle(ctx, recordCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	if err := register(commands.UpdateEntryCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd cmdbus.Command) error {
			updateCmd, ok := cmd.(commands.UpdateEntryCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := updateHandler.Handle(ctx, updateCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	if err := register(commands.ImportHistoryCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd cmdbus.Command) error {
			importCmd, ok := cmd.(commands.ImportHistoryCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := importHandler.Handle(ctx, importCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	if err := register(commands.UpdateTagMappingCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd cmdbus.Command) error {
			mappingCmd, ok := cmd.(commands.UpdateTagMappingCommand)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			_, err := mappingHandler.Handle(ctx, mappingCmd)
			return err
		},
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts a typed handler to the generic bus
// interface.
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler.
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus registers every query handler behind the metrics
// and caching middleware.
func ProvideQueryBus(
	eventRepo ports.EventRepository,
	connRepo ports.ConnectionRepository,
	mappingRepo ports.TagMappingRepository,
	cache ports.Cache,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, cfg.QueryCacheTTLSeconds)
	counting := querybus.NewMetricsMiddleware(metrics)

	wrap := func(handler querybus.QueryHandler) querybus.QueryHandler {
		return counting.Wrap(caching.Wrap(handler))
	}

	graphDataHandler := queryhandlers.NewGetGraphDataHandler(eventRepo, mappingRepo, logger)
	if err := queryBus.Register(queries.GetGraphDataQuery{}, wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetGraphDataQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return graphDataHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	connectionsHandler := queryhandlers.NewGetConnectionsHandler(connRepo, logger)
	if err := queryBus.Register(queries.GetConnectionsQuery{}, wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetConnectionsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return connectionsHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	trajectoryHandler := queryhandlers.NewGetTrajectoryHandler(eventRepo, mappingRepo, logger)
	if err := queryBus.Register(queries.GetTrajectoryQuery{}, wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetTrajectoryQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return trajectoryHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	trendsHandler := queryhandlers.NewGetTrendsHandler(eventRepo, mappingRepo, logger)
	if err := queryBus.Register(queries.GetTrendsQuery{}, wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetTrendsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return trendsHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	// Listings bypass the cache so a freshly recorded entry shows up
	// immediately.
	listEntriesHandler := queryhandlers.NewListEntriesHandler(eventRepo, logger)
	if err := queryBus.Register(queries.ListEntriesQuery{}, counting.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListEntriesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return listEntriesHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	tagMappingsHandler := queryhandlers.NewGetTagMappingsHandler(mappingRepo, logger)
	if err := queryBus.Register(queries.GetTagMappingsQuery{}, counting.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetTagMappingsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return tagMappingsHandler.Handle(ctx, q)
		},
	})); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideAuthenticator builds the auth middleware. Development without
// a secret falls back to header identification.
func ProvideAuthenticator(cfg *config.Config, logger *zap.Logger) (*restmiddleware.Authenticator, error) {
	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		v, err := auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		validator = v
	} else if !cfg.IsDevelopment() {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}
	return restmiddleware.NewAuthenticator(validator, cfg.IsDevelopment(), logger), nil
}

// ProvideRouter assembles the HTTP API.
func ProvideRouter(
	cfg *config.Config,
	authenticator *restmiddleware.Authenticator,
	metrics *observability.Metrics,
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	importHandler *cmdhandlers.ImportHistoryHandler,
	mappingHandler *cmdhandlers.UpdateTagMappingHandler,
	logger *zap.Logger,
) *chi.Mux {
	return rest.NewRouter(
		rest.RouterConfig{
			EnableCORS:    cfg.EnableCORS,
			EnableMetrics: cfg.EnableMetrics,
		},
		authenticator,
		metrics,
		resthandlers.NewEntryHandler(commandBus, queryBus, logger),
		resthandlers.NewImportHandler(importHandler, logger),
		resthandlers.NewGraphHandler(queryBus, cfg.GraphMinFrequency, cfg.GraphNodeCap, logger),
		resthandlers.NewInsightHandler(queryBus, cfg.TrajectoryWindowDays, logger),
		resthandlers.NewMappingHandler(mappingHandler, queryBus, logger),
		logger,
	)
}
