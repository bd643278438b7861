package di

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	cmdbus "github.com/Asadaligondal/Identity-Compass/application/commands/bus"
	cmdhandlers "github.com/Asadaligondal/Identity-Compass/application/commands/handlers"
	"github.com/Asadaligondal/Identity-Compass/application/ports"
	querybus "github.com/Asadaligondal/Identity-Compass/application/queries/bus"
	"github.com/Asadaligondal/Identity-Compass/infrastructure/config"
	"github.com/Asadaligondal/Identity-Compass/pkg/observability"
)

// Container holds the application's wired dependencies.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	EventRepo   ports.EventRepository
	ConnRepo    ports.ConnectionRepository
	MappingRepo ports.TagMappingRepository
	Publisher   ports.EventPublisher
	Classifier  ports.Classifier
	Cache       ports.Cache
	Metrics     *observability.Metrics
	CommandBus  *cmdbus.CommandBus
	QueryBus    *querybus.QueryBus

	ImportHandler        *cmdhandlers.ImportHistoryHandler
	UpdateMappingHandler *cmdhandlers.UpdateTagMappingHandler

	Router *chi.Mux
}
