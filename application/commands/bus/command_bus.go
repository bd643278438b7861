// Package bus dispatches commands to their registered handlers.
package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Command represents a state-changing request.
type Command interface {
	Validate() error
}

// CommandHandler handles one command type.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler.
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// ErrHandlerNotFound is returned when a command has no handler.
var ErrHandlerNotFound = errors.New("command handler not found")

// CommandBus routes commands by concrete type.
type CommandBus struct {
	handlers map[reflect.Type]CommandHandler
	mu       sync.RWMutex
}

// NewCommandBus creates an empty bus.
func NewCommandBus() *CommandBus {
	return &CommandBus{handlers: make(map[reflect.Type]CommandHandler)}
}

// Register binds a handler to a command type. Double registration is
// a wiring bug and fails loudly.
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}
	b.handlers[t] = handler
	return nil
}

// Send validates the command and dispatches it to its handler.
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %T", ErrHandlerNotFound, cmd)
	}
	return handler.Handle(ctx, cmd)
}

// Middleware wraps a handler with cross-cutting behavior.
type Middleware func(next CommandHandler) CommandHandler

// LoggingMiddleware logs every command execution and its outcome.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			cmdType := reflect.TypeOf(cmd).Name()
			err := next.Handle(ctx, cmd)
			if err != nil {
				logger.Error("command failed", zap.String("type", cmdType), zap.Error(err))
				return err
			}
			logger.Info("command executed", zap.String("type", cmdType))
			return nil
		})
	}
}

// Metrics is the minimal metrics surface the middleware needs.
type Metrics interface {
	ObserveCommand(commandType string, success bool)
}

// MetricsMiddleware counts command executions and failures.
func MetricsMiddleware(metrics Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			err := next.Handle(ctx, cmd)
			metrics.ObserveCommand(reflect.TypeOf(cmd).Name(), err == nil)
			return err
		})
	}
}

// Pipeline chains middleware around a handler, first listed outermost.
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline builds a middleware pipeline.
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Execute wraps the handler with the pipeline's middleware.
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}
