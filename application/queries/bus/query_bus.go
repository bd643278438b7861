// Package bus dispatches read-only queries to their handlers and
// carries the read-path middleware (caching, metrics).
package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Query represents a read-only request.
type Query interface {
	Validate() error
}

// QueryHandler handles one query type.
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc adapts a function to QueryHandler.
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler.
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// QueryBus routes queries by concrete type.
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	mu       sync.RWMutex
}

// NewQueryBus creates an empty bus.
func NewQueryBus() *QueryBus {
	return &QueryBus{handlers: make(map[reflect.Type]QueryHandler)}
}

// Register binds a handler to a query type.
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}
	b.handlers[t] = handler
	return nil
}

// Ask validates and dispatches the query, returning its result.
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no handler registered for query type %T", query)
	}
	return handler.Handle(ctx, query)
}

// Cache is the minimal cache surface the middleware needs.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}

// CachingMiddleware caches query results keyed by the query's type
// and field values. TTL is in seconds.
type CachingMiddleware struct {
	cache Cache
	ttl   int
}

// NewCachingMiddleware creates the middleware.
func NewCachingMiddleware(cache Cache, ttl int) *CachingMiddleware {
	return &CachingMiddleware{cache: cache, ttl: ttl}
}

// Wrap adds caching around a handler.
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		key := fmt.Sprintf("%T:%+v", query, query)
		if cached, found := m.cache.Get(ctx, key); found {
			return cached, nil
		}
		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}
		m.cache.Set(ctx, key, result, m.ttl)
		return result, nil
	})
}

// Metrics is the minimal metrics surface the middleware needs.
type Metrics interface {
	ObserveQuery(queryType string, success bool)
}

// MetricsMiddleware counts query executions and failures.
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates the middleware.
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

// Wrap adds metrics around a handler.
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		queryType := reflect.TypeOf(query).Name()
		result, err := next.Handle(ctx, query)
		m.metrics.ObserveQuery(queryType, err == nil)
		return result, err
	})
}
