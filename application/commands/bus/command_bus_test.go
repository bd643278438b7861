package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopCommand struct{}

func (noopCommand) Validate() error { return nil }

type recordedObservation struct {
	commandType string
	success     bool
}

type fakeMetrics struct {
	observed []recordedObservation
}

func (m *fakeMetrics) ObserveCommand(commandType string, success bool) {
	m.observed = append(m.observed, recordedObservation{commandType, success})
}

func TestCommandBusDispatch(t *testing.T) {
	ctx := context.Background()
	b := NewCommandBus()

	handled := false
	require.NoError(t, b.Register(noopCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		handled = true
		return nil
	})))

	require.NoError(t, b.Send(ctx, noopCommand{}))
	assert.True(t, handled)

	err := b.Register(noopCommand{}, CommandHandlerFunc(func(context.Context, Command) error { return nil }))
	assert.Error(t, err, "double registration is a wiring bug")
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	metrics := &fakeMetrics{}
	pipeline := NewPipeline(LoggingMiddleware(zap.NewNop()), MetricsMiddleware(metrics))

	boom := errors.New("boom")
	fail := true
	handler := pipeline.Execute(CommandHandlerFunc(func(context.Context, Command) error {
		if fail {
			return boom
		}
		return nil
	}))

	assert.ErrorIs(t, handler.Handle(ctx, noopCommand{}), boom)
	fail = false
	require.NoError(t, handler.Handle(ctx, noopCommand{}))

	require.Len(t, metrics.observed, 2)
	assert.Equal(t, recordedObservation{"noopCommand", false}, metrics.observed[0])
	assert.Equal(t, recordedObservation{"noopCommand", true}, metrics.observed[1])
}
