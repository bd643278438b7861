// Package classification implements the classification oracle port:
// an OpenAI-backed classifier for production and a keyword mock for
// local development and tests.
package classification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Asadaligondal/Identity-Compass/application/ports"
	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
	pkgerrors "github.com/Asadaligondal/Identity-Compass/pkg/errors"
)

const systemPrompt = `You classify activity titles into life dimensions.
The only allowed labels are: career, spiritual, health, social, intellectual, entertainment.
Respond with a JSON array of labels, one per input title, in input order.
Respond with the JSON array only, no prose.`

// OpenAIClassifier calls the chat completion API behind a circuit
// breaker. Rate limits surface as ports.ErrRateLimited so callers can
// back off; every other failure is a plain external error.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewOpenAIClassifier creates the classifier.
func NewOpenAIClassifier(apiKey, model string, logger *zap.Logger) *OpenAIClassifier {
	if model == "" {
		model = openai.GPT4oMini
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai-classifier",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("classifier circuit state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &OpenAIClassifier{
		client:  openai.NewClient(apiKey),
		model:   model,
		breaker: breaker,
		logger:  logger,
	}
}

// Classify assigns one dimension per title. Labels outside the
// allowed set are coerced to Entertainment, never rejected.
func (c *OpenAIClassifier) Classify(ctx context.Context, titles []string) ([]valueobjects.Dimension, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	if len(titles) > ports.MaxClassifyBatch {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("classification batch exceeds %d titles", ports.MaxClassifyBatch))
	}

	payload, err := json.Marshal(titles)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to encode titles").WithCause(err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: 0,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: string(payload)},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %v", ports.ErrRateLimited, err)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ports.ErrRateLimited)
		}
		return nil, pkgerrors.NewExternalError("openai", err)
	}

	content, _ := result.(string)
	labels, err := parseLabels(content)
	if err != nil {
		return nil, pkgerrors.NewExternalError("openai", err)
	}
	if len(labels) != len(titles) {
		return nil, pkgerrors.NewExternalError("openai",
			fmt.Errorf("got %d labels for %d titles", len(labels), len(titles)))
	}

	dims := make([]valueobjects.Dimension, len(labels))
	for i, label := range labels {
		dim, ok := valueobjects.DimensionFromLabel(label)
		if !ok || dim == valueobjects.DimensionUnassigned {
			c.logger.Debug("coercing unknown label", zap.String("label", label))
			dim = valueobjects.DimensionEntertainment
		}
		dims[i] = dim
	}
	return dims, nil
}

// parseLabels unwraps the model's JSON array, tolerating markdown
// code fences around it.
func parseLabels(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var labels []string
	if err := json.Unmarshal([]byte(content), &labels); err != nil {
		return nil, fmt.Errorf("unparseable classifier response: %w", err)
	}
	return labels, nil
}
