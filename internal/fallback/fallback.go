// Package fallback runs an ordered chain of equivalent providers, moving to
// the next on any classified failure and reporting every attempt when the
// whole chain is exhausted.
package fallback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"scribe/internal/logging"
	"scribe/internal/services"
)

// Provider is one interchangeable backend in a chain. Invoke must return a
// classified error on failure.
type Provider[I, O any] struct {
	Name   string
	Invoke func(ctx context.Context, input I) (O, error)
}

// Chain tries providers in order until one succeeds.
type Chain[I, O any] struct {
	operation string
	providers []Provider[I, O]
	logger    *slog.Logger
}

// NewChain builds a chain for the named operation. The logger may be nil.
func NewChain[I, O any](operation string, logger *slog.Logger, providers ...Provider[I, O]) *Chain[I, O] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Chain[I, O]{
		operation: operation,
		providers: providers,
		logger:    logger,
	}
}

// Attempt records one provider failure inside an exhausted chain.
type Attempt struct {
	Provider string
	Err      error
}

// ExhaustedError reports that every provider in a chain failed, keeping each
// provider's classified failure for diagnosis.
type ExhaustedError struct {
	Operation string
	Attempts  []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", attempt.Provider, attempt.Err))
	}
	return fmt.Sprintf("%s: all providers failed [%s]", e.Operation, strings.Join(parts, "; "))
}

// Invoke tries each provider in order and returns the first success. A
// cancelled context stops the walk immediately.
func (c *Chain[I, O]) Invoke(ctx context.Context, input I) (O, error) {
	var zero O
	if len(c.providers) == 0 {
		return zero, &ExhaustedError{Operation: c.operation}
	}

	attempts := make([]Attempt, 0, len(c.providers))
	for i, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		output, err := provider.Invoke(ctx, input)
		if err == nil {
			if i > 0 {
				c.logger.Info("provider fallback succeeded",
					logging.String("operation", c.operation),
					logging.String(logging.FieldProvider, provider.Name),
					logging.Int("failed_providers", i),
				)
			}
			return output, nil
		}

		attempts = append(attempts, Attempt{Provider: provider.Name, Err: err})
		c.logger.Warn("provider failed, trying next",
			logging.String("operation", c.operation),
			logging.String(logging.FieldProvider, provider.Name),
			logging.String("reason", services.UserMessage(err)),
			logging.Error(err),
		)
	}

	return zero, &ExhaustedError{Operation: c.operation, Attempts: attempts}
}

// Names returns the provider names in priority order.
func (c *Chain[I, O]) Names() []string {
	names := make([]string, len(c.providers))
	for i, provider := range c.providers {
		names[i] = provider.Name
	}
	return names
}
