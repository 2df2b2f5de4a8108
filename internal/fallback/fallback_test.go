package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scribe/internal/services"
)

func provider(name string, result string, err error, calls *[]string) Provider[string, string] {
	return Provider[string, string]{
		Name: name,
		Invoke: func(ctx context.Context, input string) (string, error) {
			*calls = append(*calls, name)
			if err != nil {
				return "", err
			}
			return result, nil
		},
	}
}

func TestInvokeUsesFirstSuccess(t *testing.T) {
	var calls []string
	chain := NewChain("script", nil,
		provider("primary", "primary-result", nil, &calls),
		provider("secondary", "secondary-result", nil, &calls),
	)

	result, err := chain.Invoke(context.Background(), "input")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != "primary-result" {
		t.Fatalf("unexpected result %q", result)
	}
	if len(calls) != 1 {
		t.Fatalf("later providers were called: %v", calls)
	}
}

func TestInvokeFallsThroughOnAnyClassifiedFailure(t *testing.T) {
	var calls []string
	chain := NewChain("script", nil,
		provider("a", "", services.Wrap(services.ErrTransient, "a", "op", "boom", nil), &calls),
		provider("b", "", services.Wrap(services.ErrUnauthenticated, "b", "op", "bad key", nil), &calls),
		provider("c", "c-result", nil, &calls),
	)

	result, err := chain.Invoke(context.Background(), "input")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if result != "c-result" {
		t.Fatalf("unexpected result %q", result)
	}
	if len(calls) != 3 {
		t.Fatalf("expected all providers tried, got %v", calls)
	}
}

func TestInvokeExhaustedReportsEveryAttempt(t *testing.T) {
	var calls []string
	chain := NewChain("speech", nil,
		provider("a", "", services.Wrap(services.ErrTimeout, "a", "op", "slow", nil), &calls),
		provider("b", "", services.Wrap(services.ErrRateLimited, "b", "op", "throttled", nil), &calls),
	)

	_, err := chain.Invoke(context.Background(), "input")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(exhausted.Attempts))
	}
	message := exhausted.Error()
	if !strings.Contains(message, "a:") || !strings.Contains(message, "b:") {
		t.Fatalf("attempt names missing from message: %q", message)
	}
	if !errors.Is(exhausted.Attempts[1].Err, services.ErrRateLimited) {
		t.Fatalf("classification lost: %v", exhausted.Attempts[1].Err)
	}
}

func TestInvokeStopsOnCancelledContext(t *testing.T) {
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	chain := NewChain("script", nil,
		Provider[string, string]{
			Name: "a",
			Invoke: func(ctx context.Context, input string) (string, error) {
				calls = append(calls, "a")
				cancel()
				return "", services.Wrap(services.ErrTransient, "a", "op", "boom", nil)
			},
		},
		provider("b", "b-result", nil, &calls),
	)

	_, err := chain.Invoke(ctx, "input")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("chain continued after cancellation: %v", calls)
	}
}

func TestEmptyChainIsExhausted(t *testing.T) {
	chain := NewChain[string, string]("script", nil)
	_, err := chain.Invoke(context.Background(), "input")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
}

func TestNames(t *testing.T) {
	var calls []string
	chain := NewChain("script", nil,
		provider("a", "", nil, &calls),
		provider("b", "", nil, &calls),
	)
	names := chain.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
}
