package toolspec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bgg292/toolsmith/internal/llm"
)

// Proposer produces one tool proposal per call.
type Proposer interface {
	Propose(ctx context.Context) (*ToolSpec, error)
}

// Requester implements Proposer on top of an llm.Completer.
type Requester struct {
	llm    llm.Completer
	logger *slog.Logger
}

// NewRequester returns a Requester. A nil logger discards output.
func NewRequester(c llm.Completer, logger *slog.Logger) (*Requester, error) {
	if c == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Requester{llm: c, logger: logger}, nil
}

// Propose asks for a spec in JSON mode. If the answer is malformed it asks
// once more with a stricter instruction; a second malformed answer is
// returned as an error wrapping ErrMalformedSpec. Transport errors are
// returned immediately.
func (r *Requester) Propose(ctx context.Context) (*ToolSpec, error) {
	spec, firstErr := r.attempt(ctx, instructions)
	if firstErr == nil {
		return spec, nil
	}
	if !errors.Is(firstErr, ErrMalformedSpec) {
		return nil, firstErr
	}

	r.logger.Warn("tool spec response malformed, retrying once", "error", firstErr)
	spec, err := r.attempt(ctx, instructions+strictSuffix)
	if err != nil {
		if errors.Is(err, ErrMalformedSpec) {
			return nil, fmt.Errorf("tool spec still malformed after retry: %w (first attempt: %v)", err, firstErr)
		}
		return nil, err
	}
	return spec, nil
}

func (r *Requester) attempt(ctx context.Context, instr string) (*ToolSpec, error) {
	raw, err := r.llm.Complete(ctx, llm.Request{
		Instructions: instr,
		Input:        task,
		JSON:         true,
		Temperature:  llm.Temperature(0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("requesting tool spec: %w", err)
	}
	r.logger.Debug("tool spec response", "bytes", len(raw))
	return Parse(raw)
}
