// Package codegen asks the generative service for the browser script that
// wires a generated tool page. The script is CSP-safe: it ships as an
// external file and never touches the network.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bgg292/toolsmith/internal/llm"
	"github.com/bgg292/toolsmith/internal/toolspec"
)

// ErrEmptyScript is returned when nothing is left after sanitization.
var ErrEmptyScript = errors.New("generated script is empty")

// fenceLine matches a Markdown fence delimiter with an optional info string.
var fenceLine = regexp.MustCompile("^\\s*```[\\w+-]*\\s*$")

// ScriptGenerator produces the UI script for a proposed tool.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, spec *toolspec.ToolSpec, slug string) (string, error)
}

// Generator implements ScriptGenerator on top of an llm.Completer.
type Generator struct {
	llm      llm.Completer
	elements toolspec.Elements
	logger   *slog.Logger
}

// NewGenerator returns a Generator binding scripts to toolspec.DefaultElements.
func NewGenerator(c llm.Completer, logger *slog.Logger) (*Generator, error) {
	if c == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{llm: c, elements: toolspec.DefaultElements, logger: logger}, nil
}

// GenerateScript issues one request and returns the sanitized script.
// There is no retry; an unusable script only surfaces in the site build.
func (g *Generator) GenerateScript(ctx context.Context, spec *toolspec.ToolSpec, slug string) (string, error) {
	raw, err := g.llm.Complete(ctx, llm.Request{
		Instructions: buildInstructions(g.elements),
		Input:        buildTask(spec, slug),
		Temperature:  llm.Temperature(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("requesting script for %s: %w", slug, err)
	}

	script := StripFences(raw)
	if strings.TrimSpace(script) == "" {
		return "", ErrEmptyScript
	}
	g.logger.Debug("generated script", "slug", slug, "bytes", len(script))
	return script, nil
}

// StripFences reduces model output to a raw script. When the reply holds a
// fenced block, only the body of the first one is kept, dropping any prose
// around it. Otherwise stray fence lines are removed. The result ends in
// exactly one newline, or is empty.
func StripFences(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	start, end := -1, -1
	for i, l := range lines {
		if !fenceLine.MatchString(l) {
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		end = i
		break
	}

	var body []string
	if start >= 0 && end > start {
		body = lines[start+1 : end]
	} else {
		for _, l := range lines {
			if !fenceLine.MatchString(l) {
				body = append(body, l)
			}
		}
	}

	s := strings.TrimSpace(strings.Join(body, "\n"))
	if s == "" {
		return ""
	}
	return s + "\n"
}
