// Package pipeline runs the five provisioning stages in order: propose a
// tool spec, normalize its slug, generate the page script, scaffold the
// files and publish them. Each stage consumes the previous one's output and
// the first error aborts the run without cleanup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bgg292/toolsmith/internal/codegen"
	"github.com/bgg292/toolsmith/internal/publish"
	"github.com/bgg292/toolsmith/internal/scaffold"
	"github.com/bgg292/toolsmith/internal/slug"
	"github.com/bgg292/toolsmith/internal/toolspec"
	"github.com/google/uuid"
)

// Publisher is implemented by *publish.Publisher.
type Publisher interface {
	Publish(ctx context.Context, params publish.Params) (string, error)
}

// Pipeline wires the stage capabilities together.
type Pipeline struct {
	Proposer   toolspec.Proposer
	Generator  codegen.ScriptGenerator
	Scaffolder *scaffold.Scaffolder
	// Publisher may be nil, in which case the run stops after scaffolding.
	Publisher Publisher
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Result summarizes one run.
type Result struct {
	RunID     string
	Spec      *toolspec.ToolSpec
	Slug      string
	Scaffold  *scaffold.Result
	Branch    string
	Published bool
}

// Run executes the pipeline once.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.Proposer == nil || p.Generator == nil || p.Scaffolder == nil {
		return nil, errors.New("pipeline: proposer, generator and scaffolder are required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	res := &Result{RunID: uuid.NewString()}
	logger = logger.With("run", res.RunID)
	today := now()

	logger.Info("requesting tool spec")
	spec, err := p.Proposer.Propose(ctx)
	if err != nil {
		return res, fmt.Errorf("proposing tool: %w", err)
	}
	res.Spec = spec

	s := slug.Resolve(p.Scaffolder.PageExists, slug.FromSpec(spec.Slug, spec.Title), today)
	spec.Slug = s
	res.Slug = s
	logger.Info("tool proposed", "slug", s, "title", spec.Title)

	script, err := p.Generator.GenerateScript(ctx, spec, s)
	if err != nil {
		return res, fmt.Errorf("generating script: %w", err)
	}

	sr, err := p.Scaffolder.Write(p.Scaffolder.NewScaffoldData(spec, s), script)
	if err != nil {
		return res, fmt.Errorf("scaffolding %s: %w", s, err)
	}
	res.Scaffold = sr
	logger.Info("scaffolded", "files", sr.Files(), "index_updated", sr.IndexUpdated)

	if p.Publisher == nil {
		logger.Info("publishing skipped")
		return res, nil
	}

	branch, err := p.Publisher.Publish(ctx, publish.Params{Slug: s, Title: spec.Title, Date: today})
	res.Branch = branch
	if err != nil {
		return res, fmt.Errorf("publishing %s: %w", s, err)
	}
	res.Published = true
	logger.Info("pull request opened", "branch", branch)
	return res, nil
}
