package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PRBody is the fixed pull request description.
const PRBody = "AI-generated tool + page. Please review safety + UX before merging."

// Step names, in execution order.
const (
	StepBranch  = "branch"
	StepInstall = "install"
	StepBuild   = "build"
	StepStage   = "stage"
	StepCommit  = "commit"
	StepPush    = "push"
	StepPR      = "pull-request"
)

// StepError reports the step that stopped the sequence.
type StepError struct {
	Step    string
	Command string
	Output  string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("publish step %s (%s) failed: %v", e.Step, e.Command, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Params describes the tool being published.
type Params struct {
	Slug  string
	Title string
	Date  time.Time
}

// Options configure where the branch goes.
type Options struct {
	Dir        string // repository root
	Remote     string // e.g., "origin"
	BaseBranch string // pull request base, e.g., "main"
}

// Publisher runs the branch/build/commit/push/PR sequence.
type Publisher struct {
	runner Runner
	opts   Options
	logger *slog.Logger
}

// New returns a Publisher. A nil runner uses ExecRunner; a nil logger
// discards output.
func New(runner Runner, opts Options, logger *slog.Logger) *Publisher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.BaseBranch == "" {
		opts.BaseBranch = "main"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{runner: runner, opts: opts, logger: logger}
}

// BranchName returns ai/<slug>-<YYYY-MM-DD>.
func BranchName(slug string, date time.Time) string {
	return fmt.Sprintf("ai/%s-%s", slug, date.Format("2006-01-02"))
}

// CommitMessage is used for both the commit and the pull request title.
func CommitMessage(title string) string {
	return "Add tool: " + title
}

type step struct {
	name string
	cmd  string
	args []string
}

func (p *Publisher) steps(params Params) []step {
	branch := BranchName(params.Slug, params.Date)
	msg := CommitMessage(params.Title)
	return []step{
		{StepBranch, "git", []string{"checkout", "-b", branch}},
		{StepInstall, "npm", []string{"ci"}},
		{StepBuild, "npm", []string{"run", "build"}},
		{StepStage, "git", []string{"add", "."}},
		{StepCommit, "git", []string{"commit", "-m", msg}},
		{StepPush, "git", []string{"push", "-u", p.opts.Remote, branch}},
		{StepPR, "gh", []string{"pr", "create", "--title", msg, "--body", PRBody, "--base", p.opts.BaseBranch}},
	}
}

// Publish runs every step in order and returns the branch name. It stops at
// the first failure with a *StepError.
func (p *Publisher) Publish(ctx context.Context, params Params) (string, error) {
	if params.Slug == "" || params.Title == "" {
		return "", errors.New("publish: slug and title are required")
	}
	branch := BranchName(params.Slug, params.Date)

	for _, s := range p.steps(params) {
		command := s.cmd + " " + strings.Join(s.args, " ")
		p.logger.Info("running", "step", s.name, "command", command)
		out, err := p.runner.Run(ctx, p.opts.Dir, s.cmd, s.args...)
		if err != nil {
			return branch, &StepError{Step: s.name, Command: command, Output: strings.TrimSpace(string(out)), Err: err}
		}
		p.logger.Debug("step done", "step", s.name, "output", strings.TrimSpace(string(out)))
	}
	return branch, nil
}
