package cli

import (
	"fmt"

	"github.com/bgg292/toolsmith/internal/codegen"
	"github.com/bgg292/toolsmith/internal/llm"
	"github.com/bgg292/toolsmith/internal/pipeline"
	"github.com/bgg292/toolsmith/internal/publish"
	"github.com/bgg292/toolsmith/internal/scaffold"
	"github.com/bgg292/toolsmith/internal/toolspec"
	"github.com/spf13/cobra"
)

var (
	runNoPublish bool
	runSiteBase  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Propose, scaffold and publish one new tool",
	Long: `Run the full pipeline once:

  1. Ask the model for a tool spec (JSON, one retry on malformed output)
  2. Normalize the slug and avoid collisions with existing pages
  3. Ask the model for the page script
  4. Write the page, script and module, and link the tool from the index
  5. Create a branch, run npm ci and npm run build, commit, push and open a PR

Use --no-publish to stop after step 4.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runNoPublish, "no-publish", false, "Stop after writing files; skip build, commit and PR")
	runCmd.Flags().StringVar(&runSiteBase, "site-base", "", "Site base path override (default: site.base or astro.config.mjs)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runSiteBase != "" {
		cfg.SiteBase = runSiteBase
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())

	client, err := llm.NewOpenAI(llm.Settings{Model: cfg.Model, APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
	if err != nil {
		return err
	}
	proposer, err := toolspec.NewRequester(client, logger)
	if err != nil {
		return err
	}
	generator, err := codegen.NewGenerator(client, logger)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Proposer:  proposer,
		Generator: generator,
		Scaffolder: scaffold.New(cfg.RepoRoot, scaffold.Layout{
			PagesDir:   cfg.PagesDir,
			ScriptsDir: cfg.ScriptsDir,
			ModulesDir: cfg.ModulesDir,
			IndexPage:  cfg.IndexPage,
		}, cfg.SiteBase),
		Logger: logger,
	}
	if !runNoPublish {
		p.Publisher = publish.New(publish.ExecRunner{}, publish.Options{
			Dir:        cfg.RepoRoot,
			Remote:     cfg.Remote,
			BaseBranch: cfg.BaseBranch,
		}, logger)
	}

	logger.Debug("starting run", "model", cfg.Model, "repo", cfg.RepoRoot, "site_base", cfg.SiteBase)
	res, err := p.Run(cmd.Context())
	if res != nil && res.Scaffold != nil {
		printResult(cmd, res)
	}
	return err
}

func printResult(cmd *cobra.Command, res *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created tool %q (%s)\n", res.Spec.Title, res.Slug)
	for _, f := range res.Scaffold.Files() {
		fmt.Fprintf(out, "  %s\n", f)
	}
	if res.Scaffold.IndexUpdated {
		fmt.Fprintf(out, "  %s (link added)\n", res.Scaffold.IndexPage)
	}
	if res.Branch != "" {
		fmt.Fprintf(out, "Branch: %s\n", res.Branch)
	}
	if res.Published {
		fmt.Fprintln(out, "Pull request opened. Review safety and UX before merging.")
	}
}
