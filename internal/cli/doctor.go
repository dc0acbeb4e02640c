package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bgg292/toolsmith/internal/config"
	"github.com/bgg292/toolsmith/internal/publish"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that a run can succeed",
	Long: `Verify the credential and the site repository layout, then check the node,
git, npm and gh CLIs used to build and publish a tool.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		problems := 0
		if !checkConfig(out, cfg) {
			problems++
		}
		if !checkRepo(out, cfg) {
			problems++
		}
		fmt.Fprintln(out)
		if err := publish.CheckRequirements(cmd.Context(), out, publish.ExecRunner{}, cfg.RepoRoot); err != nil {
			fmt.Fprintf(out, "\n  %v\n", err)
			problems++
		}

		if problems > 0 {
			return errors.New("doctor found problems")
		}
		fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func checkConfig(w io.Writer, cfg *config.Config) bool {
	fmt.Fprintln(w, "Configuration:")
	ok := true
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "  [MISS] %v\n", err)
		ok = false
	} else {
		fmt.Fprintln(w, "  [ OK ] API key configured")
	}
	fmt.Fprintf(w, "  [ OK ] model %s\n", cfg.Model)
	if cfg.BaseURL != "" {
		fmt.Fprintf(w, "  [ OK ] base URL %s\n", cfg.BaseURL)
	}
	fmt.Fprintf(w, "  [ OK ] site base %s\n", cfg.SiteBase)
	return ok
}

func checkRepo(w io.Writer, cfg *config.Config) bool {
	fmt.Fprintf(w, "\nRepository %s:\n", cfg.RepoRoot)
	ok := true
	required := []string{cfg.IndexPage, "package.json"}
	for _, rel := range required {
		if _, err := os.Stat(filepath.Join(cfg.RepoRoot, rel)); err != nil {
			fmt.Fprintf(w, "  [MISS] %s\n", rel)
			ok = false
		} else {
			fmt.Fprintf(w, "  [ OK ] %s\n", rel)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.RepoRoot, "package-lock.json")); err != nil {
		fmt.Fprintln(w, "  [WARN] package-lock.json not found; npm ci will fail")
	}
	if _, err := os.Stat(filepath.Join(cfg.RepoRoot, ".git")); err != nil {
		fmt.Fprintln(w, "  [MISS] not a git repository")
		ok = false
	}
	return ok
}
