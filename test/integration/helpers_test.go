//go:build integration

package integration_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bgg292/toolsmith/internal/llm"
	"github.com/bgg292/toolsmith/internal/publish"
)

// testEnv holds paths to an isolated site repository and its remote.
type testEnv struct {
	RepoDir   string // working clone with the Astro site skeleton
	RemoteDir string // bare repository registered as origin
}

// setupTestEnv creates a git repository with a minimal Astro site, commits
// it on main, and wires a bare repository as origin. Git identity and
// global config are sandboxed through environment variables.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Toolsmith Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "toolsmith@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Toolsmith Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "toolsmith@example.com")

	env := &testEnv{RepoDir: t.TempDir(), RemoteDir: t.TempDir()}

	git(t, env.RemoteDir, "init", "--bare")

	writeFile(t, filepath.Join(env.RepoDir, "astro.config.mjs"), `import { defineConfig } from 'astro/config';

export default defineConfig({
	site: 'https://bgg292.github.io',
	base: '/development-tools',
});
`)
	writeFile(t, filepath.Join(env.RepoDir, "package.json"), `{"name":"development-tools","private":true,"scripts":{"build":"astro build"}}`+"\n")
	writeFile(t, filepath.Join(env.RepoDir, "package-lock.json"), `{"name":"development-tools","lockfileVersion":3}`+"\n")
	writeFile(t, filepath.Join(env.RepoDir, "src", "pages", "index.astro"), "---\n---\n<h1>Developer tools</h1>\n")
	writeFile(t, filepath.Join(env.RepoDir, "src", "pages", "tools", "json-formatter.astro"), "---\n---\n")

	git(t, env.RepoDir, "init")
	git(t, env.RepoDir, "checkout", "-b", "main")
	git(t, env.RepoDir, "add", ".")
	git(t, env.RepoDir, "commit", "-m", "Initial site")
	git(t, env.RepoDir, "remote", "add", "origin", env.RemoteDir)
	git(t, env.RepoDir, "push", "-u", "origin", "main")

	return env
}

// hybridRunner executes git for real and records npm and gh invocations
// without running them.
type hybridRunner struct {
	real   publish.ExecRunner
	calls  []string
	failOn string
}

func (h *hybridRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	line := name + " " + strings.Join(args, " ")
	h.calls = append(h.calls, line)
	if h.failOn != "" && strings.HasPrefix(line, h.failOn) {
		return []byte("simulated failure"), errors.New("exit status 1")
	}
	if name == "git" {
		return h.real.Run(ctx, dir, name, args...)
	}
	return nil, nil
}

// stubLLM answers JSON-mode requests with spec and everything else with script.
type stubLLM struct {
	specs  []string
	script string
	n      int
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	if req.JSON {
		s.n++
		if s.n > len(s.specs) {
			return s.specs[len(s.specs)-1], nil
		}
		return s.specs[s.n-1], nil
	}
	return s.script, nil
}

// git runs a git command in dir and fails the test on error.
func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
