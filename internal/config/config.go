package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bgg292/toolsmith/internal/branding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys. Each can be set in the config file or as TOOLSMITH_<KEY>
// with dots replaced by underscores.
const (
	KeyAPIKey     = "openai.api_key"
	KeyModel      = "openai.model"
	KeyBaseURL    = "openai.base_url"
	KeyRepoRoot   = "repo.root"
	KeyRemote     = "repo.remote"
	KeyBaseBranch = "repo.base_branch"
	KeySiteBase   = "site.base"
	KeyPagesDir   = "layout.pages_dir"
	KeyScriptsDir = "layout.scripts_dir"
	KeyModulesDir = "layout.modules_dir"
	KeyIndexPage  = "layout.index_page"
)

// ErrMissingAPIKey is returned by Validate when no credential is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

var defaults = map[string]string{
	KeyRepoRoot:   ".",
	KeyRemote:     "origin",
	KeyBaseBranch: "main",
	KeyPagesDir:   "src/pages/tools",
	KeyScriptsDir: "public/js",
	KeyModulesDir: "src/tools",
	KeyIndexPage:  "src/pages/index.astro",
}

// Config is the fully resolved configuration for one run.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	RepoRoot   string
	Remote     string
	BaseBranch string

	// SiteBase is the path prefix the site is served under, e.g. "/development-tools".
	SiteBase string

	PagesDir   string
	ScriptsDir string
	ModulesDir string
	IndexPage  string
}

// Options override the file location and repository root.
type Options struct {
	File     string // explicit config file; must exist when set
	RepoRoot string // overrides repo.root
}

// Dir returns the path to the config directory (~/.toolsmith/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.toolsmith/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func newViper(file string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Prefixed variables take precedence over the OPENAI_* ones.
	_ = v.BindEnv(KeyAPIKey, branding.EnvVar("OPENAI_API_KEY"), "OPENAI_API_KEY")
	_ = v.BindEnv(KeyModel, branding.EnvVar("OPENAI_MODEL"), "OPENAI_MODEL")
	_ = v.BindEnv(KeyBaseURL, branding.EnvVar("OPENAI_BASE_URL"), "OPENAI_BASE_URL")

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetDefault(KeyModel, branding.DefaultModel())
	return v
}

// Load resolves a Config. The config file is optional unless opts.File is
// set. A .env file in the repository root is loaded into the process
// environment first; variables that are already set are not overridden.
func Load(opts Options) (*Config, error) {
	file := opts.File
	if file == "" {
		file = FilePath()
	}
	v := newViper(file)
	if err := v.ReadInConfig(); err != nil {
		if opts.File != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	root := opts.RepoRoot
	if root == "" {
		root = v.GetString(KeyRepoRoot)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving repo root: %w", err)
	}

	if err := loadDotEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:     strings.TrimSpace(v.GetString(KeyAPIKey)),
		Model:      v.GetString(KeyModel),
		BaseURL:    v.GetString(KeyBaseURL),
		RepoRoot:   root,
		Remote:     v.GetString(KeyRemote),
		BaseBranch: v.GetString(KeyBaseBranch),
		SiteBase:   v.GetString(KeySiteBase),
		PagesDir:   v.GetString(KeyPagesDir),
		ScriptsDir: v.GetString(KeyScriptsDir),
		ModulesDir: v.GetString(KeyModulesDir),
		IndexPage:  v.GetString(KeyIndexPage),
	}
	if cfg.Model == "" {
		cfg.Model = branding.DefaultModel()
	}
	if cfg.SiteBase == "" {
		cfg.SiteBase = DetectSiteBase(root)
	}
	return cfg, nil
}

// Validate reports missing preconditions for a pipeline run.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return errors.New("openai model is empty")
	}
	return nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

var astroBasePattern = regexp.MustCompile(`(?m)^\s*base\s*:\s*['"]([^'"]*)['"]`)

// DetectSiteBase reads the base option from the Astro config in root.
// Returns "/" when no config or no base option is found.
func DetectSiteBase(root string) string {
	for _, name := range []string{"astro.config.mjs", "astro.config.ts", "astro.config.js"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		if m := astroBasePattern.FindSubmatch(data); m != nil && len(m[1]) > 0 {
			return string(m[1])
		}
		return "/"
	}
	return "/"
}

// Keys returns every supported config key in sorted order.
func Keys() []string {
	keys := []string{KeyAPIKey, KeyModel, KeyBaseURL, KeySiteBase}
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func knownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the resolved value of a key from the user config file,
// environment and defaults. Returns empty string if not set.
func Get(key string) (string, error) {
	if !knownKey(key) {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	v := newViper(FilePath())
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.GetString(key), nil
}

// Set writes a config key-value pair to the user config file. Only values
// already in the file and the new key are persisted.
func Set(key, value string) error {
	if !knownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file: %w", err)
	}
	v.Set(key, value)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
