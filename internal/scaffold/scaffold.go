package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bgg292/toolsmith/internal/toolspec"
)

//go:embed scaffolds/*.tmpl
var scaffoldFS embed.FS

var templates = template.Must(template.New("scaffolds").Funcs(template.FuncMap{
	"json":    jsonString,
	"comment": htmlComment,
}).ParseFS(scaffoldFS, "scaffolds/*.tmpl"))

// Layout locates the tool artifacts relative to the repository root.
type Layout struct {
	PagesDir   string // e.g., "src/pages/tools"
	ScriptsDir string // e.g., "public/js"
	ModulesDir string // e.g., "src/tools"
	IndexPage  string // e.g., "src/pages/index.astro"
}

// DefaultLayout matches the Astro site this CLI was written for.
var DefaultLayout = Layout{
	PagesDir:   "src/pages/tools",
	ScriptsDir: "public/js",
	ModulesDir: "src/tools",
	IndexPage:  "src/pages/index.astro",
}

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Slug          string // e.g., "case-converter"
	Title         string // e.g., "Case Converter"
	Description   string
	PlaceholderUI string            // advisory, rendered as a comment
	Elements      toolspec.Elements // DOM ids the script binds to
	ScriptPath    string            // Derived: site-relative script path, e.g., "js/case-converter.js"
	Href          string            // Derived: index link target including the site base
}

// Result holds the outcome of a scaffold run. Paths are relative to the
// repository root.
type Result struct {
	Page         string
	Script       string
	Module       string
	IndexPage    string
	IndexUpdated bool
}

// Files lists the artifact paths written for the tool.
func (r *Result) Files() []string {
	return []string{r.Page, r.Script, r.Module}
}

// Scaffolder writes tool artifacts into one repository.
type Scaffolder struct {
	Root     string
	Layout   Layout
	SiteBase string
}

// New returns a Scaffolder for root. Empty layout fields fall back to
// DefaultLayout.
func New(root string, layout Layout, siteBase string) *Scaffolder {
	if layout.PagesDir == "" {
		layout.PagesDir = DefaultLayout.PagesDir
	}
	if layout.ScriptsDir == "" {
		layout.ScriptsDir = DefaultLayout.ScriptsDir
	}
	if layout.ModulesDir == "" {
		layout.ModulesDir = DefaultLayout.ModulesDir
	}
	if layout.IndexPage == "" {
		layout.IndexPage = DefaultLayout.IndexPage
	}
	return &Scaffolder{Root: root, Layout: layout, SiteBase: siteBase}
}

// NewScaffoldData creates a ScaffoldData with derived fields populated.
func (s *Scaffolder) NewScaffoldData(spec *toolspec.ToolSpec, slug string) *ScaffoldData {
	return &ScaffoldData{
		Slug:          slug,
		Title:         spec.Title,
		Description:   spec.Description,
		PlaceholderUI: strings.TrimSpace(spec.PlaceholderUI),
		Elements:      toolspec.DefaultElements,
		ScriptPath:    s.scriptSitePath(slug),
		Href:          JoinBase(s.SiteBase, "tools/"+slug),
	}
}

// PagePath returns the repository-relative page path for slug.
func (s *Scaffolder) PagePath(slug string) string {
	return filepath.Join(s.Layout.PagesDir, slug+".astro")
}

// PageExists reports whether a page for slug is already present.
func (s *Scaffolder) PageExists(slug string) bool {
	_, err := os.Stat(filepath.Join(s.Root, s.PagePath(slug)))
	return err == nil
}

// Write renders the page and module templates, writes the script verbatim
// and appends the index link. The first write failure aborts the run;
// files already written are left in place.
func (s *Scaffolder) Write(data *ScaffoldData, script string) (*Result, error) {
	if data.Slug == "" {
		return nil, errors.New("scaffold: slug is required")
	}

	page, err := render("page.astro.tmpl", data)
	if err != nil {
		return nil, err
	}
	module, err := render("module.ts.tmpl", data)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Page:      s.PagePath(data.Slug),
		Script:    filepath.Join(s.Layout.ScriptsDir, data.Slug+".js"),
		Module:    filepath.Join(s.Layout.ModulesDir, data.Slug+".ts"),
		IndexPage: s.Layout.IndexPage,
	}

	if err := writeFile(filepath.Join(s.Root, result.Page), page); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(s.Root, result.Script), []byte(script)); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(s.Root, result.Module), module); err != nil {
		return nil, err
	}

	updated, err := AppendIndexLink(filepath.Join(s.Root, s.Layout.IndexPage), data)
	if err != nil {
		return nil, err
	}
	result.IndexUpdated = updated
	return result, nil
}

// AppendIndexLink appends a link entry for data.Href to the index page
// unless the quoted href already occurs in it. The file is left
// byte-for-byte unchanged when the link exists. Read-then-append is not
// atomic; concurrent writers can both append.
func AppendIndexLink(indexPath string, data *ScaffoldData) (bool, error) {
	current, err := os.ReadFile(indexPath)
	if err != nil {
		return false, fmt.Errorf("reading index page %s: %w", indexPath, err)
	}
	if bytes.Contains(current, []byte(`"`+data.Href+`"`)) {
		return false, nil
	}

	entry, err := render("index-entry.tmpl", data)
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(indexPath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return false, fmt.Errorf("opening index page %s: %w", indexPath, err)
	}
	if _, err := f.Write(entry); err != nil {
		f.Close()
		return false, fmt.Errorf("appending to index page %s: %w", indexPath, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing index page %s: %w", indexPath, err)
	}
	return true, nil
}

// JoinBase joins a site base prefix and a site-relative path with exactly
// one "/" between them, whether or not prefix ends with one.
func JoinBase(prefix, p string) string {
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(p, "/")
}

// AssetPath returns the served path of a tool script under prefix,
// e.g., AssetPath("/site", "foo") → "/site/js/foo.js".
func AssetPath(prefix, slug string) string {
	return JoinBase(prefix, "js/"+slug+".js")
}

// scriptSitePath maps ScriptsDir to the path it is served at: Astro serves
// public/ from the site root.
func (s *Scaffolder) scriptSitePath(slug string) string {
	dir := strings.TrimPrefix(filepath.ToSlash(s.Layout.ScriptsDir), "public/")
	if dir == "public" {
		dir = ""
	}
	return strings.TrimLeft(path.Join(dir, slug+".js"), "/")
}

func render(name string, data *ScaffoldData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func writeFile(dst string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

func jsonString(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// htmlComment keeps text from closing the surrounding <!-- --> early.
func htmlComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return strings.Join(strings.Fields(s), " ")
}
