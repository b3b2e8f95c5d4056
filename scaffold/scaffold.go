// Package scaffold creates new blog projects from embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when the target directory already exists.
var ErrExists = errors.New("scaffold: directory already exists")

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
	Author      string
	Date        string
}

// NewData derives the template data from a project directory name.
func NewData(dir, author, date string) Data {
	name := filepath.Base(filepath.Clean(dir))
	return Data{
		ProjectName: name,
		SiteName:    ToTitle(name),
		Author:      author,
		Date:        date,
	}
}

// Generate writes the project skeleton into dir and returns the created
// files, relative to dir. It refuses to touch an existing directory.
func Generate(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, dir)
	}

	const root = "templates"
	var created []string
	err := fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(rel, ".tmpl")
		// dotgitignore keeps go:embed from skipping the file.
		if filepath.Base(rel) == "dotgitignore" {
			rel = filepath.Join(filepath.Dir(rel), ".gitignore")
		}
		out := filepath.Join(dir, rel)

		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		created = append(created, filepath.ToSlash(rel))
		return nil
	})
	return created, err
}

// ToTitle converts a hyphenated name to title case:
// "my-blog" -> "My Blog".
func ToTitle(s string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(s, "-", " "))
}
