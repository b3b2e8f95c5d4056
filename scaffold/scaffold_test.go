package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcaraciolo/blog/content"
)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	data := NewData(dir, "Guilherme Caraciolo", "2024-03-01")
	assert.Equal(t, "My Blog", data.SiteName)

	files, err := Generate(dir, data)
	require.NoError(t, err)
	assert.Contains(t, files, "config.yaml")
	assert.Contains(t, files, ".gitignore")
	assert.Contains(t, files, "source/_posts/hello-world.md")

	cfg, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "name: My Blog")
	assert.Contains(t, string(cfg), "author: Guilherme Caraciolo")

	l := &content.Loader{Root: filepath.Join(dir, "source"), Collections: []content.Collection{{Name: "posts"}}}
	site, err := l.Load(context.Background())
	require.NoError(t, err)
	posts := site.AllPosts()
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello World", posts[0].Title)
	assert.Equal(t, "/blog/pt/hello-world", posts[0].Path)
	require.Len(t, site.Docs, 1)
	assert.Equal(t, "My Blog Docs", site.DocsConfig.Title)
}

func TestGenerateRefusesExistingDir(t *testing.T) {
	_, err := Generate(t.TempDir(), NewData("x", "", "2024-03-01"))
	assert.ErrorIs(t, err, ErrExists)
}

func TestToTitle(t *testing.T) {
	tests := map[string]string{
		"my-blog": "My Blog",
		"myblog":  "Myblog",
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToTitle(in), in)
	}
}
