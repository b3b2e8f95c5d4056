package content_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gcaraciolo/blog/content"
)

const docsYAML = `title: Guilherme Caraciolo
description: Reasoning about Laravel, PHP, Vue.js, JavaScript and sharing all along.
cleanUrls: true
head:
  - [meta, {name: "twitter:site", content: "@gcaraciolo"}]
  - [meta, {name: "twitter:card", content: summary}]
  - [link, {rel: icon, type: image/x-icon, href: /favicon.ico}]
  - [script, {defer: ""}, "console.log('hi')"]
`

func TestLoadDocsConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs.yaml"), docsYAML)

	cfg, err := content.LoadDocsConfig(filepath.Join(root, "docs.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Guilherme Caraciolo", cfg.Title)
	assert.True(t, cfg.CleanURLs)
	require.Len(t, cfg.Head, 4)
	assert.Equal(t, content.HeadTag{
		Tag: "link",
		Attrs: []content.Attr{
			{Name: "rel", Value: "icon"},
			{Name: "type", Value: "image/x-icon"},
			{Name: "href", Value: "/favicon.ico"},
		},
	}, cfg.Head[2])
	assert.Equal(t, "console.log('hi')", cfg.Head[3].Body)
}

func TestLoadDocsConfigMissing(t *testing.T) {
	cfg, err := content.LoadDocsConfig(filepath.Join(t.TempDir(), "docs.yaml"))
	require.NoError(t, err)
	assert.Equal(t, content.DocsConfig{}, cfg)
}

func TestHeadTagRejectsScalars(t *testing.T) {
	var cfg content.DocsConfig
	err := yaml.Unmarshal([]byte("head:\n  - meta\n"), &cfg)
	assert.Error(t, err)
}

func TestLoaderDocs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs.yaml"), docsYAML)
	writeFile(t, filepath.Join(root, "docs", "setup.md"), "---\norder: 1\n---\n# Getting set up\n\nInstall things.\n")
	writeFile(t, filepath.Join(root, "docs", "deploy.md"), "---\ntitle: Deploying\norder: 2\n---\nShip it.\n")
	writeFile(t, filepath.Join(root, "docs", "guides", "queues.md"), "Queues without a heading.\n")

	site, err := (&content.Loader{Root: root}).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, site.Docs, 3)
	assert.Equal(t, "Queues", site.Docs[0].Title) // order 0 sorts first
	assert.Equal(t, "guides/queues", site.Docs[0].Slug)
	assert.Equal(t, "Getting set up", site.Docs[1].Title)
	assert.Equal(t, "/docs/setup", site.Docs[1].Path)
	assert.Equal(t, "Deploying", site.Docs[2].Title)

	doc, err := site.DocBySlug("deploy")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "<p>Ship it.</p>")
}

func TestDocPath(t *testing.T) {
	assert.Equal(t, "/docs/intro", content.DocsConfig{CleanURLs: true}.DocPath("intro"))
	assert.Equal(t, "/docs/intro.html", content.DocsConfig{}.DocPath("intro"))
}
