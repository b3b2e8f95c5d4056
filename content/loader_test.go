package content_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcaraciolo/blog/content"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func newSource(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_posts", "first-steps.md"), `---
title: First steps
date: 2023-01-10
tags: [laravel]
---
Intro with `+"`code`"+`.

<!-- more -->

Rest of the post.
`)
	writeFile(t, filepath.Join(root, "_posts", "english-post.md"), `---
title: An English post
date: 2023-03-05
language: en
author: Guest Writer
excerpt: Hand written summary.
---
# Heading

Body.
`)
	writeFile(t, filepath.Join(root, "_posts", "no-front-matter.md"), "Just a body.\n")
	writeFile(t, filepath.Join(root, "_posts", "wip.md"), "---\ntitle: WIP\ndraft: true\ndate: 2024-01-01\n---\nNot yet.\n")
	writeFile(t, filepath.Join(root, "_posts", ".hidden.md"), "---\ntitle: Hidden\n---\n")
	return root
}

func TestLoaderLoad(t *testing.T) {
	root := newSource(t)
	l := &content.Loader{
		Root:        root,
		Collections: []content.Collection{{Name: "posts", Author: "Guilherme Caraciolo"}},
	}

	site, err := l.Load(context.Background())
	require.NoError(t, err)

	posts := site.Posts("posts")
	require.Len(t, posts, 3)

	// Newest first, undated last.
	assert.Equal(t, "An English post", posts[0].Title)
	assert.Equal(t, "First steps", posts[1].Title)
	assert.Equal(t, "No Front Matter", posts[2].Title)
	assert.True(t, posts[2].Date.IsZero())

	assert.Equal(t, "/blog/en/english-post", posts[0].Path)
	assert.Equal(t, "/blog/pt/first-steps", posts[1].Path)
	assert.Equal(t, "Guest Writer", posts[0].Author)
	assert.Equal(t, "Guilherme Caraciolo", posts[1].Author)
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), posts[1].Date)
	assert.Equal(t, []string{"laravel"}, posts[1].Tags)
}

func TestPostExcerpt(t *testing.T) {
	site, err := (&content.Loader{Root: newSource(t)}).Load(context.Background())
	require.NoError(t, err)

	english, err := site.PostByPath("/blog/en/english-post/")
	require.NoError(t, err)
	assert.Equal(t, "Hand written summary.", english.Excerpt(255))

	first, err := site.PostByPath("blog/pt/first-steps")
	require.NoError(t, err)
	assert.Equal(t, "Intro with <code>code</code>.", first.Excerpt(3))
}

func TestLoaderIncludeDrafts(t *testing.T) {
	l := &content.Loader{Root: newSource(t), IncludeDrafts: true}

	site, err := l.Load(context.Background())
	require.NoError(t, err)

	posts := site.Posts("posts")
	require.Len(t, posts, 4)
	assert.Equal(t, "WIP", posts[0].Title)
	assert.True(t, posts[0].Draft)
}

func TestLoaderSortByTitle(t *testing.T) {
	l := &content.Loader{
		Root:        newSource(t),
		Collections: []content.Collection{{Name: "posts", Sort: "title"}},
	}

	site, err := l.Load(context.Background())
	require.NoError(t, err)

	var titles []string
	for _, p := range site.Posts("posts") {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"An English post", "First steps", "No Front Matter"}, titles)

	titles = titles[:0]
	for _, p := range site.AllPosts() {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"An English post", "First steps", "No Front Matter"}, titles, "a single collection keeps its sort")
}

func TestLoaderCustomCollection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "talks", "go-meetup.md"), "---\ntitle: Go meetup\ndate: 1690000000\n---\nSlides.\n")
	l := &content.Loader{
		Root:        root,
		Collections: []content.Collection{{Name: "talks", Dir: "talks", PathPrefix: "/speaking/", DefaultLanguage: "en"}},
	}

	site, err := l.Load(context.Background())
	require.NoError(t, err)

	talks := site.Posts("talks")
	require.Len(t, talks, 1)
	assert.Equal(t, "/speaking/en/go-meetup", talks[0].Path)
	assert.Equal(t, time.Unix(1690000000, 0).UTC(), talks[0].Date)
}

func TestLoaderMissingCollectionDir(t *testing.T) {
	site, err := (&content.Loader{Root: t.TempDir()}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, site.Posts("posts"))
	assert.Empty(t, site.Docs)
}

func TestLoaderBadDate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "_posts", "broken.md"), "---\ndate: yesterday\n---\nBody\n")

	_, err := (&content.Loader{Root: root}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "broken.md"), err.Error())
}

func TestLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&content.Loader{Root: newSource(t)}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSiteAllPosts(t *testing.T) {
	site := &content.Site{Collections: map[string][]content.Post{
		"posts": {{Title: "old", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}},
		"talks": {{Title: "new", Date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}}

	all := site.AllPosts()
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].Title)

	_, err := site.PostByPath("/nope")
	assert.ErrorIs(t, err, content.ErrNotFound)
}
