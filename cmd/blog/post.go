package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	blog "github.com/gcaraciolo/blog"
)

// postHeader is the front matter written for a new post.
type postHeader struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Language string   `yaml:"language,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Draft    bool     `yaml:"draft,omitempty"`
}

func newPostCmd(opts *globalOptions) *cobra.Command {
	var (
		collection string
		lang       string
		tags       []string
		draft      bool
	)
	cmd := &cobra.Command{
		Use:   `post "<title>"`,
		Short: "Create a new post in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			title := strings.TrimSpace(args[0])
			slug := blog.Slugify(title)
			if slug == "" {
				return fmt.Errorf("title %q has no characters usable in a slug", title)
			}

			dir := ""
			for _, c := range cfg.Collections {
				if c.Name == collection {
					dir = c.Dir
					if dir == "" {
						dir = "_" + c.Name
					}
				}
			}
			if dir == "" {
				return fmt.Errorf("unknown collection %q", collection)
			}

			path := filepath.Join(cfg.SourceDir, dir, slug+".md")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}

			header, err := yaml.Marshal(postHeader{
				Title:    title,
				Date:     time.Now().Format("2006-01-02"),
				Language: lang,
				Tags:     tags,
				Draft:    draft,
			})
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			body := "---\n" + string(header) + "---\n"
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "posts", "collection to add the post to")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "post language (default from the collection)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag, repeatable")
	cmd.Flags().BoolVar(&draft, "draft", false, "mark the post as a draft")
	return cmd
}
