package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcaraciolo/blog/scaffold"
)

func newNewCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "new <dir>",
		Short: "Create a new blog project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			out := cmd.OutOrStdout()
			data := scaffold.NewData(dir, author, time.Now().Format("2006-01-02"))

			fmt.Fprintf(out, "Creating new blog: %s\n\n", dir)
			files, err := scaffold.Generate(dir, data)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(out, "  created %s\n", f)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  blog serve --watch")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Set BLOG_ADMIN_PASSWORD and BLOG_SESSION_SECRET before enabling analytics.")
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "default post author")
	return cmd
}
