package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

var (
	commentMessage string
	jsonOutput     bool
)

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "[dry-run] would delete %s\n", id)
				return nil
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.publisher.DeletePost(cmd.Context(), s.cred, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted %s\n", id)
			return nil
		},
	}
}

func newCommentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <post-id> [text]",
		Short: "Comment on a share",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			text, err := resolveText(cmd, commentMessage, args[1:], "comment")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "[dry-run] would comment on %s: %q\n", id, text)
				return nil
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.publisher.AddComment(cmd.Context(), s.cred, id, text); err != nil {
				return err
			}
			fmt.Fprintf(out, "commented on %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&commentMessage, "message", "m", "", "Comment text")
	return cmd
}

func newCommentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "List the comments of a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			comments, err := s.publisher.ListComments(cmd.Context(), s.cred, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				type commentJSON struct {
					Actor   string    `json:"actor"`
					Text    string    `json:"text"`
					Created time.Time `json:"created"`
				}
				rows := make([]commentJSON, 0, len(comments))
				for _, c := range comments {
					rows = append(rows, commentJSON{Actor: c.Actor, Text: c.Text, Created: c.Created})
				}
				return writeJSON(out, rows)
			}

			if len(comments) == 0 {
				fmt.Fprintf(out, "no comments on %s\n", id)
				return nil
			}
			for _, c := range comments {
				fmt.Fprintf(out, "%s  %s: %s\n", c.Created.UTC().Format(time.RFC3339), c.Actor, c.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	return cmd
}

func newEngagementCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engagement <post-id>",
		Short: "Show comment, like, reshare and impression counts of a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			summary, err := s.publisher.GetEngagement(cmd.Context(), s.cred, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, map[string]int{
					"comments":    summary.Comments,
					"likes":       summary.Likes,
					"reshares":    summary.Reshares,
					"impressions": summary.Impressions,
				})
			}
			fmt.Fprintf(out, "comments=%d likes=%d reshares=%d impressions=%d\n",
				summary.Comments, summary.Likes, summary.Reshares, summary.Impressions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	return cmd
}

func newRepostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repost <post-id>",
		Short: "Republish the text of an existing share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "[dry-run] would repost %s\n", id)
				return nil
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.publisher.RepostExisting(cmd.Context(), s.cred, id); err != nil {
				return err
			}
			fmt.Fprintf(out, "reposted %s\n", id)
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <post-id>",
		Short: "Print the raw share document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := postIDArg(args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			raw, err := s.publisher.FetchRawPostContent(cmd.Context(), s.cred, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
