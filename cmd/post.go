package cmd

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/spf13/cobra"
)

var (
	messageFlag     string
	imagePath       string
	videoPath       string
	contentTypeFlag string
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [message]",
		Short: "Publish a new share, optionally with an image or video",
		RunE:  runPost,
	}

	cmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Message text to post")
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to an image to attach")
	cmd.Flags().StringVar(&videoPath, "video", "", "Path to a video to attach")
	cmd.Flags().StringVar(&contentTypeFlag, "content-type", "", "Media type of the attachment (detected when omitted)")
	cmd.MarkFlagsMutuallyExclusive("image", "video")
	cmd.Flags().SortFlags = false

	return cmd
}

func runPost(cmd *cobra.Command, args []string) error {
	message, err := resolveText(cmd, messageFlag, args, "message")
	if err != nil {
		return err
	}

	draft := inpost.PostDraft{Text: message}
	switch {
	case imagePath != "":
		draft.Media, err = loadMedia(inpost.MediaImage, imagePath, contentTypeFlag)
	case videoPath != "":
		draft.Media, err = loadMedia(inpost.MediaVideo, videoPath, contentTypeFlag)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintf(out, "[dry-run] would post: %q\n", draft.Text)
		if draft.Media != nil {
			fmt.Fprintf(out, "[dry-run] %s: %s (%s, %d bytes)\n", draft.Media.Kind, draft.Media.Filename, draft.Media.ContentType, len(draft.Media.Data))
		}
		return nil
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "posting to %s...\n", s.publisher.Name())
	if draft.Media != nil {
		err = s.publisher.CreatePostWithMedia(cmd.Context(), s.cred, draft)
	} else {
		err = s.publisher.CreateTextPost(cmd.Context(), s.cred, draft.Text)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.publisher.Name(), err)
	}
	fmt.Fprintf(out, "posted to %s\n", s.publisher.Name())
	return nil
}

func loadMedia(kind inpost.MediaKind, path, contentType string) (*inpost.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, inpost.ValidationError{Provider: "inpost", Reason: fmt.Sprintf("%s %q not found", kind, path)}
		}
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}
	if len(data) == 0 {
		return nil, inpost.ValidationError{Provider: "inpost", Reason: fmt.Sprintf("%s %q is empty", kind, path)}
	}

	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}

	return &inpost.Media{
		Kind:        kind,
		ContentType: contentType,
		Filename:    filepath.Base(path),
		Data:        data,
	}, nil
}
