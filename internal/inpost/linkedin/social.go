package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/blacktop/inpost/internal/logutil"
)

type commentRequest struct {
	Text string `json:"text"`
}

type commentActor struct {
	ID string `json:"id"`
}

type commentResponse struct {
	Actor   commentActor `json:"actor"`
	Text    string       `json:"text"`
	Created time.Time    `json:"created"`
}

type engagementResponse struct {
	Comments        int `json:"comments"`
	Likes           int `json:"likes"`
	Reshares        int `json:"reshares"`
	ImpressionCount int `json:"impressionCount"`
}

func commentsPath(id inpost.PostID) string {
	return "/socialActions/" + escapeID(id) + "/comments"
}

// AddComment leaves a comment on a post.
func (c *Client) AddComment(ctx context.Context, cred inpost.Credential, id inpost.PostID, text string) error {
	const op = "add comment"
	if err := checkCredential(op, cred); err != nil {
		return err
	}
	if err := checkPostID(op, id); err != nil {
		return err
	}
	if err := checkText(op, "comment text", text); err != nil {
		return err
	}

	body, err := marshalJSON(commentRequest{Text: text})
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}

	_, err = c.send(ctx, cred, call{
		op:          op,
		method:      http.MethodPost,
		route:       "/socialActions/{id}/comments",
		path:        commentsPath(id),
		body:        body,
		contentType: "application/json; charset=utf-8",
	})
	if err != nil {
		return err
	}
	logutil.Debugf("comment added: post=%s", id)
	return nil
}

// ListComments returns the comments of a post in the order the API lists them.
func (c *Client) ListComments(ctx context.Context, cred inpost.Credential, id inpost.PostID) ([]inpost.Comment, error) {
	const op = "list comments"
	if err := checkCredential(op, cred); err != nil {
		return nil, err
	}
	if err := checkPostID(op, id); err != nil {
		return nil, err
	}

	body, err := c.send(ctx, cred, call{
		op:     op,
		method: http.MethodGet,
		route:  "/socialActions/{id}/comments",
		path:   commentsPath(id),
	})
	if err != nil {
		return nil, err
	}

	var wire []commentResponse
	if err := decodeJSON(op, body, &wire); err != nil {
		return nil, err
	}

	comments := make([]inpost.Comment, 0, len(wire))
	for _, w := range wire {
		comments = append(comments, inpost.Comment{
			Actor:   w.Actor.ID,
			Text:    w.Text,
			Created: w.Created,
		})
	}
	logutil.Debugf("comments fetched: post=%s count=%d", id, len(comments))
	return comments, nil
}

// GetEngagement returns the social counters of a post.
func (c *Client) GetEngagement(ctx context.Context, cred inpost.Credential, id inpost.PostID) (inpost.EngagementSummary, error) {
	const op = "get engagement"
	if err := checkCredential(op, cred); err != nil {
		return inpost.EngagementSummary{}, err
	}
	if err := checkPostID(op, id); err != nil {
		return inpost.EngagementSummary{}, err
	}

	body, err := c.send(ctx, cred, call{
		op:     op,
		method: http.MethodGet,
		route:  "/socialActions/{id}",
		path:   "/socialActions/" + escapeID(id),
	})
	if err != nil {
		return inpost.EngagementSummary{}, err
	}

	var wire engagementResponse
	if err := decodeJSON(op, body, &wire); err != nil {
		return inpost.EngagementSummary{}, err
	}

	return inpost.EngagementSummary{
		Comments:    wire.Comments,
		Likes:       wire.Likes,
		Reshares:    wire.Reshares,
		Impressions: wire.ImpressionCount,
	}, nil
}
