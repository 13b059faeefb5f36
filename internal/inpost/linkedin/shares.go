package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/blacktop/inpost/internal/logutil"
)

type shareText struct {
	Text string `json:"text"`
}

type textShareRequest struct {
	Text shareText `json:"text"`
}

// CreateTextPost publishes a text-only share.
func (c *Client) CreateTextPost(ctx context.Context, cred inpost.Credential, text string) error {
	const op = "create post"
	if err := checkCredential(op, cred); err != nil {
		return err
	}
	if err := checkText(op, "post text", text); err != nil {
		return err
	}

	logutil.Debugf("posting share: chars=%d", len(text))
	return c.createShare(ctx, cred, op, textShareRequest{Text: shareText{Text: text}})
}

func (c *Client) createShare(ctx context.Context, cred inpost.Credential, op string, payload any) error {
	body, err := marshalJSON(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}
	_, err = c.send(ctx, cred, call{
		op:          op,
		method:      http.MethodPost,
		route:       "/shares",
		path:        "/shares",
		body:        body,
		contentType: "application/json; charset=utf-8",
	})
	return err
}

// DeletePost removes a share. Only 204 No Content counts as success.
func (c *Client) DeletePost(ctx context.Context, cred inpost.Credential, id inpost.PostID) error {
	const op = "delete post"
	if err := checkCredential(op, cred); err != nil {
		return err
	}
	if err := checkPostID(op, id); err != nil {
		return err
	}

	_, err := c.send(ctx, cred, call{
		op:     op,
		method: http.MethodDelete,
		route:  "/shares/{id}",
		path:   "/shares/" + escapeID(id),
		expect: http.StatusNoContent,
	})
	if err != nil {
		return err
	}
	logutil.Debugf("share deleted: id=%s", id)
	return nil
}

// FetchRawPostContent returns the share document exactly as the API sent it.
func (c *Client) FetchRawPostContent(ctx context.Context, cred inpost.Credential, id inpost.PostID) (string, error) {
	const op = "fetch post"
	if err := checkCredential(op, cred); err != nil {
		return "", err
	}
	if err := checkPostID(op, id); err != nil {
		return "", err
	}

	body, err := c.send(ctx, cred, call{
		op:     op,
		method: http.MethodGet,
		route:  "/shares/{id}",
		path:   "/shares/" + escapeID(id),
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// RepostExisting republishes the text of an existing share as a new share.
// Nothing is created when the source cannot be fetched.
func (c *Client) RepostExisting(ctx context.Context, cred inpost.Credential, source inpost.PostID) error {
	const op = "repost"
	if err := checkCredential(op, cred); err != nil {
		return err
	}
	if err := checkPostID(op, source); err != nil {
		return err
	}

	raw, err := c.FetchRawPostContent(ctx, cred, source)
	if err != nil {
		return err
	}

	text, err := repostText(op, raw)
	if err != nil {
		return err
	}

	logutil.Debugf("reposting share: source=%s chars=%d", source, len(text))
	return c.createShare(ctx, cred, op, textShareRequest{Text: shareText{Text: text}})
}

// repostText picks the text to republish: text.text of a share document, or
// the raw body itself when it is not JSON.
func repostText(op, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", inpost.ValidationError{Provider: providerName, Op: op, Reason: "source post is empty"}
	}
	if !json.Valid([]byte(raw)) {
		return raw, nil
	}

	var share textShareRequest
	if err := json.Unmarshal([]byte(raw), &share); err != nil {
		return "", inpost.DeserializationError{Provider: providerName, Op: op, Err: err}
	}
	if strings.TrimSpace(share.Text.Text) == "" {
		return "", inpost.ValidationError{Provider: providerName, Op: op, Reason: "source post has no text"}
	}
	return share.Text.Text, nil
}
