package linkedin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/blacktop/inpost/internal/logutil"
)

const (
	recipeImage = "urn:li:digitalmediaRecipe:feedshare-image"
	recipeVideo = "urn:li:digitalmediaRecipe:feedshare-video"
)

type registerUploadRequest struct {
	RegisterUploadRequest struct {
		Recipes []string `json:"recipes"`
	} `json:"registerUploadRequest"`
}

type registerUploadResponse struct {
	Value struct {
		Asset string `json:"asset"`
	} `json:"value"`
}

type contentEntity struct {
	Entity string `json:"entity"`
}

type shareContent struct {
	ContentEntities []contentEntity `json:"contentEntities"`
	Title           string          `json:"title,omitempty"`
}

type distributionTarget struct {
	VisibleToGuest bool `json:"visibleToGuest"`
}

type shareDistribution struct {
	LinkedInDistributionTarget distributionTarget `json:"linkedInDistributionTarget"`
}

type mediaShareRequest struct {
	Text         shareText         `json:"text"`
	Content      shareContent      `json:"content"`
	Distribution shareDistribution `json:"distribution"`
}

// CreatePostWithMedia uploads the attachment through registerUpload and then
// publishes a share referencing the returned asset. The share is never
// created when the upload fails.
func (c *Client) CreatePostWithMedia(ctx context.Context, cred inpost.Credential, draft inpost.PostDraft) error {
	const op = "create media post"
	if err := checkCredential(op, cred); err != nil {
		return err
	}
	if !draft.HasText() {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: "post text is required"}
	}
	if draft.Media == nil || len(draft.Media.Data) == 0 {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: "media is required"}
	}
	if !draft.Media.Kind.Valid() {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: fmt.Sprintf("unsupported media kind %q", draft.Media.Kind)}
	}

	media := normalizeMedia(*draft.Media)
	logutil.Debugf("registering upload: kind=%s content_type=%s bytes=%d", media.Kind, media.ContentType, len(media.Data))
	asset, err := c.registerUpload(ctx, cred, op, media)
	if err != nil {
		return err
	}
	logutil.Debugf("upload registered: asset=%s", asset)

	return c.createShare(ctx, cred, op, mediaShareRequest{
		Text: shareText{Text: draft.Text},
		Content: shareContent{
			ContentEntities: []contentEntity{{Entity: asset}},
			Title:           media.Filename,
		},
		Distribution: shareDistribution{
			LinkedInDistributionTarget: distributionTarget{VisibleToGuest: true},
		},
	})
}

func (c *Client) registerUpload(ctx context.Context, cred inpost.Credential, op string, media inpost.Media) (string, error) {
	body, contentType, err := uploadBody(media)
	if err != nil {
		return "", fmt.Errorf("%s: build upload body: %w", op, err)
	}

	resp, err := c.send(ctx, cred, call{
		op:          op,
		method:      http.MethodPost,
		route:       "/assets",
		path:        "/assets",
		query:       url.Values{"action": []string{"registerUpload"}},
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return "", err
	}

	var reg registerUploadResponse
	if err := decodeJSON(op, resp, &reg); err != nil {
		return "", err
	}
	if strings.TrimSpace(reg.Value.Asset) == "" {
		return "", inpost.DeserializationError{Provider: providerName, Op: op, Err: errors.New("response has no asset")}
	}
	return reg.Value.Asset, nil
}

// uploadBody builds the multipart document: a "json" part describing the
// upload and a "file" part carrying the raw bytes.
func uploadBody(media inpost.Media) ([]byte, string, error) {
	var reg registerUploadRequest
	reg.RegisterUploadRequest.Recipes = []string{recipeFor(media.Kind)}
	meta, err := marshalJSON(reg)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	jsonHeader := make(textproto.MIMEHeader)
	jsonHeader.Set("Content-Disposition", `form-data; name="json"`)
	jsonHeader.Set("Content-Type", "application/json; charset=utf-8")
	part, err := mw.CreatePart(jsonHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(meta); err != nil {
		return nil, "", err
	}

	fileHeader := make(textproto.MIMEHeader)
	fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(media.Filename)))
	fileHeader.Set("Content-Type", media.ContentType)
	part, err = mw.CreatePart(fileHeader)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(media.Data); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func recipeFor(kind inpost.MediaKind) string {
	if kind == inpost.MediaVideo {
		return recipeVideo
	}
	return recipeImage
}

// normalizeMedia fills in the filename and content type when the caller left
// them empty.
func normalizeMedia(m inpost.Media) inpost.Media {
	if strings.TrimSpace(m.Filename) == "" {
		switch m.Kind {
		case inpost.MediaVideo:
			m.Filename = "video.mp4"
		default:
			m.Filename = "image.jpg"
		}
	}
	if strings.TrimSpace(m.ContentType) == "" {
		m.ContentType = http.DetectContentType(m.Data)
	}
	return m
}
