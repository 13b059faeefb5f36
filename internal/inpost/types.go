package inpost

import (
	"context"
	"strings"
	"time"
)

// Credential is the bearer token attached to every outbound request.
type Credential string

// PostID identifies a post assigned by the remote service.
type PostID string

// MediaKind distinguishes image and video attachments.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is a supported attachment kind.
func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

// Media is a binary attachment held fully in memory.
type Media struct {
	Kind        MediaKind
	ContentType string
	Filename    string
	Data        []byte
}

// PostDraft is the payload that becomes a remote post.
type PostDraft struct {
	Text  string
	Media *Media
}

// HasText reports whether the draft carries non-blank text.
func (d PostDraft) HasText() bool {
	return strings.TrimSpace(d.Text) != ""
}

// Comment is a single comment left on a post.
type Comment struct {
	Actor   string
	Text    string
	Created time.Time
}

// EngagementSummary holds the social counters of a post.
type EngagementSummary struct {
	Comments    int
	Likes       int
	Reshares    int
	Impressions int
}

// Publisher is a remote publishing service addressed with a per-call credential.
type Publisher interface {
	Name() string
	CreateTextPost(ctx context.Context, cred Credential, text string) error
	CreatePostWithMedia(ctx context.Context, cred Credential, draft PostDraft) error
	DeletePost(ctx context.Context, cred Credential, id PostID) error
	AddComment(ctx context.Context, cred Credential, id PostID, text string) error
	ListComments(ctx context.Context, cred Credential, id PostID) ([]Comment, error)
	GetEngagement(ctx context.Context, cred Credential, id PostID) (EngagementSummary, error)
	RepostExisting(ctx context.Context, cred Credential, source PostID) error
	FetchRawPostContent(ctx context.Context, cred Credential, id PostID) (string, error)
}
