package linkedin

import (
	"context"
	"net/http"
	"testing"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTextPost(t *testing.T) {
	t.Run("sends exact payload", func(t *testing.T) {
		client, api := newTestClient(t, reply(http.StatusCreated, ""))

		err := client.CreateTextPost(context.Background(), testToken, "Hello world")
		require.NoError(t, err)

		calls := api.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPost, calls[0].Method)
		assert.Equal(t, "/shares", calls[0].Path)
		assert.Equal(t, `{"text":{"text":"Hello world"}}`, string(calls[0].Body))
	})

	t.Run("escapes quotes in text", func(t *testing.T) {
		client, api := newTestClient(t, nil)

		require.NoError(t, client.CreateTextPost(context.Background(), testToken, `say "hi"`))
		assert.Equal(t, `{"text":{"text":"say \"hi\""}}`, string(api.calls()[0].Body))
	})

	t.Run("any 2xx succeeds", func(t *testing.T) {
		client, _ := newTestClient(t, reply(http.StatusOK, `{"id":"urn:li:share:1"}`))
		assert.NoError(t, client.CreateTextPost(context.Background(), testToken, "hi"))
	})

	t.Run("remote error carries status and body", func(t *testing.T) {
		client, _ := newTestClient(t, reply(http.StatusUnprocessableEntity, `{"message":"duplicate"}`))

		err := client.CreateTextPost(context.Background(), testToken, "hi")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusUnprocessableEntity, rerr.StatusCode)
		assert.Equal(t, `{"message":"duplicate"}`, rerr.Body)
		assert.Equal(t, "create post", rerr.Op)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("no content succeeds", func(t *testing.T) {
		client, api := newTestClient(t, reply(http.StatusNoContent, ""))

		require.NoError(t, client.DeletePost(context.Background(), testToken, "123"))

		calls := api.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodDelete, calls[0].Method)
		assert.Equal(t, "/shares/123", calls[0].Path)
		assert.Empty(t, calls[0].Body)
		assert.Empty(t, calls[0].Header.Get("Content-Type"))
	})

	t.Run("not found is a remote error", func(t *testing.T) {
		client, _ := newTestClient(t, reply(http.StatusNotFound, `{"status":404}`))

		err := client.DeletePost(context.Background(), testToken, "123")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
		assert.Equal(t, "delete post", rerr.Op)
	})

	t.Run("200 is not enough", func(t *testing.T) {
		client, _ := newTestClient(t, reply(http.StatusOK, ""))

		err := client.DeletePost(context.Background(), testToken, "123")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusOK, rerr.StatusCode)
	})

	t.Run("urn ids are addressed as one segment", func(t *testing.T) {
		client, api := newTestClient(t, reply(http.StatusNoContent, ""))

		require.NoError(t, client.DeletePost(context.Background(), testToken, "urn:li:share:42"))
		assert.Equal(t, "/shares/urn:li:share:42", api.calls()[0].Path)
	})
}

func TestFetchRawPostContent(t *testing.T) {
	t.Run("returns body verbatim", func(t *testing.T) {
		doc := `{"text":{"text":"original"},"owner":"urn:li:person:1"}`
		client, api := newTestClient(t, reply(http.StatusOK, doc))

		got, err := client.FetchRawPostContent(context.Background(), testToken, "7")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
		assert.Equal(t, http.MethodGet, api.calls()[0].Method)
		assert.Equal(t, "/shares/7", api.calls()[0].Path)
	})

	t.Run("non-2xx fails", func(t *testing.T) {
		client, _ := newTestClient(t, reply(http.StatusForbidden, "denied"))

		_, err := client.FetchRawPostContent(context.Background(), testToken, "7")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusForbidden, rerr.StatusCode)
		assert.Equal(t, "denied", rerr.Body)
	})
}

func TestRepostExisting(t *testing.T) {
	t.Run("republishes source text", func(t *testing.T) {
		client, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
			if r.Method == http.MethodGet {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"text":{"text":"worth sharing"}}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
		})

		require.NoError(t, client.RepostExisting(context.Background(), testToken, "9"))

		calls := api.calls()
		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodGet, calls[0].Method)
		assert.Equal(t, "/shares/9", calls[0].Path)
		assert.Equal(t, http.MethodPost, calls[1].Method)
		assert.Equal(t, "/shares", calls[1].Path)
		assert.Equal(t, `{"text":{"text":"worth sharing"}}`, string(calls[1].Body))
	})

	t.Run("fetch failure issues no create", func(t *testing.T) {
		client, api := newTestClient(t, reply(http.StatusInternalServerError, "boom"))

		err := client.RepostExisting(context.Background(), testToken, "9")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusInternalServerError, rerr.StatusCode)

		calls := api.calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodGet, calls[0].Method)
	})

	t.Run("create failure is returned", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
			if r.Method == http.MethodGet {
				_, _ = w.Write([]byte(`{"text":{"text":"again"}}`))
				return
			}
			w.WriteHeader(http.StatusTooManyRequests)
		})

		err := client.RepostExisting(context.Background(), testToken, "9")
		var rerr inpost.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusTooManyRequests, rerr.StatusCode)
		assert.Equal(t, "repost", rerr.Op)
	})
}

func TestRepostText(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "share document", raw: `{"text":{"text":"hello"}}`, want: "hello"},
		{name: "plain text", raw: "  just words \n", want: "just words"},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "share without text", raw: `{"owner":"urn:li:person:1"}`, wantErr: true},
		{name: "text of wrong shape", raw: `{"text":"flat"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repostText("repost", tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
