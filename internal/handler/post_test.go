package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type postPayload struct {
	Post struct {
		ID     uint64 `json:"id"`
		UserID uint64 `json:"user_id"`
		Text   string `json:"text"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	} `json:"post"`
}

func (a *testAPI) createPost(t *testing.T, token, text string) postPayload {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/api/posts", token, map[string]string{"text": text})
	require.Equal(t, http.StatusCreated, code)
	var p postPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestCreatePostUsesIdentitySnapshot(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Jane", "jane@example.com", "secret1")

	p := api.createPost(t, token, "hello from the feed test")
	require.Equal(t, "Jane", p.Post.Name)
	require.Contains(t, p.Post.Avatar, "gravatar.com")
	require.Equal(t, "hello from the feed test", p.Post.Text)
}

func TestCreatePostRequiresAuthAndValidText(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Jane", "jane@example.com", "secret1")

	code, _ := api.do(t, http.MethodPost, "/api/posts", "", map[string]string{"text": "long enough text"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, env := api.do(t, http.MethodPost, "/api/posts", token, map[string]string{"text": "short"})
	require.Equal(t, http.StatusBadRequest, code)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &fields))
	require.Contains(t, fields, "text")
}

func TestFeedIsPublicAndNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Jane", "jane@example.com", "secret1")
	first := api.createPost(t, token, "the first feed entry")
	second := api.createPost(t, token, "the second feed entry")

	code, env := api.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Posts []struct {
			ID uint64 `json:"id"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Posts, 2)
	require.Equal(t, second.Post.ID, list.Posts[0].ID)
	require.Equal(t, first.Post.ID, list.Posts[1].ID)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	api := newTestAPI(t)
	janeTok := api.register(t, "Jane", "jane@example.com", "secret1")
	otherTok := api.register(t, "Other", "other@example.com", "secret1")
	p := api.createPost(t, janeTok, "jane's very own post here")

	code, env := api.do(t, http.MethodDelete, "/api/posts/"+itoa(p.Post.ID), otherTok, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "User not authorized to delete this post", env.Message)

	code, _ = api.do(t, http.MethodDelete, "/api/posts/"+itoa(p.Post.ID), janeTok, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(t, http.MethodGet, "/api/posts/"+itoa(p.Post.ID), "", nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestLikeUnlikeFlow(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Jane", "jane@example.com", "secret1")
	p := api.createPost(t, token, "a likeable post indeed")
	path := "/api/posts/like/" + itoa(p.Post.ID)

	code, env := api.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, code)
	var likes struct {
		Likes []struct {
			UserID uint64 `json:"user_id"`
		} `json:"likes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &likes))
	require.Len(t, likes.Likes, 1)

	code, env = api.do(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Post already liked by this user", env.Message)

	code, _ = api.do(t, http.MethodPost, "/api/posts/unlike/"+itoa(p.Post.ID), token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = api.do(t, http.MethodPost, "/api/posts/unlike/"+itoa(p.Post.ID), token, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Post has not yet been liked by this user", env.Message)
}

func TestCommentFlow(t *testing.T) {
	api := newTestAPI(t)
	janeTok := api.register(t, "Jane", "jane@example.com", "secret1")
	otherTok := api.register(t, "Other", "other@example.com", "secret1")
	p := api.createPost(t, janeTok, "a post that invites comments")

	code, env := api.do(t, http.MethodPost, "/api/posts/comment/"+itoa(p.Post.ID), otherTok,
		map[string]string{"text": "what a great post this is"})
	require.Equal(t, http.StatusCreated, code)
	var comments struct {
		Comments []struct {
			ID     uint64 `json:"id"`
			UserID uint64 `json:"user_id"`
			Name   string `json:"name"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments.Comments, 1)
	require.Equal(t, "Other", comments.Comments[0].Name)

	commentID := comments.Comments[0].ID
	delPath := "/api/posts/comment/" + itoa(p.Post.ID) + "/" + itoa(commentID)

	// The post author did not write the comment, so they may not delete it.
	code, _ = api.do(t, http.MethodDelete, delPath, janeTok, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(t, http.MethodDelete, delPath, otherTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Empty(t, comments.Comments)

	code, _ = api.do(t, http.MethodDelete, delPath, otherTok, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestPostInvalidIDFormat(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "Jane", "jane@example.com", "secret1")

	code, env := api.do(t, http.MethodGet, "/api/posts/abc", "", nil)
	require.Equal(t, http.StatusNotFound, code)
	require.Contains(t, env.Message, "invalid ID format")

	code, _ = api.do(t, http.MethodPost, "/api/posts/like/abc", token, nil)
	require.Equal(t, http.StatusNotFound, code)
}
