package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rishuramani/RC/pkg/logging"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		AccessToken: "test-token",
		AuthorURN:   "urn:li:person:abcd1234",
		BaseURL:     serverURL,
	}, logging.NewLoggerWithService("linkedin-test"))
}

func TestCreatePost(t *testing.T) {
	var gotBody map[string]any
	var gotProto string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ugcPosts", r.URL.Path)
		gotProto = r.Header.Get("X-Restli-Protocol-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "urn:li:share:987654"})
	}))
	defer server.Close()

	id, err := newTestClient(server.URL).CreatePost(context.Background(), "Supply wave insights from Houston.")
	require.NoError(t, err)
	require.Equal(t, "urn:li:share:987654", id)
	require.Equal(t, "2.0.0", gotProto)
	require.Equal(t, "urn:li:person:abcd1234", gotBody["author"])
	require.Equal(t, "PUBLISHED", gotBody["lifecycleState"])

	content, ok := gotBody["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
	require.True(t, ok, "missing share content: %v", gotBody)
	commentary := content["shareCommentary"].(map[string]any)
	require.Equal(t, "Supply wave insights from Houston.", commentary["text"])
}

func TestCreatePostErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreatePost(context.Background(), "hello")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "token expired"), "expected error with response body, got %v", err)
}

func TestPostMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/socialActions/"), "unexpected path %s", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"likesSummary":    map[string]int{"totalLikes": 45},
			"commentsSummary": map[string]int{"aggregatedTotalComments": 8},
		})
	}))
	defer server.Close()

	m, err := newTestClient(server.URL).PostMetrics(context.Background(), "urn:li:share:987654")
	require.NoError(t, err)
	require.Equal(t, 45, m.LikesSummary.TotalLikes)
	require.Equal(t, 8, m.CommentsSummary.TotalComments)
}

func TestProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":                 "abcd1234",
			"localizedFirstName": "Michael",
			"localizedLastName":  "Rosen",
		})
	}))
	defer server.Close()

	p, err := newTestClient(server.URL).Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, Profile{ID: "abcd1234", FirstName: "Michael", LastName: "Rosen"}, p)
}

func TestConfigured(t *testing.T) {
	logger := logging.NewLoggerWithService("linkedin-test")
	require.True(t, NewClient(Config{AccessToken: "x", AuthorURN: "urn:li:person:1"}, logger).Configured())
	require.False(t, NewClient(Config{AccessToken: "x"}, logger).Configured())
}

func TestMockModeReturnsCannedResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("mock client must not hit the network: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := NewClient(Config{MockMode: true, BaseURL: server.URL}, logging.NewLoggerWithService("linkedin-test"))
	require.True(t, client.Configured())

	id, err := client.CreatePost(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, "mock_linkedin_post_123", id)

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, Profile{ID: "mock_user_id", FirstName: "Michael", LastName: "Rosen"}, profile)

	actions, err := client.PostMetrics(context.Background(), "any")
	require.NoError(t, err)
	require.Equal(t, 45, actions.LikesSummary.TotalLikes)
	require.Equal(t, 8, actions.CommentsSummary.TotalComments)
}

func TestRecentPosts(t *testing.T) {
	logger := logging.NewLoggerWithService("linkedin-test")

	queries := []string{"multifamily real estate", "workforce housing investment"}
	posts, err := NewClient(Config{MockMode: true}, logger).RecentPosts(context.Background(), queries, nil, 30)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "li_post_0", posts[0].ID)
	require.Equal(t, "Industry Analyst 1", posts[0].Author)
	require.Contains(t, posts[0].Body, "multifamily real estate")
	require.Equal(t, 120, posts[0].Engagement)
	require.Equal(t, 150, posts[1].Engagement)

	// Limit caps the batch.
	posts, err = NewClient(Config{MockMode: true}, logger).RecentPosts(context.Background(), queries, nil, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Outside mock mode there is no search surface.
	posts, err = NewClient(Config{AccessToken: "x", AuthorURN: "urn:li:person:1"}, logger).RecentPosts(context.Background(), queries, nil, 30)
	require.NoError(t, err)
	require.Empty(t, posts)
}
