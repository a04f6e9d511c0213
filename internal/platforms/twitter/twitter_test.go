package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rishuramani/RC/pkg/logging"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{BearerToken: "test-token", BaseURL: serverURL}, logging.NewLoggerWithService("twitter-test"))
}

func TestCreateTweet(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tweets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "1900000000000000001"}})
	}))
	defer server.Close()

	id, err := newTestClient(server.URL).CreateTweet(context.Background(), "Houston occupancy holds at 90.4%")
	if err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}
	if id != "1900000000000000001" {
		t.Fatalf("unexpected tweet id %q", id)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
	if gotBody["text"] != "Houston occupancy holds at 90.4%" {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
	if _, hasReply := gotBody["reply"]; hasReply {
		t.Fatal("single tweet should not include a reply field")
	}
}

func TestCreateThreadChainsReplies(t *testing.T) {
	var payloads []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		payloads = append(payloads, body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "id_" + body["text"].(string)[:2]},
		})
	}))
	defer server.Close()

	ids, err := newTestClient(server.URL).CreateThread(context.Background(), []string{
		"1/ Supply wave peaked.",
		"2/ Deliveries slow from here.",
		"3/ Occupancy stabilizes.",
	})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 tweet ids, got %v", ids)
	}

	if _, hasReply := payloads[0]["reply"]; hasReply {
		t.Fatal("thread root should not reply to anything")
	}
	reply, ok := payloads[1]["reply"].(map[string]any)
	if !ok || reply["in_reply_to_tweet_id"] != ids[0] {
		t.Fatalf("second tweet should reply to the root, got %v", payloads[1])
	}
	reply, ok = payloads[2]["reply"].(map[string]any)
	if !ok || reply["in_reply_to_tweet_id"] != ids[1] {
		t.Fatalf("third tweet should reply to the second, got %v", payloads[2])
	}
}

func TestCreateThreadEmpty(t *testing.T) {
	if _, err := newTestClient("http://unused").CreateThread(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty thread")
	}
}

func TestSearchRecentResolvesAuthors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tweets/search/recent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "multifamily houston" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id": "t1", "text": "Houston absorption is strong", "author_id": "u1",
					"created_at": "2026-02-16T12:00:00Z",
					"public_metrics": map[string]int{
						"like_count": 50, "retweet_count": 15, "reply_count": 5, "quote_count": 2,
					},
				},
			},
			"includes": map[string]any{
				"users": []map[string]string{{"id": "u1", "username": "analyst_one"}},
			},
		})
	}))
	defer server.Close()

	tweets, err := newTestClient(server.URL).SearchRecent(context.Background(), "multifamily houston", 20)
	if err != nil {
		t.Fatalf("SearchRecent: %v", err)
	}
	if len(tweets) != 1 {
		t.Fatalf("expected 1 tweet, got %d", len(tweets))
	}
	if tweets[0].AuthorUsername != "analyst_one" {
		t.Fatalf("author not resolved: %+v", tweets[0])
	}
	if got := tweets[0].Metrics.Engagement(); got != 72 {
		t.Fatalf("expected engagement 72, got %d", got)
	}
}

func TestUserTweetsLooksUpUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/users/by/username/jburns":
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "42"}})
		case r.URL.Path == "/users/42/tweets":
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"id": "t9", "text": "CRE update", "created_at": "2026-02-16T10:00:00Z"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	tweets, err := newTestClient(server.URL).UserTweets(context.Background(), "jburns", 10)
	if err != nil {
		t.Fatalf("UserTweets: %v", err)
	}
	if len(tweets) != 1 || tweets[0].AuthorUsername != "jburns" || tweets[0].AuthorID != "42" {
		t.Fatalf("unexpected tweets: %+v", tweets)
	}
}

func TestTweetMetricsMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"public_metrics": map[string]int{
					"like_count": 30, "reply_count": 5, "retweet_count": 10,
					"quote_count": 5, "impression_count": 2500,
				},
			},
		})
	}))
	defer server.Close()

	m, err := newTestClient(server.URL).TweetMetrics(context.Background(), "t1")
	if err != nil {
		t.Fatalf("TweetMetrics: %v", err)
	}
	if m.Likes != 30 || m.Comments != 5 || m.Shares != 15 || m.Impressions != 2500 || m.Clicks != 0 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestErrorStatusIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"not permitted"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CreateTweet(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "not permitted") {
		t.Fatalf("expected error with response body, got %v", err)
	}
}

func TestConfigured(t *testing.T) {
	logger := logging.NewLoggerWithService("twitter-test")
	if !NewClient(Config{BearerToken: "x"}, logger).Configured() {
		t.Fatal("client with token should be configured")
	}
	if NewClient(Config{}, logger).Configured() {
		t.Fatal("client without token should not be configured")
	}
}

func TestMockModeReturnsCannedResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("mock client must not hit the network: %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	client := NewClient(Config{MockMode: true, BaseURL: server.URL}, logging.NewLoggerWithService("twitter-test"))
	if !client.Configured() {
		t.Fatal("mock client should report configured")
	}

	id, err := client.CreateTweet(context.Background(), "anything")
	if err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}
	if id != "mock_tweet_123" {
		t.Fatalf("unexpected tweet id %q", id)
	}

	ids, err := client.CreateThread(context.Background(), []string{"one", "two", "three"})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if len(ids) != 3 || ids[0] != "mock_thread_123" || ids[1] != "mock_thread_123_1" {
		t.Fatalf("unexpected thread ids %v", ids)
	}

	metrics, err := client.TweetMetrics(context.Background(), "any")
	if err != nil {
		t.Fatalf("TweetMetrics: %v", err)
	}
	if metrics.Impressions != 2500 || metrics.Likes != 30 {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}

func TestMockModeSearchAndTimeline(t *testing.T) {
	client := NewClient(Config{MockMode: true}, logging.NewLoggerWithService("twitter-test"))

	tweets, err := client.SearchRecent(context.Background(), "multifamily", 10)
	if err != nil {
		t.Fatalf("SearchRecent: %v", err)
	}
	if len(tweets) != 5 {
		t.Fatalf("expected 5 canned results, got %d", len(tweets))
	}
	if tweets[0].ID != "mock_search_0" || tweets[0].AuthorUsername != "analyst_0" {
		t.Fatalf("unexpected first result: %+v", tweets[0])
	}
	if !strings.Contains(tweets[2].Text, "multifamily") {
		t.Fatalf("query not reflected in canned text: %q", tweets[2].Text)
	}
	if tweets[1].Metrics.Engagement() <= tweets[0].Metrics.Engagement() {
		t.Fatal("canned engagement should increase with index")
	}

	tweets, err = client.UserTweets(context.Background(), "jburns", 2)
	if err != nil {
		t.Fatalf("UserTweets: %v", err)
	}
	if len(tweets) != 2 {
		t.Fatalf("expected maxResults to cap canned results, got %d", len(tweets))
	}
	if tweets[0].ID != "mock_user_tweet_0" || !strings.Contains(tweets[0].Text, "@jburns") {
		t.Fatalf("unexpected timeline result: %+v", tweets[0])
	}
}
