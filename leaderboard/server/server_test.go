package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/plus3/blockfall/leaderboard"
	"github.com/plus3/blockfall/leaderboard/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	store.Storage
}

func (failingStore) Top(context.Context, int) ([]leaderboard.Entry, error) {
	return nil, errors.New("database down")
}

func (failingStore) Record(context.Context, leaderboard.Submission) (int, error) {
	return 0, errors.New("database down")
}

func (failingStore) PlayerStats(context.Context, string) (*leaderboard.PlayerStats, error) {
	return nil, errors.New("database down")
}

func newTestServer(t *testing.T, st store.Storage) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(Config{Store: st, AllowOrigins: []string{"http://localhost:8080"}})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Feed().Close()
		ts.Close()
	})
	return srv, ts
}

func post(t *testing.T, url, body string) (*http.Response, leaderboard.SubmitResponse) {
	t.Helper()
	resp, err := http.Post(url+"/api/leaderboard/submit", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out leaderboard.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestSubmitValidation(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemoryStore())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed body", `{"player_name":`, "request body"},
		{"short name", `{"player_name":" a ","score":10}`, "player name"},
		{"long name", `{"player_name":"` + strings.Repeat("n", 21) + `","score":10}`, "player name"},
		{"zero score", `{"player_name":"ada","score":0}`, "score must be greater than 0"},
		{"negative score", `{"player_name":"ada","score":-5}`, "score must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, ts.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, out.Success)
			assert.Contains(t, out.Error, tt.want)
		})
	}
}

func TestSubmitRecordsAndRanks(t *testing.T) {
	st := store.NewMemoryStore()
	_, ts := newTestServer(t, st)
	ctx := context.Background()

	for i := range 10 {
		_, err := st.Record(ctx, leaderboard.Submission{PlayerName: fmt.Sprintf("p%d", i), Score: 1000 + i})
		require.NoError(t, err)
	}

	resp, out := post(t, ts.URL, `{"player_name":"  ada  ","score":1005,"level":3,"lines_cleared":25,"game_duration":80}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, 6, out.Rank)
	assert.Contains(t, out.Message, "#6")

	resp, out = post(t, ts.URL, `{"player_name":"bob","score":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, 12, out.Rank)
	assert.Contains(t, out.Message, "recorded")

	stats, err := st.PlayerStats(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.HighestLevel)

	// Games outside the top ten are still recorded.
	stats, err = st.PlayerStats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.HighestLevel, "level defaults to 1")
}

func TestSubmitStorageFailure(t *testing.T) {
	_, ts := newTestServer(t, failingStore{})

	resp, out := post(t, ts.URL, `{"player_name":"ada","score":10}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, out.Error, "database down")
}

func TestLeaderboardThroughClient(t *testing.T) {
	st := store.NewMemoryStore()
	_, ts := newTestServer(t, st)
	client := leaderboard.NewClient(ts.URL, nil)
	ctx := context.Background()

	entries, err := client.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for i := range 12 {
		_, err := client.Submit(ctx, leaderboard.Submission{PlayerName: "ada", Score: (i + 1) * 10, Level: 1})
		require.NoError(t, err)
	}

	entries, err = client.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, leaderboard.Size)
	assert.Equal(t, 120, entries[0].Score)
	assert.Equal(t, 30, entries[9].Score)
	assert.False(t, entries[0].CreatedAt.IsZero())
	assert.False(t, leaderboard.Qualifies(entries, 30))
	assert.True(t, leaderboard.Qualifies(entries, 31))
}

func TestPlayerStatsEndpoint(t *testing.T) {
	st := store.NewMemoryStore()
	_, ts := newTestServer(t, st)
	ctx := context.Background()

	for _, score := range []int{100, 200, 200} {
		_, err := st.Record(ctx, leaderboard.Submission{PlayerName: "ada lovelace", Score: score, Level: 2, LinesCleared: 3})
		require.NoError(t, err)
	}

	client := leaderboard.NewClient(ts.URL, nil)

	stats, err := client.PlayerStats(ctx, "ada lovelace")
	require.NoError(t, err)
	assert.Equal(t, &leaderboard.PlayerStats{
		TotalGames:   3,
		HighestScore: 200,
		AverageScore: 166.67,
		TotalLines:   9,
		HighestLevel: 2,
	}, stats)

	var apiErr *leaderboard.APIError
	_, err = client.PlayerStats(ctx, "grace")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = client.PlayerStats(ctx, "  ")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestLeaderboardStorageFailure(t *testing.T) {
	_, ts := newTestServer(t, failingStore{})

	resp, err := http.Get(ts.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealthAndCORS(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemoryStore())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:8080", "http://localhost:8080"},
		{"http://evil.example", ""},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/leaderboard/submit", nil)
		req.Header.Set("Origin", tt.origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, tt.want, resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/leaderboard"
}

func readFeed(t *testing.T, conn *websocket.Conn) leaderboard.FeedMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg leaderboard.FeedMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestFeedPushesStandings(t *testing.T) {
	srv, ts := newTestServer(t, store.NewMemoryStore())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()

	initial := readFeed(t, conn)
	assert.Equal(t, leaderboard.FeedStandings, initial.Type)
	assert.Empty(t, initial.Entries)

	assert.Eventually(t, func() bool { return srv.Feed().Clients() == 1 }, time.Second, time.Millisecond)

	resp, _ := post(t, ts.URL, `{"player_name":"ada","score":300}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := readFeed(t, conn)
	require.Len(t, update.Entries, 1)
	assert.Equal(t, "ada", update.Entries[0].Name)
	assert.Equal(t, 300, update.Entries[0].Score)
}

func TestFeedRejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemoryStore())

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestFeedWithSubscribe(t *testing.T) {
	_, ts := newTestServer(t, store.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan []leaderboard.Entry, 4)
	go leaderboard.Subscribe(ctx, wsURL(ts), func(entries []leaderboard.Entry) {
		updates <- entries
	})

	select {
	case entries := <-updates:
		assert.Empty(t, entries)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial standings")
	}

	_, err := leaderboard.NewClient(ts.URL, nil).Submit(ctx, leaderboard.Submission{PlayerName: "grace", Score: 42, Level: 1})
	require.NoError(t, err)

	select {
	case entries := <-updates:
		require.Len(t, entries, 1)
		assert.Equal(t, "grace", entries[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no standings after submit")
	}
}
