package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/game/rules"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func newEngine(t *testing.T) *game.Engine {
	t.Helper()
	settings := game.DefaultSettings()
	settings.Seed = 11
	e, err := game.NewGame(settings, maps.Default(), game.NewScriptedInput(), nil, nil)
	require.NoError(t, err)
	return e
}

func TestSpectatorReceivesLatestViewOnConnect(t *testing.T) {
	hub, srv := startHub(t)
	e := newEngine(t)
	hub.PublishView(e.View())

	conn := dial(t, srv)
	msg := readMessage(t, conn)

	assert.Equal(t, MessageView, msg.Type)
	require.NotNil(t, msg.View)
	assert.Equal(t, e.State().ID, msg.View.GameID)
	assert.Equal(t, "ACTION", msg.View.Phase)
}

func TestSpectatorReceivesEvents(t *testing.T) {
	hub, srv := startHub(t)
	e := newEngine(t)
	detach := hub.Attach(e)
	defer detach()

	conn := dial(t, srv)
	first := readMessage(t, conn)
	assert.Equal(t, MessageView, first.Type)

	p := e.State().CurrentPlayer()
	require.NoError(t, e.Execute(p, []string{"pass"}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageEvent, msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, rules.EventActionTaken, msg.Event.Type)
	assert.Equal(t, "pass", msg.Event.Data)
	require.NotNil(t, msg.View)
	assert.Equal(t, game.DefaultSettings().ActionNum-1, msg.View.ActionsLeft)
}

func TestSpectatorsShareBroadcasts(t *testing.T) {
	hub, srv := startHub(t)
	e := newEngine(t)
	hub.PublishView(e.View())

	a := dial(t, srv)
	b := dial(t, srv)
	readMessage(t, a)
	readMessage(t, b)

	hub.Publish(rules.NewEvent(rules.EventOutbreak, 0, "", "atlanta"), e.View())

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, rules.EventOutbreak, msg.Event.Type)
		assert.Equal(t, "atlanta", msg.Event.City)
	}
}

func TestDetachStopsForwarding(t *testing.T) {
	hub := NewHub(nil)
	e := newEngine(t)
	detach := hub.Attach(e)
	detach()

	p := e.State().CurrentPlayer()
	require.NoError(t, e.Execute(p, []string{"pass"}))
	assert.Len(t, hub.broadcast, 1, "only the initial view is queued")
}

func TestServeState(t *testing.T) {
	hub, srv := startHub(t)

	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	e := newEngine(t)
	hub.PublishView(e.View())

	resp, err = http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, len(e.View().Players), len(msg.View.Players))
}

func TestHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
	// Publishing after shutdown must not block.
	hub.PublishView(game.View{})
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp.StatusCode
}

func TestServeJournal(t *testing.T) {
	hub, srv := startHub(t)
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/journal", nil))

	e := newEngine(t)
	detach := hub.Attach(e)
	defer detach()

	var summary JournalSummary
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/journal", &summary))
	assert.Equal(t, 0, summary.Size)
	assert.Nil(t, summary.Latest)

	first, err := e.Journal().Record(e.State())
	require.NoError(t, err)
	p := e.State().CurrentPlayer()
	require.NoError(t, e.Execute(p, []string{"pass"}))
	second, err := e.Journal().Record(e.State())
	require.NoError(t, err)
	assert.NotEqual(t, first.Checksum, second.Checksum)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/journal", &summary))
	assert.Equal(t, 2, summary.Size)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, second.ID, summary.Latest.ID)

	var entry game.JournalEntry
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/journal?at=0", &entry))
	assert.Equal(t, first.ID, entry.ID)
	assert.Equal(t, first.Checksum, entry.Checksum)
	assert.Equal(t, e.State().ID, entry.View.GameID)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/journal?at=2", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/journal?at=last", nil))
}
