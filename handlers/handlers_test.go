package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"snake-arena/auth"
	"snake-arena/codec"
	"snake-arena/game"
	"snake-arena/lobby"
	"snake-arena/store"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newServer(t *testing.T) (*httptest.Server, *game.Manager, *auth.Issuer, store.Storage) {
	t.Helper()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	scores := store.NewMemoryStore()
	gm := game.NewGameManager(game.Options{ManualTicks: true, Seed: 1}, scores, issuer)

	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(gm))
	mux.Handle("/api/rooms", NewRoomsHandler(gm.Rooms))
	scoreHandler := NewScoreHandler(scores)
	mux.Handle("/api/scores", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			issuer.Middleware(gm)(scoreHandler).ServeHTTP(w, r)
			return
		}
		scoreHandler.ServeHTTP(w, r)
	}))

	srv := httptest.NewServer(WithCORS(mux))
	t.Cleanup(func() {
		srv.Close()
		gm.Shutdown()
	})
	return srv, gm, issuer, scores
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return f
}

// readUntil skips frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) frame {
	t.Helper()
	for i := 0; i < 20; i++ {
		if f := readFrame(t, conn); f.Type == msgType {
			return f
		}
	}
	t.Fatalf("no %s frame", msgType)
	return frame{}
}

func TestWebSocketSessionLifecycle(t *testing.T) {
	srv, gm, _, _ := newServer(t)
	conn := dial(t, srv, "")

	hello := readFrame(t, conn)
	if hello.Type != "connected" {
		t.Fatalf("expected connected first, got %s", hello.Type)
	}
	var connected game.ConnectedPayload
	if err := json.Unmarshal(hello.Data, &connected); err != nil {
		t.Fatal(err)
	}
	if connected.PlayerID == "" || connected.Token == "" {
		t.Fatalf("connected payload incomplete: %+v", connected)
	}
	if f := readFrame(t, conn); f.Type != "roomList" {
		t.Fatalf("expected roomList, got %s", f.Type)
	}

	if err := conn.WriteJSON(map[string]any{"type": "createRoom", "name": "ana", "gridSize": 20}); err != nil {
		t.Fatal(err)
	}
	created := readUntil(t, conn, "roomCreated")
	var joined game.RoomJoinedPayload
	if err := json.Unmarshal(created.Data, &joined); err != nil {
		t.Fatal(err)
	}
	if !joined.IsOwner || joined.PlayerID != connected.PlayerID {
		t.Fatalf("unexpected roomCreated %+v", joined)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("{broken"))
	errFrame := readUntil(t, conn, "error")
	var payload game.ErrorPayload
	json.Unmarshal(errFrame.Data, &payload)
	if payload.Code != "INVALID_COMMAND" {
		t.Fatalf("expected INVALID_COMMAND, got %+v", payload)
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for gm.Rooms.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("room not torn down after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if gm.SessionActive(connected.PlayerID) {
		t.Fatal("session still active after disconnect")
	}
}

func TestWebSocketMsgPackEncoding(t *testing.T) {
	srv, _, _, _ := newServer(t)
	conn := dial(t, srv, "?encoding=msgpack")

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("expected a binary frame, got %d", kind)
	}
	var env struct {
		Type string             `msgpack:"type"`
		Data msgpack.RawMessage `msgpack:"data"`
	}
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if env.Type != "connected" {
		t.Fatalf("expected connected, got %s", env.Type)
	}

	cmd, err := msgpack.Marshal(map[string]any{"type": "requestRoomList"})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, cmd); err != nil {
		t.Fatal(err)
	}
	// greeting roomList, then the reply
	for i := 0; i < 2; i++ {
		_, raw, err = conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if err := msgpack.Unmarshal(raw, &env); err != nil {
			t.Fatal(err)
		}
	}
	if env.Type != "roomList" {
		t.Fatalf("expected roomList reply, got %s", env.Type)
	}
}

func TestRoomsEndpoint(t *testing.T) {
	srv, gm, _, _ := newServer(t)
	s := gm.Connect(codec.ByName(codec.JSON))
	gm.HandleCommand(s.ID, game.Command{Type: "createRoom", Name: "ana"})

	resp, err := http.Get(srv.URL + "/api/rooms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var rooms []lobby.Summary
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].PlayerCount != 1 || !rooms[0].IsJoinable {
		t.Fatalf("unexpected listing %+v", rooms)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestScoresEndpoint(t *testing.T) {
	srv, gm, issuer, _ := newServer(t)

	post := func(token string, body string) int {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/scores", bytes.NewBufferString(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post("", `{"player_name":"ana","score":10}`); code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated post returned %d", code)
	}

	s := gm.Connect(codec.ByName(codec.JSON))
	token, err := issuer.GenerateToken(s.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, body := range []string{`{"player_name":"ana","score":10}`, `{"player_name":"bo","score":30}`} {
		if code := post(token, body); code != http.StatusCreated {
			t.Fatalf("post %s returned %d", body, code)
		}
	}
	if code := post(token, `{"player_name":"","score":5}`); code != http.StatusBadRequest {
		t.Fatalf("empty name accepted with %d", code)
	}

	resp, err := http.Get(srv.URL + "/api/scores?limit=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var top []store.ScoreEntry
	if err := json.NewDecoder(resp.Body).Decode(&top); err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].PlayerName != "bo" || top[0].Score != 30 {
		t.Fatalf("unexpected leaderboard %+v", top)
	}

	bad, err := http.Get(srv.URL + "/api/scores?limit=abc")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad limit returned %d", bad.StatusCode)
	}
}

func TestWebRTCOfferRequiresSession(t *testing.T) {
	gm := game.NewGameManager(game.Options{ManualTicks: true, Seed: 1}, nil, nil)
	h := NewWebRTCHandler(gm, nil)

	rec := httptest.NewRecorder()
	h.HandleOffer(rec, httptest.NewRequest(http.MethodPost, "/webrtc/offer", strings.NewReader(`{}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a player id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webrtc/offer", strings.NewReader(`{"offer":{"type":"offer"}}`))
	req.Header.Set("X-Player-ID", "someone")
	h.HandleOffer(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing SDP, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleOffer(rec, httptest.NewRequest(http.MethodGet, "/webrtc/offer", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
