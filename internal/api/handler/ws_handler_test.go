package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/chainlance/marketplace-api/internal/core/domain"
	"github.com/chainlance/marketplace-api/internal/core/ports"
	"github.com/chainlance/marketplace-api/internal/realtime"
)

// wsTokenStub accepts one token string and maps it to fixed claims.
type wsTokenStub struct {
	token  string
	claims ports.TokenClaims
}

func (s *wsTokenStub) Issue(_ *domain.Identity) (ports.TokenPair, error) {
	return ports.TokenPair{}, nil
}

func (s *wsTokenStub) VerifyAccess(token string) (ports.TokenClaims, error) {
	if token != s.token {
		return ports.TokenClaims{}, domain.ErrTokenInvalid
	}
	return s.claims, nil
}

func (s *wsTokenStub) Refresh(string) (string, time.Time, error) {
	return "", time.Time{}, domain.ErrTokenInvalid
}

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startWSServer(t *testing.T, hub *realtime.Hub, tokens ports.TokenService) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.GET("/ws", NewWSHandler(hub, tokens, zerolog.Nop()).Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev wsEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestWSHandler_RejectsInvalidToken(t *testing.T) {
	srv := startWSServer(t, realtime.NewHub(zerolog.Nop()), &wsTokenStub{token: "good"})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=bad"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatalf("expected handshake failure for invalid token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWSHandler_PairRoomJoinRequiresParticipant(t *testing.T) {
	const (
		alice = "0xaaa0000000000000000000000000000000000001"
		bob   = "0xbbb0000000000000000000000000000000000002"
		carol = "0xccc0000000000000000000000000000000000003"
	)
	pair := domain.PairConversationID(alice, bob)
	hub := realtime.NewHub(zerolog.Nop())
	srv := startWSServer(t, hub, &wsTokenStub{
		token:  "carol-token",
		claims: ports.TokenClaims{Wallet: carol, Role: domain.RoleWorker},
	})

	conn := dialWS(t, srv, "carol-token")
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: pair}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	// The refused join is answered with an error event, which also tells us
	// the command was processed before we publish.
	ev := readEvent(t, conn)
	if ev.Event != "error" {
		t.Fatalf("expected error event for outsider join, got %q", ev.Event)
	}

	hub.Publish(pair, &domain.Message{
		ID:             "m1",
		ConversationID: pair,
		Sender:         alice,
		Content:        "between alice and bob",
		CreatedAt:      time.Now().UTC(),
	})

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var leaked wsEvent
	if err := conn.ReadJSON(&leaked); err == nil {
		t.Fatalf("non-participant received room traffic: %+v", leaked)
	}
}

func TestWSHandler_ParticipantReceivesPairMessages(t *testing.T) {
	const (
		alice = "0xaaa0000000000000000000000000000000000001"
		bob   = "0xbbb0000000000000000000000000000000000002"
	)
	pair := domain.PairConversationID(alice, bob)
	hub := realtime.NewHub(zerolog.Nop())
	srv := startWSServer(t, hub, &wsTokenStub{
		token:  "bob-token",
		claims: ports.TokenClaims{Wallet: bob, Role: domain.RoleWorker},
	})

	conn := dialWS(t, srv, "bob-token")
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: pair}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	// Commands are processed in order: once the refused second join is
	// answered, the first join is guaranteed to be in effect.
	foreign := domain.PairConversationID(alice, "0xddd0000000000000000000000000000000000004")
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: foreign}); err != nil {
		t.Fatalf("send join: %v", err)
	}
	if ev := readEvent(t, conn); ev.Event != "error" {
		t.Fatalf("expected error event for foreign pair join, got %q", ev.Event)
	}

	hub.Publish(pair, &domain.Message{
		ID:             "m1",
		ConversationID: pair,
		Sender:         alice,
		Content:        "hi bob",
		CreatedAt:      time.Now().UTC(),
	})

	ev := readEvent(t, conn)
	if ev.Event != "new_message" {
		t.Fatalf("expected new_message event, got %q", ev.Event)
	}
	var msg domain.Message
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if msg.Content != "hi bob" || msg.ConversationID != pair {
		t.Fatalf("unexpected payload: %+v", msg)
	}
}

func TestWSHandler_DisputeRoomOpenToAuthenticated(t *testing.T) {
	const carol = "0xccc0000000000000000000000000000000000003"
	hub := realtime.NewHub(zerolog.Nop())
	srv := startWSServer(t, hub, &wsTokenStub{
		token:  "carol-token",
		claims: ports.TokenClaims{Wallet: carol, Role: domain.RoleWorker},
	})

	conn := dialWS(t, srv, "carol-token")
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: "dispute:42"}); err != nil {
		t.Fatalf("send join: %v", err)
	}

	// Dispute rooms carry no membership; a second, refused pair join works as
	// the ordering fence here too.
	foreign := domain.PairConversationID(
		"0xaaa0000000000000000000000000000000000001",
		"0xbbb0000000000000000000000000000000000002",
	)
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: foreign}); err != nil {
		t.Fatalf("send join: %v", err)
	}
	if ev := readEvent(t, conn); ev.Event != "error" {
		t.Fatalf("expected error event for pair join, got %q", ev.Event)
	}

	hub.Publish("dispute:42", &domain.Message{
		ID:             "m1",
		ConversationID: "dispute:42",
		Sender:         carol,
		Content:        "evidence",
		CreatedAt:      time.Now().UTC(),
	})

	if ev := readEvent(t, conn); ev.Event != "new_message" {
		t.Fatalf("expected new_message in dispute room, got %q", ev.Event)
	}
}

func TestWSHandler_LeaveStopsDelivery(t *testing.T) {
	const carol = "0xccc0000000000000000000000000000000000003"
	hub := realtime.NewHub(zerolog.Nop())
	srv := startWSServer(t, hub, &wsTokenStub{
		token:  "carol-token",
		claims: ports.TokenClaims{Wallet: carol, Role: domain.RoleWorker},
	})

	conn := dialWS(t, srv, "carol-token")
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: "dispute:42"}); err != nil {
		t.Fatalf("send join: %v", err)
	}
	if err := conn.WriteJSON(roomCommand{Action: "leave", ConversationID: "dispute:42"}); err != nil {
		t.Fatalf("send leave: %v", err)
	}

	foreign := domain.PairConversationID(
		"0xaaa0000000000000000000000000000000000001",
		"0xbbb0000000000000000000000000000000000002",
	)
	if err := conn.WriteJSON(roomCommand{Action: "join", ConversationID: foreign}); err != nil {
		t.Fatalf("send join: %v", err)
	}
	if ev := readEvent(t, conn); ev.Event != "error" {
		t.Fatalf("expected error event fence, got %q", ev.Event)
	}

	hub.Publish("dispute:42", &domain.Message{
		ID:             "m1",
		ConversationID: "dispute:42",
		Sender:         carol,
		Content:        "after leave",
		CreatedAt:      time.Now().UTC(),
	})

	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var leaked wsEvent
	if err := conn.ReadJSON(&leaked); err == nil {
		t.Fatalf("received room traffic after leaving: %+v", leaked)
	}
}
