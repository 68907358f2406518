package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func (e *testEnv) dialWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + token
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readText(t *testing.T, ws *websocket.Conn) string {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("expected text frame, got %d", kind)
	}
	return string(data)
}

func TestWebSocket_RequiresManager(t *testing.T) {
	e := newTestEnv(t)

	for name, token := range map[string]string{
		"anonymous": "",
		"user":      e.token(t, "ivan"),
	} {
		url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws?token=" + token
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatalf("%s: upgrade unexpectedly succeeded", name)
		}
		if resp == nil {
			t.Fatalf("%s: no response", name)
		}
		_ = resp.Body.Close()

		want := http.StatusUnauthorized
		if token != "" {
			want = http.StatusForbidden
		}
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", name, want, resp.StatusCode)
		}
	}
}

func TestWebSocket_PurchaseNotification(t *testing.T) {
	e := newTestEnv(t)
	it := e.seedItem(t, "Headphones", 10)

	ws := e.dialWS(t, e.token(t, "boss"))

	resp := e.do(t, http.MethodPatch, fmt.Sprintf("/buy/%d", it.ID), e.token(t, "ivan"), quantityRequest{Quantity: 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy: expected 200, got %d", resp.StatusCode)
	}

	want := `{"username":"ivan","item":"Headphones","quantity":3}`
	if got := readText(t, ws); got != want {
		t.Fatalf("notification mismatch\ngot  %s\nwant %s", got, want)
	}
}

func TestWebSocket_AllManagersNotified(t *testing.T) {
	e := newTestEnv(t)
	it := e.seedItem(t, "Laptop", 5)

	a := e.dialWS(t, e.token(t, "boss"))
	b := e.dialWS(t, e.token(t, "boss"))

	resp := e.do(t, http.MethodPatch, fmt.Sprintf("/buy/%d", it.ID), e.token(t, "ivan"), quantityRequest{Quantity: 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy: expected 200, got %d", resp.StatusCode)
	}

	want := `{"username":"ivan","item":"Laptop","quantity":2}`
	for i, ws := range []*websocket.Conn{a, b} {
		if got := readText(t, ws); got != want {
			t.Fatalf("conn %d: got %s, want %s", i, got, want)
		}
	}
}

func TestWebSocket_DisconnectedManagerPruned(t *testing.T) {
	e := newTestEnv(t)
	it := e.seedItem(t, "Headphones", 10)

	ws := e.dialWS(t, e.token(t, "boss"))

	// Wait until the server side has registered the connection.
	deadline := time.Now().Add(2 * time.Second)
	for e.registry.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_ = ws.Close()

	// The read pump notices the close and unregisters.
	deadline = time.Now().Add(2 * time.Second)
	for e.registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("connection never unregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Purchases still work with nobody listening.
	resp := e.do(t, http.MethodPatch, fmt.Sprintf("/buy/%d", it.ID), e.token(t, "ivan"), quantityRequest{Quantity: 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy after disconnect: expected 200, got %d", resp.StatusCode)
	}
}
