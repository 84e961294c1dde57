package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/poliscope/poliscope/internal/identity"
)

func TestReviewHub_BroadcastReachesClient(t *testing.T) {
	hub := NewReviewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1)

	event := ReviewEvent{
		Type: "review_needed",
		Observation: identity.Observation{
			FirstName: "Thierry", LastName: "Cousin",
			Source: "RNE", SourceRef: "45321",
		},
		Result: &identity.ResolveResult{
			PoliticianID: "pol-1",
			Confidence:   0.9,
			Decision:     identity.JudgementUndecided,
		},
		At: time.Now().UTC(),
	}
	hub.Broadcast(event)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got ReviewEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.Type != "review_needed" || got.Observation.SourceRef != "45321" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestReviewHub_DisconnectedClientIsDropped(t *testing.T) {
	hub := NewReviewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting into an empty hub is a no-op
	hub.Broadcast(ReviewEvent{Type: "review_needed"})
}

func waitForClients(t *testing.T, hub *ReviewHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
}
