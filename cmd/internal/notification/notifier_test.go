package notification

import (
	"context"
	"errors"
	"testing"

	"tenantnotes/cmd/internal/contract"
	"tenantnotes/cmd/internal/domain/events"
	"tenantnotes/cmd/internal/infrastructure/aws/websocket"
)

type fakeConns struct {
	byUser  map[string][]string
	deleted []string
}

func (f *fakeConns) FindByUserID(_ context.Context, userID string, _ int64) ([]string, error) {
	return f.byUser[userID], nil
}

func (f *fakeConns) Delete(_ context.Context, connID string) error {
	f.deleted = append(f.deleted, connID)
	return nil
}

type fakeGateway struct {
	sent map[string]any
	errs map[string]error
}

func (f *fakeGateway) PostToConnection(_ context.Context, connID string, data any) error {
	if err := f.errs[connID]; err != nil {
		return err
	}
	f.sent[connID] = data
	return nil
}

func (f *fakeGateway) DeleteConnection(context.Context, string) error {
	return nil
}

func TestGatewayNotifier_OnlyTargetsTheUser(t *testing.T) {
	conns := &fakeConns{byUser: map[string][]string{
		"alice": {"a1", "a2"},
		"bob":   {"b1"},
	}}
	gw := &fakeGateway{sent: map[string]any{}}
	n := NewGatewayNotifier(conns, gw, nil)

	err := n.Notify(context.Background(), "alice", &events.NoteDeleted{NoteID: "n1"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(gw.sent) != 2 {
		t.Fatalf("sent to %d connections, want 2", len(gw.sent))
	}
	if _, ok := gw.sent["b1"]; ok {
		t.Error("event leaked to another user's connection")
	}

	msg, ok := gw.sent["a1"].(*contract.OutgoingSocketMessage)
	if !ok || msg.Type != contract.EventNoteDeleted {
		t.Errorf("a1 got %#v, want NOTE_DELETED envelope", gw.sent["a1"])
	}
}

func TestGatewayNotifier_DropsGoneConnections(t *testing.T) {
	conns := &fakeConns{byUser: map[string][]string{"alice": {"a1", "a2", "a3"}}}
	gw := &fakeGateway{
		sent: map[string]any{},
		errs: map[string]error{
			"a1": websocket.ErrGone,
			"a3": errors.New("throttled"),
		},
	}
	n := NewGatewayNotifier(conns, gw, nil)

	err := n.Notify(context.Background(), "alice", &events.SessionExpired{})
	if err == nil {
		t.Fatal("expected the throttled delivery to be reported")
	}

	if len(conns.deleted) != 1 || conns.deleted[0] != "a1" {
		t.Errorf("deleted = %v, want [a1]", conns.deleted)
	}
	if _, ok := gw.sent["a2"]; !ok {
		t.Error("a2 should still receive the event")
	}
}

func TestLogNotifier(t *testing.T) {
	if err := (LogNotifier{}).Notify(context.Background(), "alice", &events.SessionExpired{}); err != nil {
		t.Errorf("LogNotifier returned %v", err)
	}
}
