package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeMarksConnectedOnAnyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	monitor := NewMonitor(WithProbeURL(server.URL))
	monitor.probe(context.Background())

	if !monitor.IsConnected() {
		t.Fatalf("expected monitor to report connected after an HTTP response")
	}
}

func TestProbeMarksDisconnectedWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	changes := []bool{}
	monitor := NewMonitor(
		WithProbeURL(server.URL),
		WithChangeCallback(func(connected bool) { changes = append(changes, connected) }),
	)

	monitor.update(true)
	monitor.probe(context.Background())

	if monitor.IsConnected() {
		t.Fatalf("expected monitor to report disconnected after a failed probe")
	}

	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Fatalf("expected change callbacks [true false], got %v", changes)
	}
}
