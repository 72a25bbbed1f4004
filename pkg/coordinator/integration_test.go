package coordinator

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/leco-dev/coordinator/internal/testutil"
	"github.com/leco-dev/coordinator/pkg/leco"
	"github.com/leco-dev/coordinator/pkg/transport"
)

// TestEndToEndSignInAndForward drives a real Coordinator over a real
// websocket transport with two Communicator clients, exercising the full
// sign-in and local-forward path without any fakes.
func TestEndToEndSignInAndForward(t *testing.T) {
	router := transport.NewRouter()
	c := New("N1", router, WithThresholds(time.Hour, time.Hour))

	ts := httptest.NewServer(router.Handler())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(ctx) }()

	a, err := testutil.Dial(ctx, wsURL, "com_A")
	if err != nil {
		t.Fatalf("dial com_A: %v", err)
	}
	defer a.Close()
	b, err := testutil.Dial(ctx, wsURL, "com_B")
	if err != nil {
		t.Fatalf("dial com_B: %v", err)
	}
	defer b.Close()

	deadline := time.Now().Add(3 * time.Second)
	_ = a.SetReadDeadline(deadline)
	if err := a.SignIn(); err != nil {
		t.Fatalf("sign in com_A: %v", err)
	}
	_ = b.SetReadDeadline(deadline)
	if err := b.SignIn(); err != nil {
		t.Fatalf("sign in com_B: %v", err)
	}

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"do_thing"}`)
	msg := leco.BuildMessage([]byte("com_B"), a.FullName(), nil, nil, 1, leco.FrameContent(body))
	if err := a.SendMessage(msg); err != nil {
		t.Fatalf("send com_A -> com_B: %v", err)
	}

	_ = b.SetReadDeadline(time.Now().Add(3 * time.Second))
	got, err := b.ReadMessage()
	if err != nil {
		t.Fatalf("receive at com_B: %v", err)
	}
	if string(got.ContentFrame()) != string(body) {
		t.Fatalf("got payload %q, want %q", got.ContentFrame(), body)
	}

	cancel()
	select {
	case <-runDone:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}
}
