package lsp

import (
	"context"
	"errors"
	"testing"
)

func TestClientLifecycle(t *testing.T) {
	c := NewClient(WithAutoDetectServers(false))
	if c.Status() != ClientStatusStopped {
		t.Fatalf("initial status = %v", c.Status())
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Status() != ClientStatusReady {
		t.Fatalf("status after start = %v", c.Status())
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("double start = %v", err)
	}

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Status() != ClientStatusStopped {
		t.Errorf("status after shutdown = %v", c.Status())
	}
	// Shutdown after stop is a no-op.
	if err := c.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown = %v", err)
	}
}

func TestClientRequestsBeforeStart(t *testing.T) {
	c := NewClient(WithAutoDetectServers(false))
	ctx := context.Background()

	if _, err := c.Complete(ctx, "/a.go", Position{}, ""); err == nil {
		t.Error("completion before start should fail")
	}
	if _, err := c.GoToDefinition(ctx, "/a.go", Position{}); err == nil {
		t.Error("navigation before start should fail")
	}
	if _, err := c.Rename(ctx, "/a.go", Position{}, "x"); err == nil {
		t.Error("rename before start should fail")
	}
}

func TestClientExternalManagerNotShutDown(t *testing.T) {
	mgr := NewManager()
	c := NewClient(WithManager(mgr), WithAutoDetectServers(false))
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	// The manager the caller supplied still accepts registrations; the
	// client tore down only its own services.
	mgr.RegisterServer("go", ServerConfig{Command: "gopls"})
	if got := mgr.RegisteredLanguages(); len(got) != 1 {
		t.Errorf("external manager unusable after client shutdown: %v", got)
	}
}

func TestClientEditApplierThreaded(t *testing.T) {
	applied := false
	c := NewClient(
		WithAutoDetectServers(false),
		WithClientEditApplier(func(*WorkspaceEdit) error {
			applied = true
			return nil
		}),
	)
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Shutdown(context.Background())

	edit := CodeAction{Title: "fix", Edit: &WorkspaceEdit{
		Changes: map[DocumentURI][]TextEdit{"file:///a.go": {{NewText: "x"}}},
	}}
	if _, err := c.ApplyCodeAction(context.Background(), edit); err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Error("code action should route through the installed applier")
	}
}

func TestClientStatusNames(t *testing.T) {
	tests := []struct {
		status ClientStatus
		want   string
	}{
		{ClientStatusStopped, "stopped"},
		{ClientStatusStarting, "starting"},
		{ClientStatusReady, "ready"},
		{ClientStatusShuttingDown, "shutting down"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q", tt.status, got)
		}
	}
}

func TestInvalidateCompletionsSafeWhenStopped(t *testing.T) {
	c := NewClient(WithAutoDetectServers(false))
	// Must not panic with no services built.
	c.InvalidateCompletions("/a.go")
}
