package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"
)

// transportHarness wires a Transport to in-memory pipes playing the
// server's side of the connection.
type transportHarness struct {
	transport  *Transport
	fromEditor *bufio.Reader // the server's view of editor output
	toEditor   io.WriteCloser
}

func newTransportHarness(t *testing.T) *transportHarness {
	t.Helper()

	editorIn, serverOut := io.Pipe()   // server writes -> editor reads
	serverIn, editorOut := io.Pipe()   // editor writes -> server reads

	tr := NewTransport(editorIn, editorOut, editorOut)
	ctx, cancel := context.WithCancel(context.Background())
	tr.Start(ctx)
	t.Cleanup(func() {
		cancel()
		tr.Close()
		serverOut.Close()
	})

	return &transportHarness{
		transport:  tr,
		fromEditor: bufio.NewReader(serverIn),
		toEditor:   serverOut,
	}
}

// readFrame reads one Content-Length framed message from the editor.
func (h *transportHarness) readFrame(t *testing.T) map[string]any {
	t.Helper()

	var contentLen int
	for {
		line, err := h.fromEditor.ReadString('\n')
		if err != nil {
			t.Fatalf("read header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			contentLen, err = strconv.Atoi(v)
			if err != nil {
				t.Fatalf("bad content length %q", v)
			}
		}
	}

	body := make([]byte, contentLen)
	if _, err := io.ReadFull(h.fromEditor, body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("unmarshal %q: %v", body, err)
	}
	return msg
}

// writeFrame sends one framed message to the editor.
func (h *transportHarness) writeFrame(t *testing.T, body string) {
	t.Helper()
	if _, err := fmt.Fprintf(h.toEditor, "Content-Length: %d\r\n\r\n%s", len(body), body); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestTransportNotifyFraming(t *testing.T) {
	h := newTransportHarness(t)

	if err := h.transport.Notify(context.Background(), "initialized", map[string]any{}); err != nil {
		t.Fatal(err)
	}

	msg := h.readFrame(t)
	if msg["method"] != "initialized" {
		t.Errorf("method = %v", msg["method"])
	}
	if msg["jsonrpc"] != "2.0" {
		t.Errorf("jsonrpc = %v", msg["jsonrpc"])
	}
	if _, hasID := msg["id"]; hasID {
		t.Error("notifications must not carry an id")
	}
}

func TestTransportCallRoundTrip(t *testing.T) {
	h := newTransportHarness(t)

	type hoverResult struct {
		Contents string `json:"contents"`
	}

	done := make(chan error, 1)
	var result hoverResult
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- h.transport.Call(ctx, "textDocument/hover", map[string]any{"q": 1}, &result)
	}()

	req := h.readFrame(t)
	if req["method"] != "textDocument/hover" {
		t.Fatalf("method = %v", req["method"])
	}
	id := int(req["id"].(float64))
	h.writeFrame(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":{"contents":"docs here"}}`, id))

	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if result.Contents != "docs here" {
		t.Errorf("result = %+v", result)
	}
}

func TestTransportCallServerError(t *testing.T) {
	h := newTransportHarness(t)

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		done <- h.transport.Call(ctx, "bad/method", nil, nil)
	}()

	req := h.readFrame(t)
	id := int(req["id"].(float64))
	h.writeFrame(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, id))

	err := <-done
	if err == nil || !strings.Contains(err.Error(), "method not found") {
		t.Errorf("err = %v", err)
	}
}

func TestTransportNotificationDispatch(t *testing.T) {
	h := newTransportHarness(t)

	received := make(chan json.RawMessage, 1)
	h.transport.OnNotification("textDocument/publishDiagnostics", func(method string, params json.RawMessage) {
		received <- params
	})

	h.writeFrame(t, `{"jsonrpc":"2.0","method":"textDocument/publishDiagnostics","params":{"uri":"file:///x.go"}}`)

	select {
	case params := <-received:
		if !strings.Contains(string(params), "file:///x.go") {
			t.Errorf("params = %s", params)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
	}
}

func TestTransportCallTimeout(t *testing.T) {
	h := newTransportHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := h.transport.Call(ctx, "never/answered", nil, nil)
	if err == nil {
		t.Fatal("unanswered call should time out")
	}
	// Drain the request the editor sent so the pipe isn't wedged.
	_ = h.readFrame(t)
}

func TestTransportCloseIdempotent(t *testing.T) {
	h := newTransportHarness(t)
	if err := h.transport.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.transport.Close(); err != nil {
		t.Errorf("second close = %v", err)
	}
}
