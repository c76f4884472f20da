package lsp

import (
	"context"
	"testing"
)

func TestManagerServerRegistration(t *testing.T) {
	m := NewManager()
	m.RegisterServer("go", ServerConfig{Command: "gopls"})
	m.RegisterServer("rust", ServerConfig{Command: "rust-analyzer"})

	langs := m.RegisteredLanguages()
	if len(langs) != 2 {
		t.Fatalf("languages = %v", langs)
	}
}

func TestManagerServerForUnknownLanguage(t *testing.T) {
	m := NewManager()
	if _, err := m.ServerForLanguage(context.Background(), "cobol"); err == nil {
		t.Error("unregistered language should error")
	}
}

func TestManagerServerForFileByExtension(t *testing.T) {
	m := NewManager()
	// No registration at all: file routing must fail, not panic.
	if _, err := m.ServerForFile(context.Background(), "/tmp/main.go"); err == nil {
		t.Error("no registered server should error")
	}
}

func TestManagerWorkspaceFolders(t *testing.T) {
	m := NewManager()
	m.SetWorkspaceFolders([]WorkspaceFolder{WorkspaceFolderFromPath("/tmp/project")})
	if got := m.WorkspaceRoot(); got != "/tmp/project" {
		t.Errorf("root = %q", got)
	}
}

func TestManagerIsAvailable(t *testing.T) {
	m := NewManager()
	if m.IsAvailable("/tmp/a.go") {
		t.Error("nothing registered should not be available")
	}
}

func TestManagerShutdownIdempotent(t *testing.T) {
	m := NewManager()
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown with no servers = %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second shutdown = %v", err)
	}
}

func TestMatchesFileGlobs(t *testing.T) {
	s := &Server{config: ServerConfig{FilePatterns: []string{"**/*.test.ts", "*.go"}}}
	tests := []struct {
		path string
		want bool
	}{
		{"/deep/nested/app.test.ts", true},
		{"main.go", true},
		{"/a/b/readme.md", false},
	}
	for _, tt := range tests {
		if got := s.MatchesFile(tt.path); got != tt.want {
			t.Errorf("MatchesFile(%q) = %v", tt.path, got)
		}
	}
}
