package lsp

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/radiorambo/fresh/internal/dispatcher/execctx"
	completionhandler "github.com/radiorambo/fresh/internal/dispatcher/handlers/completion"
	"github.com/radiorambo/fresh/internal/engine/buffer"
)

// Provider adapts the LSP client to the completion handler's provider
// interface. LSP-backed requests route through the client's per-language
// server selection; the word, line, and path variants read the execution
// context's engine directly and need no server at all, so they keep
// working while a server is still starting or absent.
//
// Provider is safe for concurrent use.
type Provider struct {
	client  *Client
	timeout time.Duration
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithProviderTimeout sets the request timeout for server-backed calls.
func WithProviderTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.timeout = d
	}
}

// NewProvider creates a provider over the given client. Panics if client
// is nil.
func NewProvider(client *Client, opts ...ProviderOption) *Provider {
	if client == nil {
		panic("lsp: NewProvider called with nil client")
	}
	p := &Provider{
		client:  client,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// context returns a context with the configured timeout.
func (p *Provider) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

// GetCompletions returns server completions at the given byte offset.
// Items are already filtered to the word prefix under the cursor and each
// carries the prefix range as its edit range, so acceptance replaces the
// prefix rather than inserting at the cursor.
func (p *Provider) GetCompletions(ctx *execctx.ExecutionContext, offset buffer.ByteOffset) ([]completionhandler.CompletionItem, error) {
	if ctx == nil || ctx.Engine == nil || ctx.FilePath == "" {
		return nil, ErrServerNotReady
	}

	content := ctx.Engine.Text()
	off := int(offset)
	if off > len(content) {
		off = len(content)
	}

	prefix, prefixStart := wordPrefixAt(content, off)
	pos := ByteOffsetToLSPPosition(content, off)

	reqCtx, cancel := p.context()
	defer cancel()

	result, err := p.client.Complete(reqCtx, ctx.FilePath, pos, prefix)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Items) == 0 {
		return nil, nil
	}

	items := make([]completionhandler.CompletionItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convertCompletionItem(item, content, prefixStart, off))
	}
	return items, nil
}

// GetWordCompletions collects words from the buffer that begin with the
// prefix, deduplicated and sorted.
func (p *Provider) GetWordCompletions(ctx *execctx.ExecutionContext, prefix string) ([]completionhandler.CompletionItem, error) {
	if ctx == nil || ctx.Engine == nil {
		return nil, nil
	}

	foldCase := prefix == strings.ToLower(prefix)
	match := func(w string) bool {
		if prefix == "" {
			return true
		}
		if foldCase {
			return strings.HasPrefix(strings.ToLower(w), prefix)
		}
		return strings.HasPrefix(w, prefix)
	}

	seen := make(map[string]bool)
	var items []completionhandler.CompletionItem
	for _, w := range scanWords(ctx.Engine.Text()) {
		if w == prefix || seen[w] || !match(w) {
			continue
		}
		seen[w] = true
		items = append(items, completionhandler.CompletionItem{
			Label: w,
			Kind:  completionhandler.KindText,
		})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].Label < items[b].Label })
	return items, nil
}

// GetLineCompletions returns whole buffer lines whose leading text
// matches the prefix.
func (p *Provider) GetLineCompletions(ctx *execctx.ExecutionContext, prefix string) ([]completionhandler.CompletionItem, error) {
	if ctx == nil || ctx.Engine == nil {
		return nil, nil
	}

	want := strings.TrimLeft(prefix, " \t")
	seen := make(map[string]bool)
	var items []completionhandler.CompletionItem
	lineCount := ctx.Engine.LineCount()
	for line := uint32(0); line < lineCount; line++ {
		text := ctx.Engine.LineText(line)
		trimmed := strings.TrimLeft(text, " \t")
		if trimmed == "" || trimmed == want || seen[trimmed] {
			continue
		}
		if want != "" && !strings.HasPrefix(trimmed, want) {
			continue
		}
		seen[trimmed] = true
		items = append(items, completionhandler.CompletionItem{
			Label: trimmed,
			Kind:  completionhandler.KindText,
		})
	}
	return items, nil
}

// GetPathCompletions lists directory entries matching the path prefix.
func (p *Provider) GetPathCompletions(_ *execctx.ExecutionContext, prefix string) ([]completionhandler.CompletionItem, error) {
	dir, base := filepath.Split(prefix)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}

	var items []completionhandler.CompletionItem
	for _, entry := range entries {
		name := entry.Name()
		if base != "" && !strings.HasPrefix(name, base) {
			continue
		}
		kind := completionhandler.KindFile
		insert := filepath.Join(dir, name)
		if entry.IsDir() {
			kind = completionhandler.KindFolder
			insert += string(filepath.Separator)
		}
		items = append(items, completionhandler.CompletionItem{
			Label:      name,
			Kind:       kind,
			InsertText: insert,
		})
	}
	return items, nil
}

// GetSignatureHelp returns the active signature label at the offset,
// with its documentation when present.
func (p *Provider) GetSignatureHelp(ctx *execctx.ExecutionContext, offset buffer.ByteOffset) (string, error) {
	if ctx == nil || ctx.Engine == nil || ctx.FilePath == "" {
		return "", ErrServerNotReady
	}

	content := ctx.Engine.Text()
	pos := ByteOffsetToLSPPosition(content, int(offset))

	reqCtx, cancel := p.context()
	defer cancel()

	result, err := p.client.SignatureHelp(reqCtx, ctx.FilePath, pos)
	if err != nil {
		return "", err
	}
	if result == nil || result.ActiveSignature == nil {
		return "", nil
	}
	sig := result.ActiveSignature.Label
	if doc := result.ActiveSignature.Documentation; doc != "" {
		sig += " | " + doc
	}
	return sig, nil
}

// convertCompletionItem maps a protocol completion item into the
// dispatcher's shape. The edit range prefers the server's own text edit;
// otherwise it spans the word prefix so acceptance replaces it.
func convertCompletionItem(item CompletionItem, content string, prefixStart, cursor int) completionhandler.CompletionItem {
	out := completionhandler.CompletionItem{
		Label:      item.Label,
		Kind:       convertCompletionKind(item.Kind),
		Detail:     item.Detail,
		InsertText: item.InsertText,
		FilterText: item.FilterText,
		SortText:   item.SortText,
		Preselect:  item.Preselect,
	}
	if doc, ok := item.Documentation.(string); ok {
		out.Documentation = doc
	}

	if item.TextEdit != nil {
		start := LSPPositionToByteOffset(content, item.TextEdit.Range.Start)
		end := LSPPositionToByteOffset(content, item.TextEdit.Range.End)
		out.TextEditRange = &buffer.Range{Start: buffer.ByteOffset(start), End: buffer.ByteOffset(end)}
		if out.InsertText == "" {
			out.InsertText = item.TextEdit.NewText
		}
	} else if prefixStart < cursor {
		out.TextEditRange = &buffer.Range{Start: buffer.ByteOffset(prefixStart), End: buffer.ByteOffset(cursor)}
	}
	return out
}

// convertCompletionKind maps the 1-based protocol kind onto the handler's
// 0-based enum, defaulting to text for anything out of range.
func convertCompletionKind(kind CompletionItemKind) completionhandler.CompletionKind {
	k := int(kind) - 1
	if k < int(completionhandler.KindText) || k > int(completionhandler.KindTypeParameter) {
		return completionhandler.KindText
	}
	return completionhandler.CompletionKind(k)
}

// wordPrefixAt returns the word characters immediately before the offset
// and the byte position where they start.
func wordPrefixAt(content string, offset int) (string, int) {
	start := offset
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}
	return content[start:offset], start
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// scanWords splits the content into word-character runs.
func scanWords(content string) []string {
	var words []string
	start := -1
	for i := 0; i < len(content); i++ {
		if isWordByte(content[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, content[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, content[start:])
	}
	return words
}
