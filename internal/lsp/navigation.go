package lsp

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// NavigationService answers go-to and symbol queries over the manager's
// per-language servers, with a short-lived symbol cache so repeated
// outline queries against an unchanged document don't re-ask the server.
type NavigationService struct {
	mu      sync.RWMutex
	manager *Manager

	symbolCache map[DocumentURI]cachedSymbols
	cacheMaxAge time.Duration
	maxResults  int
}

type cachedSymbols struct {
	symbols []DocumentSymbol
	at      time.Time
}

// NavigationResult is the outcome of a location query.
type NavigationResult struct {
	// Locations found, capped at the service's result limit.
	Locations []Location

	// Primary is the first location, when any exist.
	Primary *Location

	// TotalCount is the server's full count before capping.
	TotalCount int

	// Truncated is true when Locations was capped.
	Truncated bool
}

// SymbolNode is one node of a document's symbol hierarchy.
type SymbolNode struct {
	Symbol   DocumentSymbol
	Parent   *SymbolNode
	Children []*SymbolNode
	Depth    int
}

// SymbolTree is a document's full symbol hierarchy plus a flattened
// pre-order view.
type SymbolTree struct {
	URI      DocumentURI
	FilePath string
	Roots    []*SymbolNode
	All      []*SymbolNode
}

// NavigationOption configures the service.
type NavigationOption func(*NavigationService)

// WithMaxNavigationResults caps how many locations a query returns.
func WithMaxNavigationResults(n int) NavigationOption {
	return func(ns *NavigationService) {
		if n > 0 {
			ns.maxResults = n
		}
	}
}

// WithSymbolCacheMaxAge sets how long document symbols stay cached.
func WithSymbolCacheMaxAge(d time.Duration) NavigationOption {
	return func(ns *NavigationService) {
		ns.cacheMaxAge = d
	}
}

// NewNavigationService creates a navigation service over the manager.
func NewNavigationService(manager *Manager, opts ...NavigationOption) *NavigationService {
	ns := &NavigationService{
		manager:     manager,
		symbolCache: make(map[DocumentURI]cachedSymbols),
		cacheMaxAge: 30 * time.Second,
		maxResults:  100,
	}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

// GoToDefinition resolves the definition of the symbol at pos.
func (ns *NavigationService) GoToDefinition(ctx context.Context, path string, pos Position) (*NavigationResult, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	locs, err := ns.manager.Definition(ctx, path, pos)
	if err != nil {
		return nil, err
	}
	return ns.buildResult(locs), nil
}

// GoToTypeDefinition resolves the type definition of the symbol at pos.
func (ns *NavigationService) GoToTypeDefinition(ctx context.Context, path string, pos Position) (*NavigationResult, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	locs, err := ns.manager.TypeDefinition(ctx, path, pos)
	if err != nil {
		return nil, err
	}
	return ns.buildResult(locs), nil
}

// FindReferences lists every reference to the symbol at pos, including
// its declaration.
func (ns *NavigationService) FindReferences(ctx context.Context, path string, pos Position) (*NavigationResult, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	locs, err := ns.manager.References(ctx, path, pos, true)
	if err != nil {
		return nil, err
	}
	return ns.buildResult(locs), nil
}

// FindImplementations lists implementations of the symbol at pos.
// Servers without textDocument/implementation effectively answer with
// the reference list minus the declaration, which is what this queries.
func (ns *NavigationService) FindImplementations(ctx context.Context, path string, pos Position) (*NavigationResult, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	locs, err := ns.manager.References(ctx, path, pos, false)
	if err != nil {
		return nil, err
	}
	return ns.buildResult(locs), nil
}

// GetDocumentSymbols returns the document's symbols, from cache when
// fresh.
func (ns *NavigationService) GetDocumentSymbols(ctx context.Context, path string) ([]DocumentSymbol, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	uri := FilePathToURI(path)

	ns.mu.RLock()
	entry, ok := ns.symbolCache[uri]
	ns.mu.RUnlock()
	if ok && time.Since(entry.at) < ns.cacheMaxAge {
		return entry.symbols, nil
	}

	symbols, err := ns.manager.DocumentSymbols(ctx, path)
	if err != nil {
		return nil, err
	}

	ns.mu.Lock()
	ns.symbolCache[uri] = cachedSymbols{symbols: symbols, at: time.Now()}
	ns.mu.Unlock()
	return symbols, nil
}

// GetSymbolTree returns the document's symbols as a hierarchy.
func (ns *NavigationService) GetSymbolTree(ctx context.Context, path string) (*SymbolTree, error) {
	symbols, err := ns.GetDocumentSymbols(ctx, path)
	if err != nil {
		return nil, err
	}
	return buildSymbolTree(FilePathToURI(path), path, symbols), nil
}

// SearchWorkspaceSymbols queries workspace-wide symbols by name.
func (ns *NavigationService) SearchWorkspaceSymbols(ctx context.Context, query, languageID string) ([]SymbolInformation, error) {
	if ns.manager == nil {
		return nil, ErrNoServerForFile
	}
	srv, err := ns.manager.ServerForLanguage(ctx, languageID)
	if err != nil {
		return nil, err
	}
	symbols, err := srv.WorkspaceSymbols(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(symbols) > ns.maxResults {
		symbols = symbols[:ns.maxResults]
	}
	return symbols, nil
}

// GetSymbolAtPosition returns the innermost document symbol whose range
// covers pos, or nil.
func (ns *NavigationService) GetSymbolAtPosition(ctx context.Context, path string, pos Position) (*DocumentSymbol, error) {
	symbols, err := ns.GetDocumentSymbols(ctx, path)
	if err != nil {
		return nil, err
	}
	return innermostSymbolAt(symbols, pos), nil
}

// InvalidateCache drops the document's cached symbols, after an edit.
func (ns *NavigationService) InvalidateCache(path string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.symbolCache, FilePathToURI(path))
}

// buildResult caps the location list and records the truncation.
func (ns *NavigationService) buildResult(locs []Location) *NavigationResult {
	result := &NavigationResult{TotalCount: len(locs)}
	if len(locs) > ns.maxResults {
		locs = locs[:ns.maxResults]
		result.Truncated = true
	}
	result.Locations = locs
	if len(locs) > 0 {
		result.Primary = &locs[0]
	}
	return result
}

// buildSymbolTree converts the server's nested symbols into linked
// nodes with depth, plus a flattened pre-order listing.
func buildSymbolTree(uri DocumentURI, path string, symbols []DocumentSymbol) *SymbolTree {
	tree := &SymbolTree{URI: uri, FilePath: path}
	for i := range symbols {
		tree.Roots = append(tree.Roots, linkSymbolNode(&symbols[i], nil, 0))
	}
	var flatten func(*SymbolNode)
	flatten = func(n *SymbolNode) {
		tree.All = append(tree.All, n)
		for _, c := range n.Children {
			flatten(c)
		}
	}
	for _, root := range tree.Roots {
		flatten(root)
	}
	return tree
}

func linkSymbolNode(sym *DocumentSymbol, parent *SymbolNode, depth int) *SymbolNode {
	node := &SymbolNode{Symbol: *sym, Parent: parent, Depth: depth}
	for i := range sym.Children {
		node.Children = append(node.Children, linkSymbolNode(&sym.Children[i], node, depth+1))
	}
	return node
}

// innermostSymbolAt descends into children to find the tightest symbol
// covering pos.
func innermostSymbolAt(symbols []DocumentSymbol, pos Position) *DocumentSymbol {
	for i := range symbols {
		sym := &symbols[i]
		if !IsPositionInRange(pos, sym.Range) {
			continue
		}
		if inner := innermostSymbolAt(sym.Children, pos); inner != nil {
			return inner
		}
		return sym
	}
	return nil
}

// FormatSymbol renders a symbol for a picker line: kind, name, line.
func FormatSymbol(sym DocumentSymbol) string {
	return fmt.Sprintf("%s %s:%d", SymbolKindName(sym.Kind), sym.Name, sym.Range.Start.Line+1)
}

// FormatWorkspaceSymbol renders a workspace symbol with its file.
func FormatWorkspaceSymbol(sym SymbolInformation) string {
	return fmt.Sprintf("%s %s (%s:%d)",
		SymbolKindName(sym.Kind), sym.Name,
		filepath.Base(URIToFilePath(sym.Location.URI)),
		sym.Location.Range.Start.Line+1)
}

// SortSymbolsByPosition orders symbols by where they appear.
func SortSymbolsByPosition(symbols []DocumentSymbol) {
	sort.SliceStable(symbols, func(a, b int) bool {
		return ComparePositions(symbols[a].Range.Start, symbols[b].Range.Start) < 0
	})
}

// symbolKindNames indexes the LSP symbol kinds (1-based).
var symbolKindNames = [...]string{
	"", "file", "module", "namespace", "package", "class", "method",
	"property", "field", "constructor", "enum", "interface", "function",
	"variable", "constant", "string", "number", "boolean", "array",
	"object", "key", "null", "enum-member", "struct", "event",
	"operator", "type-parameter",
}

// SymbolKindName returns the lowercase name of a symbol kind.
func SymbolKindName(kind SymbolKind) string {
	if int(kind) > 0 && int(kind) < len(symbolKindNames) {
		return symbolKindNames[kind]
	}
	return "unknown"
}
