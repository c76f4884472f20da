package lsp

import (
	"strings"
	"testing"
)

func completionLabels(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

// A completion replaces the word prefix under the cursor, so only
// prefix matches survive the filter; fuzzy scoring orders survivors.
func TestFilterCompletionsPrefixOnly(t *testing.T) {
	items := []CompletionItem{
		{Label: "GetDocument"},
		{Label: "GetUser"},
		{Label: "SetDocument"},
		{Label: "document"},
	}

	// Lowercase prefix folds case: both Get* survive, Set* does not.
	got := completionLabels(FilterCompletions(items, "get"))
	if len(got) != 2 {
		t.Fatalf("filter 'get' = %v", got)
	}
	for _, l := range got {
		if !strings.HasPrefix(strings.ToLower(l), "get") {
			t.Errorf("non-prefix survivor %q", l)
		}
	}

	// "doc" keeps only the true prefix match, not fuzzy containment.
	got = completionLabels(FilterCompletions(items, "doc"))
	if len(got) != 1 || got[0] != "document" {
		t.Errorf("filter 'doc' = %v, want [document]", got)
	}
}

func TestFilterCompletionsCaseSensitivity(t *testing.T) {
	items := []CompletionItem{
		{Label: "String"},
		{Label: "strings"},
	}

	// A prefix containing uppercase matches exactly.
	got := completionLabels(FilterCompletions(items, "Str"))
	if len(got) != 1 || got[0] != "String" {
		t.Errorf("exact-case filter = %v", got)
	}

	// All-lowercase matches case-insensitively.
	if got := FilterCompletions(items, "str"); len(got) != 2 {
		t.Errorf("folded filter kept %d", len(got))
	}
}

func TestFilterCompletionsUsesFilterText(t *testing.T) {
	items := []CompletionItem{
		{Label: "Display Label", FilterText: "actual_filter"},
		{Label: "Another", FilterText: "different"},
	}
	got := FilterCompletions(items, "actual")
	if len(got) != 1 || got[0].Label != "Display Label" {
		t.Errorf("filter-text match = %v", completionLabels(got))
	}
}

func TestFilterCompletionsEmptyPrefix(t *testing.T) {
	items := []CompletionItem{{Label: "a"}, {Label: "b"}}
	if got := FilterCompletions(items, ""); len(got) != 2 {
		t.Errorf("empty prefix kept %d", len(got))
	}
}

func TestSortCompletionsPreselectFirst(t *testing.T) {
	items := []CompletionItem{
		{Label: "zzz"},
		{Label: "bbb", Preselect: true},
		{Label: "aaa"},
	}
	sorted := SortCompletions(items, "")
	if sorted[0].Label != "bbb" {
		t.Errorf("first = %s, want preselected", sorted[0].Label)
	}
}

func TestGetInsertText(t *testing.T) {
	if got := GetInsertText(CompletionItem{Label: "fallback"}); got != "fallback" {
		t.Errorf("label fallback = %q", got)
	}
	if got := GetInsertText(CompletionItem{Label: "l", InsertText: "insert"}); got != "insert" {
		t.Errorf("insert text = %q", got)
	}
	item := CompletionItem{
		Label:    "l",
		TextEdit: &TextEdit{NewText: "edit-text"},
	}
	if got := GetInsertText(item); got != "edit-text" {
		t.Errorf("text edit = %q", got)
	}
}

func TestSnippets(t *testing.T) {
	plain := CompletionItem{InsertText: "plain"}
	if IsSnippet(plain) {
		t.Error("plain insert is not a snippet")
	}
	snip := CompletionItem{InsertText: "fmt.Printf(${1:format})", InsertTextFormat: InsertTextFormatSnippet}
	if !IsSnippet(snip) {
		t.Error("snippet format not detected")
	}
	if got := ExpandSnippet("f(${1:x}, $2)$0"); got != "f(x, )" {
		t.Errorf("expanded = %q", got)
	}
}

func TestCompletionKindStrings(t *testing.T) {
	if CompletionItemKindString(CompletionItemKindFunction) != "Function" {
		t.Error("function kind name")
	}
	if CompletionItemKindString(CompletionItemKind(99)) != "Unknown" {
		t.Error("out-of-range kind should report Unknown")
	}
}

func TestCompletionServiceCache(t *testing.T) {
	cs := NewCompletionService(nil)
	key := cacheKey{path: "/a.go", line: 1, character: 2}
	cs.storeCache(key, &CompletionList{Items: []CompletionItem{{Label: "x"}}}, "x")

	if got := cs.checkCache(key, "x"); got == nil {
		t.Fatal("fresh cache entry should hit")
	}
	// A shorter prefix cannot reuse a longer prefix's filtered list.
	if got := cs.checkCache(key, ""); got != nil {
		t.Error("prefix mismatch should miss")
	}

	cs.InvalidateCache("/a.go")
	if got := cs.checkCache(key, "x"); got != nil {
		t.Error("invalidated entry should miss")
	}

	cs.storeCache(key, &CompletionList{}, "")
	cs.ClearCache()
	if got := cs.checkCache(key, ""); got != nil {
		t.Error("cleared cache should miss")
	}
}

func TestProcessResultsFiltersAndCaps(t *testing.T) {
	cs := NewCompletionService(nil, WithMaxResults(2))
	list := &CompletionList{Items: []CompletionItem{
		{Label: "alpha"},
		{Label: "albatross"},
		{Label: "almond"},
		{Label: "beta"},
	}}

	result := cs.processResults(list, "al")
	if result.FilteredCount != 3 {
		t.Errorf("filtered = %d, want 3 prefix matches", result.FilteredCount)
	}
	if len(result.Items) != 2 || !result.WasTruncatedByLimit {
		t.Errorf("items = %d truncated = %v", len(result.Items), result.WasTruncatedByLimit)
	}
	if result.ServerTotalCount != 4 || !result.WasTruncatedByFilter {
		t.Errorf("server total = %d filter-truncated = %v",
			result.ServerTotalCount, result.WasTruncatedByFilter)
	}
}

func TestProcessResultsEmpty(t *testing.T) {
	cs := NewCompletionService(nil)
	result := cs.processResults(nil, "x")
	if len(result.Items) != 0 || result.IsIncomplete {
		t.Errorf("empty result = %+v", result)
	}
}
