package event

import (
	"testing"

	"github.com/radiorambo/fresh/internal/event/topic"
)

func eventFrom(source string, tp topic.Topic) Event[string] {
	return NewEvent(tp, "payload", source)
}

func TestSourceFilters(t *testing.T) {
	ev := eventFrom("lsp", "lsp.diagnostics")

	if !FilterBySource("lsp")(ev) || FilterBySource("app")(ev) {
		t.Error("exact source filter wrong")
	}
	if !FilterBySourcePrefix("ls")(ev) || FilterBySourcePrefix("app")(ev) {
		t.Error("source prefix filter wrong")
	}
	if !FilterBySources("app", "lsp")(ev) || FilterBySources("app", "cfg")(ev) {
		t.Error("source set filter wrong")
	}
	if FilterExcludeSource("lsp")(ev) || !FilterExcludeSource("app")(ev) {
		t.Error("source exclusion wrong")
	}
	// Events without metadata never pass positive source filters.
	if FilterBySource("lsp")("bare string") {
		t.Error("metadata-less event should not match a source")
	}
}

func TestTopicFilters(t *testing.T) {
	ev := eventFrom("app", "buffer.content.inserted")

	if !FilterByTopic("buffer.**")(ev) || FilterByTopic("cursor.*")(ev) {
		t.Error("topic pattern filter wrong")
	}
	if !FilterByTopicPrefix("buffer.content")(ev) || FilterByTopicPrefix("buffer.contents")(ev) {
		t.Error("topic prefix filter wrong")
	}
	if FilterExcludeTopic("buffer.**")(ev) || !FilterExcludeTopic("cursor.*")(ev) {
		t.Error("topic exclusion wrong")
	}
}

func TestPayloadFilter(t *testing.T) {
	ev := NewEvent(topic.Topic("n.changed"), 42, "test")

	pass := FilterPayload(func(n int) bool { return n > 10 })
	fail := FilterPayload(func(n int) bool { return n > 100 })
	wrongType := FilterPayload(func(s string) bool { return true })

	if !pass(ev) || fail(ev) {
		t.Error("payload predicate wrong")
	}
	if wrongType(ev) {
		t.Error("mismatched payload type should not pass")
	}
}

func TestFilterCombinators(t *testing.T) {
	ev := eventFrom("lsp", "lsp.diagnostics")

	both := FilterAnd(FilterBySource("lsp"), FilterByTopic("lsp.**"))
	either := FilterOr(FilterBySource("app"), FilterByTopic("lsp.**"))
	neither := FilterAnd(FilterBySource("app"), FilterByTopic("lsp.**"))

	if !both(ev) || !either(ev) || neither(ev) {
		t.Error("combinators wrong")
	}
	if FilterNot(both)(ev) {
		t.Error("negation wrong")
	}
	if !FilterAll()(ev) || FilterNone()(ev) {
		t.Error("constants wrong")
	}
}
