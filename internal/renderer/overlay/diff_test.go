package overlay

import "testing"

func TestSimpleDiffAllInsertions(t *testing.T) {
	d := NewDiffPreviewSimple("d1", 5, nil, []string{"new a", "new b"}, DefaultConfig())
	if d.HunkCount() != 1 {
		t.Fatalf("hunks = %d", d.HunkCount())
	}
	if d.AdditionCount() != 2 || d.DeletionCount() != 0 {
		t.Errorf("adds=%d dels=%d", d.AdditionCount(), d.DeletionCount())
	}
	if d.Hunks()[0].Operation != DiffOpInsert {
		t.Errorf("op = %v", d.Hunks()[0].Operation)
	}
}

func TestSimpleDiffAllDeletions(t *testing.T) {
	d := NewDiffPreviewSimple("d2", 0, []string{"gone"}, nil, DefaultConfig())
	if d.AdditionCount() != 0 || d.DeletionCount() != 1 {
		t.Errorf("adds=%d dels=%d", d.AdditionCount(), d.DeletionCount())
	}
}

func TestSimpleDiffIdenticalContent(t *testing.T) {
	lines := []string{"same", "lines"}
	d := NewDiffPreviewSimple("d3", 0, lines, lines, DefaultConfig())
	if d.HunkCount() != 0 {
		t.Errorf("identical content produced %d hunks", d.HunkCount())
	}
}

func TestSimpleDiffReplacement(t *testing.T) {
	d := NewDiffPreviewSimple("d4", 0,
		[]string{"keep", "old", "keep2"},
		[]string{"keep", "new", "keep2"},
		DefaultConfig())

	if d.AdditionCount() != 1 || d.DeletionCount() != 1 {
		t.Errorf("adds=%d dels=%d", d.AdditionCount(), d.DeletionCount())
	}
}

func TestDiffAcceptReject(t *testing.T) {
	d := NewDiffPreviewSimple("d5", 0, []string{"a"}, []string{"b"}, DefaultConfig())

	if d.IsAccepted() || d.IsRejected() {
		t.Fatal("fresh preview should be pending")
	}
	d.Accept()
	if !d.IsAccepted() || d.IsRejected() {
		t.Error("accept state wrong")
	}

	d2 := NewDiffPreviewSimple("d6", 0, []string{"a"}, []string{"b"}, DefaultConfig())
	d2.Reject()
	if !d2.IsRejected() || d2.IsAccepted() {
		t.Error("reject state wrong")
	}
}

func TestDiffHunkAcceptance(t *testing.T) {
	d := NewDiffPreviewSimple("d7", 0, []string{"x"}, []string{"y"}, DefaultConfig())
	if !d.AcceptHunk(0) {
		t.Error("in-range hunk should accept")
	}
	if d.AcceptHunk(99) {
		t.Error("out-of-range hunk index should report false")
	}
	if d.RejectHunk(-1) {
		t.Error("negative hunk index should report false")
	}
}

func TestDiffCollapse(t *testing.T) {
	d := NewDiffPreviewSimple("d8", 0, []string{"a"}, []string{"b"}, DefaultConfig())
	if d.IsCollapsed() {
		t.Error("previews start expanded")
	}
	d.SetCollapsed(true)
	if !d.IsCollapsed() {
		t.Error("collapse flag not stored")
	}
}

func TestDiffSpansForChangedLine(t *testing.T) {
	d := NewDiffPreviewSimple("d9", 3, []string{"old line"}, []string{"new line"}, DefaultConfig())
	if spans := d.SpansForLine(3); len(spans) == 0 {
		t.Error("changed line should produce spans")
	}
	if spans := d.SpansForLine(50); len(spans) != 0 {
		t.Errorf("distant line spans = %v", spans)
	}
}

func TestDiffOperationNames(t *testing.T) {
	if DiffOpInsert.String() == "" || DiffOpDelete.String() == "" || DiffOpReplace.String() == "" {
		t.Error("operations should have names")
	}
}
