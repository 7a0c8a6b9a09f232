package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []Column{{Header: "ID", RightAlign: true}, {Header: "Title"}, {Header: "Words", RightAlign: true}}
	rows := [][]string{
		{"1", "fox", "18"},
		{"12", "lighthouse", "7"},
	}

	lines := FormatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ID  Title       Words" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != " 1  fox            18" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "12  lighthouse      7" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]Column{{Header: "T"}, {Header: "N"}}, [][]string{{"日本", "1"}})
	if lines[0] != "T     N" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "日本  1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableTruncates(t *testing.T) {
	lines := FormatTable([]Column{{Header: "Title", MaxWidth: 8}}, [][]string{{"The quick brown fox"}})
	if lines[1] != "The qui…" {
		t.Fatalf("unexpected truncated cell: %q", lines[1])
	}
}

func TestFormatTableShortRowsAndEmpty(t *testing.T) {
	lines := FormatTable([]Column{{Header: "A"}, {Header: "B"}}, [][]string{{"x"}})
	if lines[1] != "x" {
		t.Fatalf("unexpected short row: %q", lines[1])
	}
	if lines := FormatTable(nil, nil); lines != nil {
		t.Fatalf("expected nil lines, got %v", lines)
	}
}
