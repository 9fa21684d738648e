package structure

import (
	"strings"
	"testing"
)

func TestDetectTables_Pipe(t *testing.T) {
	text := "Table 1 Prices\nItem | Price | Qty\nApple | 1.00 | 3\nPear | 2.00 | 1\nno delimiter here"
	st := Analyze(text)
	if len(st.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(st.Tables))
	}
	tbl := st.Tables[0]
	if strings.Join(tbl.Headers, ",") != "Item,Price,Qty" {
		t.Errorf("unexpected headers %v", tbl.Headers)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1][0] != "Pear" {
		t.Errorf("unexpected rows %v", tbl.Rows)
	}
	if tbl.Caption != "Table 1 Prices" {
		t.Errorf("expected caption, got %q", tbl.Caption)
	}
}

func TestDetectTables_Tab(t *testing.T) {
	st := Analyze("Name\tAge\nAnn\t31\nBob\t42")
	if len(st.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(st.Tables))
	}
	if len(st.Tables[0].Rows) != 2 {
		t.Errorf("expected 2 rows, got %v", st.Tables[0].Rows)
	}
	if st.Tables[0].Caption != "" {
		t.Errorf("expected no caption, got %q", st.Tables[0].Caption)
	}
}

func TestDetectTables_RequiresSameDelimiterAndWidth(t *testing.T) {
	st := Analyze("a | b\nc\td\ne | f | g")
	if len(st.Tables) != 0 {
		t.Errorf("expected no tables, got %+v", st.Tables)
	}
}

func TestDetectTables_LookaheadWindow(t *testing.T) {
	lines := []string{"h1 | h2"}
	for i := 0; i < 9; i++ {
		lines = append(lines, "filler")
	}
	lines = append(lines, "x | y") // 10 lines after the header
	st := Analyze(strings.Join(lines, "\n"))
	if len(st.Tables) != 0 {
		t.Fatalf("expected row outside window to be ignored, got %+v", st.Tables)
	}

	lines = append(lines[:9], "x | y") // 9th line after the header
	st = Analyze(strings.Join(lines, "\n"))
	if len(st.Tables) != 1 {
		t.Fatalf("expected row at window edge to match, got %+v", st.Tables)
	}
}

func TestDetectTables_ConsumedRowsNotRedetected(t *testing.T) {
	st := Analyze("a | b\n1 | 2\n3 | 4\n5 | 6")
	if len(st.Tables) != 1 {
		t.Fatalf("expected a single table, got %d", len(st.Tables))
	}
	if len(st.Tables[0].Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(st.Tables[0].Rows))
	}
}
