package structure

import (
	"testing"

	"github.com/dgallion1/plainspeak/internal/document"
)

func TestDetectLists(t *testing.T) {
	text := "Shopping\n- eggs\n* milk\n\n• bread\nthat was all.\n1. first\n2. second\n- mixed in\n3. third"
	st := Analyze(text)

	want := []document.List{
		{Kind: document.ListUnordered, Items: []string{"eggs", "milk", "bread"}},
		{Kind: document.ListOrdered, Items: []string{"first", "second"}},
		{Kind: document.ListUnordered, Items: []string{"mixed in"}},
		{Kind: document.ListOrdered, Items: []string{"third"}},
	}
	if len(st.Lists) != len(want) {
		t.Fatalf("expected %d lists, got %d: %+v", len(want), len(st.Lists), st.Lists)
	}
	for i, w := range want {
		got := st.Lists[i]
		if got.Kind != w.Kind {
			t.Errorf("list %d: expected kind %q, got %q", i, w.Kind, got.Kind)
		}
		if len(got.Items) != len(w.Items) {
			t.Errorf("list %d: expected items %v, got %v", i, w.Items, got.Items)
			continue
		}
		for j := range w.Items {
			if got.Items[j] != w.Items[j] {
				t.Errorf("list %d item %d: expected %q, got %q", i, j, w.Items[j], got.Items[j])
			}
		}
	}
}

func TestDetectLists_MarkerNeedsWhitespace(t *testing.T) {
	st := Analyze("-dash without space\n*emphasis*\n1.5 is a number")
	if len(st.Lists) != 0 {
		t.Errorf("expected no lists, got %+v", st.Lists)
	}
}
