package textutil

import "testing"

func TestFoldKey(t *testing.T) {
	cases := map[string]string{
		"  DOGS ":           "dogs",
		"Bushcraft Shelter": "bushcraft shelter",
		"":                  "",
	}
	for input, want := range cases {
		if got := FoldKey(input); got != want {
			t.Fatalf("FoldKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPrefixIsRuneSafe(t *testing.T) {
	if got := Prefix("camping", 4); got != "camp" {
		t.Fatalf("unexpected prefix %q", got)
	}
	if got := Prefix("café au lait", 4); got != "café" {
		t.Fatalf("unexpected prefix %q", got)
	}
	if got := Prefix("bwca", 10); got != "bwca" {
		t.Fatalf("unexpected prefix %q", got)
	}
	if got := Prefix("abc", 0); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("location_type"); got != "Location Type" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := Label("breed"); got != "Breed" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  Winter \t Trip\n "); got != "Winter Trip" {
		t.Fatalf("unexpected collapse %q", got)
	}
}
