package diffsplit

import (
	"strings"
	"testing"
)

func drain(t *testing.T, patch *Patch) []string {
	t.Helper()

	var body []string
	lines := patch.Lines()
	for {
		line, ok := lines.Next()
		if !ok {
			return body
		}
		body = append(body, line)
	}
}

func TestParseHunkMarkerCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line    string
		wantOld int
		wantNew int
		wantOK  bool
	}{
		{"@@ -1,2 +1,2 @@", 2, 2, true},
		{"@@ -5,1 +5,3 @@", 1, 3, true},
		{"@@ -5,3 +5,1 @@", 3, 1, true},
		{"@@ -56,7 +56,8 @@ fn main() {", 7, 8, true},
		{"@@ -1 +1 @@", 1, 1, true},
		{"@@ -0,0 +1,4 @@", 0, 4, true},
		{"@@ -1,2 1,2 @@", 0, 0, false},
		{"@@ -1,2 +1,2", 0, 0, false},
		{"@@ -a,b +c,d @@", 0, 0, false},
		{"@@ -1,-2 +1,2 @@", 0, 0, false},
		{"not a marker", 0, 0, false},
	}
	for _, tc := range cases {
		oldCount, newCount, ok := parseHunkMarker(tc.line)
		if ok != tc.wantOK {
			t.Fatalf("parseHunkMarker(%q) ok = %v, want %v", tc.line, ok, tc.wantOK)
		}
		if !ok {
			continue
		}
		if oldCount != tc.wantOld || newCount != tc.wantNew {
			t.Fatalf("parseHunkMarker(%q) = %d, %d; want %d, %d", tc.line, oldCount, newCount, tc.wantOld, tc.wantNew)
		}
	}
}

func TestHunkLinesTracksLargerSideTieGoesToNew(t *testing.T) {
	t.Parallel()

	// Tie: new side tracked, count 2. The '-' line does not decrement, so the
	// stream keeps pulling until two '+'/context lines have passed.
	input := strings.Join([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1,2 +1,2 @@",
		"-gone",
		"+here",
		" ctx",
		"unrelated trailing text",
		"",
	}, "\n")

	patch := NewParser(strings.NewReader(input)).NextPatch()
	if patch == nil {
		t.Fatalf("expected a patch")
	}
	body := drain(t, patch)
	want := []string{"@@ -1,2 +1,2 @@", "-gone", "+here", " ctx"}
	if strings.Join(body, "|") != strings.Join(want, "|") {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestHunkLinesTracksOldSideWhenLarger(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -5,3 +5,1 @@",
		"-one",
		"-two",
		"+kept",
		"-three",
		"leftover",
		"",
	}, "\n")

	patch := NewParser(strings.NewReader(input)).NextPatch()
	body := drain(t, patch)
	// old side tracked with count 3; the '+' line passes through untallied.
	want := []string{"@@ -5,3 +5,1 @@", "-one", "-two", "+kept", "-three"}
	if strings.Join(body, "|") != strings.Join(want, "|") {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestHunkLinesMultipleHunksPerFile(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1,2 +1,2 @@",
		" ctx",
		"+one",
		"@@ -10,1 +10,2 @@",
		" ctx",
		"+two",
		"tail",
		"",
	}, "\n")

	patch := NewParser(strings.NewReader(input)).NextPatch()
	body := drain(t, patch)
	want := []string{
		"@@ -1,2 +1,2 @@", " ctx", "+one",
		"@@ -10,1 +10,2 @@", " ctx", "+two",
	}
	if strings.Join(body, "|") != strings.Join(want, "|") {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestHunkLinesMalformedMarkerYieldsEmptyBody(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1,2 1,2 @@",
		" line",
		"",
	}, "\n")

	parser := NewParser(strings.NewReader(input))
	patch := parser.NextPatch()
	if patch == nil {
		t.Fatalf("expected a patch")
	}
	if name, ok := patch.NewFilename(); !ok || name != "f" {
		t.Fatalf("new filename = %q, %v", name, ok)
	}
	if body := drain(t, patch); len(body) != 0 {
		t.Fatalf("expected empty body for malformed marker, got %q", body)
	}
}

func TestHunkLinesDeclaredCountBoundsTheStream(t *testing.T) {
	t.Parallel()

	// Header declares a single new-side line but two body lines follow. The
	// stream trusts the declared count: "context line" has no space prefix so
	// it passes through untallied, and the '+' line is what spends the count.
	input := strings.Join([]string{
		"diff --git a/x b/x",
		"--- a/x",
		"+++ b/x",
		"@@ -1,1 +1,1 @@",
		"context line",
		"+added line",
		"",
	}, "\n")

	patch := NewParser(strings.NewReader(input)).NextPatch()
	body := drain(t, patch)
	want := []string{"@@ -1,1 +1,1 @@", "context line", "+added line"}
	if strings.Join(body, "|") != strings.Join(want, "|") {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestHunkLinesEndOfInputMidHunk(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"diff --git a/f b/f",
		"--- a/f",
		"+++ b/f",
		"@@ -1,5 +1,5 @@",
		" only",
		" two",
	}, "\n")

	patch := NewParser(strings.NewReader(input)).NextPatch()
	body := drain(t, patch)
	want := []string{"@@ -1,5 +1,5 @@", " only", " two"}
	if strings.Join(body, "|") != strings.Join(want, "|") {
		t.Fatalf("body = %q, want %q", body, want)
	}
	// Draining again after exhaustion stays empty.
	if line, ok := patch.Lines().Next(); ok {
		t.Fatalf("exhausted stream produced %q", line)
	}
}
