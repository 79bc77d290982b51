package splitter

import (
	"fmt"
	"strings"
)

// Markdown renders the summary as a small markdown report suitable for
// terminal rendering.
func (s Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Split report\n\n")
	fmt.Fprintf(&b, "**%d** file(s) written, **%d** patch(es) skipped by filter.\n\n", len(s.Written), s.Skipped)
	if len(s.Written) == 0 {
		return b.String()
	}
	for _, res := range s.Written {
		fmt.Fprintf(&b, "- `%s` (%s)\n", res.Path, res.Status)
	}
	return b.String()
}

// Merge folds another summary into this one; used when several input files
// are split in a single run.
func (s *Summary) Merge(other Summary) {
	s.Written = append(s.Written, other.Written...)
	s.Skipped += other.Skipped
}
