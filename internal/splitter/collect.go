package splitter

import (
	"github.com/asynkron/spatch/pkg/diffsplit"
)

// Entry is a fully materialized patch: header and body drained from the
// shared cursor, plus the output path the options would give it. Interactive
// front-ends work on entries because the underlying stream can only be
// consumed once, forward-only.
type Entry struct {
	OldName string
	HasOld  bool
	NewName string
	HasNew  bool
	Header  string
	Body    []string
	Path    string
}

// DisplayName returns the name an entry is listed under.
func (e Entry) DisplayName() string {
	switch {
	case e.HasNew:
		return e.NewName
	case e.HasOld:
		return e.OldName
	default:
		return "(unnamed)"
	}
}

// Kind describes the change: "added", "removed" or "modified".
func (e Entry) Kind() string {
	switch {
	case !e.HasOld:
		return "added"
	case !e.HasNew:
		return "removed"
	default:
		return "modified"
	}
}

// Collect drains every kept patch into an Entry. Skipped counts patches the
// filter rejected.
func Collect(parser *diffsplit.Parser, opts Options) (entries []Entry, skipped int, err error) {
	filter := opts.filter()
	for {
		patch := parser.NextPatch()
		if patch == nil {
			return entries, skipped, nil
		}
		if !filter.Keep(patch) {
			skipped++
			continue
		}

		path, err := opts.outputPath(patch)
		if err != nil {
			return entries, skipped, err
		}

		entry := Entry{Header: patch.Header(), Path: path}
		entry.OldName, entry.HasOld = patch.OldFilename()
		entry.NewName, entry.HasNew = patch.NewFilename()

		lines := patch.Lines()
		for {
			line, ok := lines.Next()
			if !ok {
				break
			}
			entry.Body = append(entry.Body, line)
		}
		entries = append(entries, entry)
	}
}

// WriteEntry writes one materialized entry using the same naming and content
// rules as Split.
func WriteEntry(entry Entry, opts Options) (Result, error) {
	if err := writePatch(entry.Path, entry.Header, pullFromSlice(entry.Body), opts); err != nil {
		return Result{}, err
	}
	return Result{Path: entry.Path, Status: opts.status()}, nil
}
