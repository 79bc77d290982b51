// Package diffsplit provides a streaming parser that decomposes a textual
// stream of unified/git-style diffs into discrete per-file patches.
//
// The package is extracted from spatch's command implementation so that it can
// be reused by other tools. It exposes a forward-only Parser that yields one
// Patch per "diff --git" boundary, each carrying normalized old/new filenames,
// the verbatim header block, and a lazy, pull-based stream of hunk body lines
// which makes it straightforward to embed in splitters, filters and review
// tooling without materializing the whole diff.
package diffsplit
