package diffsplit

import (
	"io"
	"strings"
)

const (
	// diffBoundaryPrefix marks the first line of every per-file patch.
	diffBoundaryPrefix = "diff --git "
	// hunkMarkerPrefix starts every hunk header inside a patch body.
	hunkMarkerPrefix = "@@ -"

	binaryLinePrefix    = "Binary files "
	binaryLineSuffix    = " differ"
	binaryLineSeparator = " and "

	oldFileLinePrefix = "--- "
	newFileLinePrefix = "+++ "

	// devNull is the conventional path meaning "this side of the change has
	// no corresponding file" (pure addition or pure deletion).
	devNull = "/dev/null"
)

// Parser scans an input stream for "diff --git" boundaries and produces one
// Patch per boundary, in document order. It is created once per input stream
// and is forward-only: it carries no state beyond its position in the stream.
type Parser struct {
	src *LineSource
}

// NewParser builds a Parser over the given reader.
func NewParser(r io.Reader) *Parser {
	return &Parser{src: NewLineSource(r)}
}

// NewParserFromSource builds a Parser over an existing line source. The caller
// keeps ownership of the source; the parser and the patches it yields borrow
// it sequentially.
func NewParserFromSource(src *LineSource) *Parser {
	return &Parser{src: src}
}

// NextPatch advances to the next file boundary and returns the patch that
// starts there, or nil when the input is exhausted.
//
// The shared cursor only ever moves forward: if the previous patch's body was
// abandoned half-way, the leftover hunk lines are plain text as far as the
// boundary search is concerned and are skipped over.
//
// A boundary line that cannot be split into two tokens after the
// "diff --git " prefix terminates the whole sequence; no later patches are
// recovered past a malformed boundary.
func (p *Parser) NextPatch() *Patch {
	var boundary string
	for {
		line, ok := p.src.Next()
		if !ok {
			return nil
		}
		if strings.HasPrefix(line, diffBoundaryPrefix) {
			boundary = line
			break
		}
	}

	oldToken, newToken, ok := strings.Cut(boundary[len(diffBoundaryPrefix):], " ")
	if !ok {
		return nil
	}
	oldName, oldOK := normalizeFilename(strings.TrimPrefix(oldToken, "a/"))
	newName, newOK := normalizeFilename(strings.TrimPrefix(newToken, "b/"))

	var header strings.Builder
	header.WriteString(boundary)
	header.WriteByte('\n')

	for {
		line, peeked := p.src.Peek()
		if !peeked {
			break
		}
		// Both markers are left unconsumed: the hunk marker belongs to this
		// patch's body stream, the next boundary to the next NextPatch call.
		if strings.HasPrefix(line, diffBoundaryPrefix) || strings.HasPrefix(line, hunkMarkerPrefix) {
			break
		}
		p.src.Next()

		switch {
		case strings.HasPrefix(line, oldFileLinePrefix):
			oldName, oldOK = normalizeFilename(strings.TrimPrefix(line[len(oldFileLinePrefix):], "a/"))
		case strings.HasPrefix(line, newFileLinePrefix):
			newName, newOK = normalizeFilename(strings.TrimPrefix(line[len(newFileLinePrefix):], "b/"))
		default:
			// Binary diffs carry no ---/+++ lines; the "Binary files A and B
			// differ" line is their only filename source.
			if a, b, isBinary := cutBinaryLine(line); isBinary {
				oldName, oldOK = normalizeFilename(strings.TrimPrefix(a, "a/"))
				newName, newOK = normalizeFilename(strings.TrimPrefix(b, "b/"))
			}
		}

		header.WriteString(line)
		header.WriteByte('\n')
	}

	return &Patch{
		oldName: oldName,
		oldOK:   oldOK,
		newName: newName,
		newOK:   newOK,
		header:  header.String(),
		src:     p.src,
	}
}

// cutBinaryLine splits a "Binary files <A> and <B> differ" line into its two
// path tokens.
func cutBinaryLine(line string) (oldPath, newPath string, ok bool) {
	rest, ok := strings.CutPrefix(line, binaryLinePrefix)
	if !ok {
		return "", "", false
	}
	rest, ok = strings.CutSuffix(rest, binaryLineSuffix)
	if !ok {
		return "", "", false
	}
	return strings.Cut(rest, binaryLineSeparator)
}

// normalizeFilename cleans an extracted path token. The /dev/null sentinel
// maps to ok=false, meaning the file does not exist on that side. Otherwise
// the value is trimmed and at most one leading "../" and then at most one
// leading "./" are stripped. Normalizing an already normalized name is a
// no-op.
func normalizeFilename(token string) (name string, ok bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == devNull {
		return "", false
	}
	trimmed = strings.TrimPrefix(trimmed, "../")
	trimmed = strings.TrimPrefix(trimmed, "./")
	return trimmed, true
}
