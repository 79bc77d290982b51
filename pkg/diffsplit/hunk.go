package diffsplit

import (
	"strconv"
	"strings"
)

// HunkLines is a lazy, pull-based stream over one patch's body lines, bounded
// per hunk by the line counts declared in each "@@" marker.
//
// The stream has two states. While no hunk is active it only peeks: a line
// that does not parse as a hunk marker ends the stream and is left in place
// for the parser's next boundary search. Inside a hunk it consumes lines
// unconditionally until the declared count is used up, then re-synchronizes
// at the next marker, which supports multiple hunks per file.
type HunkLines struct {
	patch *Patch
}

// Next produces the next body line. ok is false when the stream has ended:
// either the input is exhausted, or a non-hunk line was peeked while no hunk
// was active. Hunk markers themselves are produced as ordinary lines.
func (h *HunkLines) Next() (line string, ok bool) {
	p := h.patch

	if p.remaining == 0 {
		marker, peeked := p.src.Peek()
		if !peeked {
			return "", false
		}
		oldCount, newCount, isMarker := parseHunkMarker(marker)
		if !isMarker {
			return "", false
		}
		// Single-sided tracking: follow whichever side declares more lines,
		// ties go to the new side. Context lines and lines carrying the
		// tracked prefix decrement the count; the other prefix does not.
		if oldCount > newCount {
			p.remaining = oldCount
			p.tracked = '-'
		} else {
			p.remaining = newCount
			p.tracked = '+'
		}
		p.src.Next()
		return marker, true
	}

	line, ok = p.src.Next()
	if !ok {
		return "", false
	}
	if len(line) > 0 && (line[0] == p.tracked || line[0] == ' ') {
		p.remaining--
	}
	return line, true
}

// parseHunkMarker extracts the declared old and new line counts from a hunk
// header of the form "@@ -<old-range> +<new-range> @@[ trailing text]". Each
// range is either "start,count" or a bare number, which per the unified-diff
// convention denotes a one-line range and is used directly as the count.
func parseHunkMarker(line string) (oldCount, newCount int, ok bool) {
	rest, ok := strings.CutPrefix(line, hunkMarkerPrefix)
	if !ok {
		return 0, 0, false
	}
	oldRange, newRange, ok := strings.Cut(rest, "+")
	if !ok {
		return 0, 0, false
	}
	newRange, _, ok = strings.Cut(strings.TrimSpace(newRange), " @@")
	if !ok {
		return 0, 0, false
	}

	oldCount, err := parseRangeCount(strings.TrimSpace(oldRange))
	if err != nil {
		return 0, 0, false
	}
	newCount, err = parseRangeCount(newRange)
	if err != nil {
		return 0, 0, false
	}
	return oldCount, newCount, true
}

func parseRangeCount(r string) (int, error) {
	if _, count, found := strings.Cut(r, ","); found {
		r = count
	}
	n, err := strconv.ParseUint(r, 10, 32)
	return int(n), err
}
