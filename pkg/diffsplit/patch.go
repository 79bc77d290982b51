package diffsplit

// Patch represents one file's change extracted from a multi-file diff: the
// normalized old/new filenames, the raw header block, and a handle to the
// shared line source for on-demand body extraction.
//
// A Patch is meant to be drained once, before the next NextPatch call. Once
// the shared cursor has moved into the next patch's region the Patch becomes
// inert: its filenames and header stay valid, but no further body lines can
// be obtained.
type Patch struct {
	oldName string
	oldOK   bool
	newName string
	newOK   bool
	header  string

	src *LineSource

	// Active-hunk state, mutated by HunkLines as a side effect so that the
	// position survives across repeated Lines calls.
	remaining int
	tracked   byte
}

// OldFilename returns the old-side filename. ok is false exactly when the old
// side was /dev/null, i.e. the file was created by this patch.
func (p *Patch) OldFilename() (name string, ok bool) {
	return p.oldName, p.oldOK
}

// NewFilename returns the new-side filename. ok is false exactly when the new
// side was /dev/null, i.e. the file was deleted by this patch.
func (p *Patch) NewFilename() (name string, ok bool) {
	return p.newName, p.newOK
}

// Header returns every header line collected between the file boundary and
// the first hunk marker (or the next boundary), newline-terminated and
// inclusive of the "diff --git" line itself.
func (p *Patch) Header() string {
	return p.header
}

// Lines returns a stream over this patch's hunk body lines. The stream pulls
// from the same shared cursor as the parser, so it must be drained (or
// abandoned) before the parser is asked for the next patch.
func (p *Patch) Lines() *HunkLines {
	return &HunkLines{patch: p}
}
