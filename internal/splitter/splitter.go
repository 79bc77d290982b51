package splitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asynkron/spatch/pkg/diffsplit"
)

const (
	defaultNameSeparator = "-"
	defaultExtension     = "patch"
)

// Options configure how extracted patches are named and written to disk.
type Options struct {
	// OutputDir receives the split files. Parent directories of individual
	// outputs are created on demand.
	OutputDir string

	// SourceStem, when non-empty, is appended to flattened patch names as
	// "<name>+<stem>.patch" so splits of several input files don't collide.
	SourceStem string

	// Filter selects which patches to keep; nil keeps everything.
	Filter Filter

	// ExtractContents writes the raw file contents instead of a patch. Only
	// meaningful together with the OnlyNew or OnlyRemoved filter, since a
	// file's full contents are only recoverable from a pure add or a pure
	// delete.
	ExtractContents bool

	// NameSeparator replaces '/' when flattening a filename into a patch
	// name. Defaults to "-".
	NameSeparator string

	// Extension is appended to flattened patch names. Defaults to "patch".
	Extension string
}

func (o Options) separator() string {
	if o.NameSeparator == "" {
		return defaultNameSeparator
	}
	return o.NameSeparator
}

func (o Options) extension() string {
	if o.Extension == "" {
		return defaultExtension
	}
	return o.Extension
}

func (o Options) filter() Filter {
	if o.Filter == nil {
		return All()
	}
	return o.Filter
}

// Result records one written output file.
type Result struct {
	// Path is the absolute or output-dir-relative location that was written.
	Path string
	// Status is "patch" for split patches and "contents" for extracted files.
	Status string
}

// Summary aggregates the outcome of splitting one input stream.
type Summary struct {
	Written []Result
	Skipped int
}

// Split drives the parser to exhaustion, writing one output file per kept
// patch. Bodies are streamed straight from the shared cursor to disk; nothing
// is buffered beyond the current line.
func Split(parser *diffsplit.Parser, opts Options) (Summary, error) {
	var summary Summary
	filter := opts.filter()

	for {
		patch := parser.NextPatch()
		if patch == nil {
			return summary, nil
		}
		if !filter.Keep(patch) {
			summary.Skipped++
			continue
		}

		path, err := opts.outputPath(patch)
		if err != nil {
			return summary, err
		}
		if err := writePatch(path, patch.Header(), patch.Lines().Next, opts); err != nil {
			return summary, err
		}
		summary.Written = append(summary.Written, Result{Path: path, Status: opts.status()})
	}
}

func (o Options) status() string {
	if o.ExtractContents {
		return "contents"
	}
	return "patch"
}

// outputPath decides where a patch's output lands. In contents mode the
// surviving side's path is kept as-is under the output directory; otherwise
// the name is flattened and given the patch extension.
func (o Options) outputPath(patch *diffsplit.Patch) (string, error) {
	oldName, hasOld := patch.OldFilename()
	newName, hasNew := patch.NewFilename()

	if o.ExtractContents {
		switch {
		case hasNew:
			return filepath.Join(o.OutputDir, filepath.FromSlash(newName)), nil
		case hasOld:
			return filepath.Join(o.OutputDir, filepath.FromSlash(oldName)), nil
		default:
			return "", fmt.Errorf("cannot extract file: both sides of the patch are /dev/null")
		}
	}

	var name string
	switch {
	case hasNew:
		name = newName
	case hasOld:
		name = oldName
	default:
		return "", fmt.Errorf("cannot name patch: both sides are /dev/null")
	}

	flat := strings.ReplaceAll(name, "/", o.separator())
	if o.SourceStem != "" {
		flat = flat + "+" + o.SourceStem
	}
	return filepath.Join(o.OutputDir, flat+"."+o.extension()), nil
}

// pullFromSlice adapts a materialized body to the pull function writePatch
// consumes, so entries reuse the same writer as the streaming path.
func pullFromSlice(lines []string) func() (string, bool) {
	i := 0
	return func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
}

// writePatch writes one output file. In contents mode the header and hunk
// markers are dropped and each body line loses its leading prefix character;
// in patch mode everything is written verbatim.
func writePatch(path, header string, next func() (string, bool), opts Options) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if !opts.ExtractContents {
		if _, err := out.WriteString(header); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if opts.ExtractContents {
			if strings.HasPrefix(line, "@@ -") {
				continue
			}
			if len(line) > 0 {
				line = line[1:]
			}
		}
		if _, err := out.WriteString(line + "\n"); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return out.Close()
}
