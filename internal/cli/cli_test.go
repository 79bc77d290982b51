package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/lib/a.go b/lib/a.go
--- a/lib/a.go
+++ b/lib/a.go
@@ -1,1 +1,1 @@
-old
+new
diff --git a/lib/b.go b/lib/b.go
--- a/lib/b.go
+++ b/lib/b.go
@@ -1,1 +1,2 @@
 keep
+added
`

// isolate keeps Run away from the developer's real config and environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPATCH_OUTPUT_DIR", "")
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "0001-change.patch")
	require.NoError(t, os.WriteFile(path, []byte(sampleDiff), 0o644))
	return path
}

func TestRunSplitsFileIntoOutputDir(t *testing.T) {
	isolate(t)

	input := writeSample(t)
	outDir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := Run(context.Background(), []string{"-output-dir", outDir, input}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	require.Contains(t, stdout.String(), "Splitting "+input)

	content, err := os.ReadFile(filepath.Join(outDir, "lib-a.go+0001-change.patch"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(content), "diff --git a/lib/a.go b/lib/a.go\n"))
	require.Contains(t, string(content), "+new\n")

	_, err = os.Stat(filepath.Join(outDir, "lib-b.go+0001-change.patch"))
	require.NoError(t, err)
}

func TestRunRegexFilterSkipsNonMatching(t *testing.T) {
	isolate(t)

	input := writeSample(t)
	outDir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := Run(context.Background(), []string{"-o", outDir, "-regex", `a\.go$`, input}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "lib-a.go+0001-change.patch", entries[0].Name())
}

func TestRunConflictingFlags(t *testing.T) {
	isolate(t)

	cases := [][]string{
		{"-only-new", "-only-removed"},
		{"-extract-file"},
		{"-regex", "x", "-glob", "y"},
	}
	for _, args := range cases {
		var stderr bytes.Buffer
		code := Run(context.Background(), args, nil, &stderr)
		require.Equal(t, 2, code, "args %v, stderr: %s", args, stderr.String())
		require.NotEmpty(t, stderr.String())
	}
}

func TestRunOutputPathNotADirectory(t *testing.T) {
	isolate(t)

	input := writeSample(t)
	var stderr bytes.Buffer
	code := Run(context.Background(), []string{"-o", input, input}, nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "is not a directory")
}

func TestRunMissingInputFile(t *testing.T) {
	isolate(t)

	var stderr bytes.Buffer
	code := Run(context.Background(), []string{filepath.Join(t.TempDir(), "absent.patch")}, nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "is not a file")
}

func TestRunReportRendersSummary(t *testing.T) {
	isolate(t)

	input := writeSample(t)
	outDir := t.TempDir()
	var stdout bytes.Buffer

	code := Run(context.Background(), []string{"-o", outDir, "-report", input}, &stdout, nil)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "Split report")
}

func TestRunHonorsOutputDirEnvDefault(t *testing.T) {
	isolate(t)

	input := writeSample(t)
	outDir := t.TempDir()
	t.Setenv("SPATCH_OUTPUT_DIR", outDir)

	code := Run(context.Background(), []string{input}, nil, nil)
	require.Equal(t, 0, code)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestRunHonorsConfigDefaults(t *testing.T) {
	isolate(t)

	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	cfgDir := filepath.Join(cfgHome, "spatch")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgDir, "config.json"),
		[]byte(`{"name_separator": "_", "patch_extension": "diff"}`),
		0o644,
	))

	input := writeSample(t)
	outDir := t.TempDir()
	code := Run(context.Background(), []string{"-o", outDir, input}, nil, nil)
	require.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(outDir, "lib_a.go+0001-change.diff"))
	require.NoError(t, err)
}

func TestRunInvalidConfigFails(t *testing.T) {
	isolate(t)

	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	cfgDir := filepath.Join(cfgHome, "spatch")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgDir, "config.json"),
		[]byte(`{"output_dir": 42}`),
		0o644,
	))

	var stderr bytes.Buffer
	code := Run(context.Background(), nil, nil, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "failed to load config")
}
