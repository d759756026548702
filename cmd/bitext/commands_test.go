package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/jonathan/bitext-aligner/internal/alignment"
	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
	"github.com/jonathan/bitext-aligner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sourceBook = "PART ONE\n\nThe old man was thin and gaunt.\n\nHe had deep wrinkles in the back of his neck.\n\n\n\nCHAPTER I\n\nEverything about him was old.\n\nExcept his eyes."
	targetBook = "PART ONE\n\nEl viejo era flaco y desgarbado.\n\nTenia arrugas profundas en la nuca.\n\n\n\nCHAPTER I\n\nTodo en el era viejo.\n\nSalvo sus ojos."
)

var snapshotLine = regexp.MustCompile(`Snapshot: ([0-9a-f-]{36})`)

func writeBooks(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "en.txt")
	target := filepath.Join(dir, "es.txt")
	require.NoError(t, os.WriteFile(source, []byte(sourceBook), 0644))
	require.NoError(t, os.WriteFile(target, []byte(targetBook), 0644))
	return source, target
}

func TestAlignCommand_RequiresInputs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := execute(t, "align", "-o", out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from and --to must be provided")
}

func TestAlignCommand_SameSourceAndTarget(t *testing.T) {
	source, _ := writeBooks(t)

	_, err := execute(t, "align", "-f", source, "-t", source, "-o", filepath.Join(t.TempDir(), "out.txt"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be different files")
}

func TestAlignCommand_MissingSourceFile(t *testing.T) {
	_, target := writeBooks(t)

	_, err := execute(t, "align", "-f", filepath.Join(t.TempDir(), "missing.txt"), "-t", target, "-o", "out.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file not found")
}

func TestAlignCommand_NothingToWrite(t *testing.T) {
	source, target := writeBooks(t)

	_, err := execute(t, "align", "-f", source, "-t", target)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to write")
}

func TestAlignCommand_InvalidFormat(t *testing.T) {
	source, target := writeBooks(t)

	_, err := execute(t, "align", "-f", source, "-t", target, "--format", "pdf", "-o", "out.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestAlignCommand_EndToEnd(t *testing.T) {
	source, target := writeBooks(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	snapPath := filepath.Join(dir, "book.btxs")

	stdout, err := execute(t, "align", "-f", source, "-t", target,
		"--detector", "paragraph", "--format", "text",
		"-o", outPath, "-s", snapPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Step 1/5")
	assert.Regexp(t, snapshotLine, stdout)

	rendered, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "The old man was thin and gaunt.")
	assert.Contains(t, string(rendered), "El viejo era flaco y desgarbado.")

	t.Run("render reproduces the output without aligning", func(t *testing.T) {
		again := filepath.Join(dir, "again.txt")
		stdout, err := execute(t, "render", "-x", snapPath, "--format", "text", "-o", again)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Successfully rendered")

		reread, err := os.ReadFile(again)
		require.NoError(t, err)
		assert.Equal(t, string(rendered), string(reread))
	})

	t.Run("align --reuse renders the snapshot", func(t *testing.T) {
		reused := filepath.Join(dir, "reused.txt")
		_, err := execute(t, "align", "-x", snapPath, "--format", "text", "-o", reused)
		require.NoError(t, err)

		reread, err := os.ReadFile(reused)
		require.NoError(t, err)
		assert.Equal(t, string(rendered), string(reread))
	})

	t.Run("validate-snapshot accepts and dumps it", func(t *testing.T) {
		dump := filepath.Join(dir, "record.json")
		stdout, err := execute(t, "validate-snapshot", "-i", snapPath, "--dump", dump)
		require.NoError(t, err)
		assert.Contains(t, stdout, "is a valid snapshot")
		assert.Contains(t, stdout, "Blocks:          2")

		stdout, err = execute(t, "validate-snapshot", "-i", dump)
		require.NoError(t, err)
		assert.Contains(t, stdout, "matches the snapshot schema")
	})

	t.Run("glossary writes TSV", func(t *testing.T) {
		tsv := filepath.Join(dir, "glossary.tsv")
		stdout, err := execute(t, "glossary", "-x", snapPath, "-o", tsv, "--threshold", "0.5")
		require.NoError(t, err)
		assert.Contains(t, stdout, "glossary entries to")
		assert.FileExists(t, tsv)
	})
}

func TestAlignCommand_ConfigFileWithFlagOverride(t *testing.T) {
	source, target := writeBooks(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	// doc format cannot write a .txt file, so success means --format won
	cfgPath := filepath.Join(dir, "bitext.yaml")
	cfg := "source: " + source + "\ntarget: " + target + "\nout: " + outPath + "\nformat: doc\ndetector: paragraph\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := execute(t, "align", "--config", cfgPath, "--format", "text")
	require.NoError(t, err)
	assert.FileExists(t, outPath)
}

func TestAlignCommand_ConfigStoreWithFlagLocation(t *testing.T) {
	source, target := writeBooks(t)
	dir := t.TempDir()

	// the file alone fails the sqlite rule; the flag completes it
	cfgPath := filepath.Join(dir, "bitext.yaml")
	cfg := "source: " + source + "\ntarget: " + target + "\nstore: sqlite\ndetector: paragraph\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	stdout, err := execute(t, "align", "--config", cfgPath, "--store-location", filepath.Join(dir, "s.db"))
	require.NoError(t, err)
	assert.Regexp(t, snapshotLine, stdout)
	assert.FileExists(t, filepath.Join(dir, "s.db"))
}

func TestAlignCommand_ConfigPostgresWithEnvURL(t *testing.T) {
	source, target := writeBooks(t)
	t.Setenv(config.EnvDatabaseURL, "postgres://127.0.0.1:1/none?connect_timeout=1")

	cfgPath := filepath.Join(t.TempDir(), "bitext.yaml")
	cfg := "source: " + source + "\ntarget: " + target + "\nstore: postgres\ndetector: paragraph\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := execute(t, "align", "--config", cfgPath)

	// the URL from the environment satisfies the store rule, so only the connection fails
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "database_url")
	assert.Contains(t, err.Error(), "failed to open snapshot store")
}

func TestAlignCommand_InvalidPartPattern(t *testing.T) {
	source, target := writeBooks(t)

	_, err := execute(t, "align", "-f", source, "-t", target, "--detector", "paragraph",
		"--part-pattern", "(PART", "-o", filepath.Join(t.TempDir(), "out.txt"), "--format", "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
	assert.Contains(t, err.Error(), "part pattern")
}

func TestAlignCommand_StructuralMismatchExitCode(t *testing.T) {
	source, _ := writeBooks(t)
	target := filepath.Join(t.TempDir(), "short.txt")
	require.NoError(t, os.WriteFile(target, []byte("Un solo bloque.\n\nNada mas."), 0644))

	_, err := execute(t, "align", "-f", source, "-t", target, "--detector", "paragraph",
		"-o", filepath.Join(t.TempDir(), "out.txt"), "--format", "text")

	require.Error(t, err)
	var mismatch *alignment.StructuralMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("config error: bad format")))
	assert.Equal(t, 2, exitCode(fmt.Errorf("alignment failed: %w",
		&alignment.AlignerContractViolationError{Block: 3, Reason: "pair goes backwards"})))
	assert.Equal(t, 2, exitCode(&alignment.StructuralMismatchError{SourceBlocks: 2, TargetBlocks: 1}))
}

func TestAlignCommand_InvalidConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bitext.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"store": "redis"}`), 0644))

	_, err := execute(t, "align", "--config", cfgPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestRenderCommand_FromSQLiteStore(t *testing.T) {
	source, target := writeBooks(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snapshots.db")

	stdout, err := execute(t, "align", "-f", source, "-t", target, "--detector", "paragraph",
		"--store", "sqlite", "--store-location", dbPath)
	require.NoError(t, err)
	m := snapshotLine.FindStringSubmatch(stdout)
	require.Len(t, m, 2)

	outPath := filepath.Join(dir, "book.html")
	_, err = execute(t, "render", "--store", "sqlite", "--store-location", dbPath, "--id", m[1],
		"--format", "table", "--title", "The Old Man", "-o", outPath)
	require.NoError(t, err)

	html, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "The Old Man")
	assert.Contains(t, string(html), "Salvo sus ojos.")
}

func TestDeleteSnapshotCommand(t *testing.T) {
	source, target := writeBooks(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "snapshots.db")

	stdout, err := execute(t, "align", "-f", source, "-t", target, "--detector", "paragraph",
		"--store", "sqlite", "--store-location", dbPath)
	require.NoError(t, err)
	m := snapshotLine.FindStringSubmatch(stdout)
	require.Len(t, m, 2)

	stdout, err = execute(t, "delete-snapshot", "--store", "sqlite", "--store-location", dbPath, "--id", m[1])
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted snapshot "+m[1])

	_, err = execute(t, "render", "--store", "sqlite", "--store-location", dbPath, "--id", m[1],
		"--format", "text", "-o", filepath.Join(dir, "out.txt"))
	require.Error(t, err)

	_, err = execute(t, "delete-snapshot", "--store", "sqlite", "--store-location", dbPath, "--id", m[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot "+m[1]+" in the sqlite store")
}

func TestDeleteSnapshotCommand_NeedsStore(t *testing.T) {
	_, err := execute(t, "delete-snapshot", "--id", "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a store")
}

func TestRenderCommand_SnapshotSelection(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := execute(t, "render", "-o", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --snapshot or --id must be provided")

	_, err = execute(t, "render", "-o", out, "-x", "a.btxs", "--id", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, err = execute(t, "render", "-o", out, "--id", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a store")
}

func TestRenderCommand_MissingOutFlag(t *testing.T) {
	_, err := execute(t, "render", "-x", "a.btxs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "out" not set`)
}

func TestGlossaryCommand_ThresholdRange(t *testing.T) {
	_, err := execute(t, "glossary", "-x", "a.btxs", "--threshold", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--threshold must be in [0, 1)")
}

func TestValidateSnapshotCommand_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.btxs")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a snapshot"), 0644))

	_, err := execute(t, "validate-snapshot", "-i", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid snapshot")
}

func TestValidateSnapshotCommand_RejectsInvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1}`), 0644))

	_, err := execute(t, "validate-snapshot", "-i", path)

	require.Error(t, err)
}

func TestSegmentCommand_WritesDumps(t *testing.T) {
	source, _ := writeBooks(t)
	outDir := filepath.Join(t.TempDir(), "debug")

	stdout, err := execute(t, "segment", "--detector", "paragraph", "-o", outDir, source)
	require.NoError(t, err)
	assert.Contains(t, stdout, "EN.TXT SEGMENTATION")

	segments, err := os.ReadFile(filepath.Join(outDir, "en.segments.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(segments), "== block 0 (3 sentences) ==")
	assert.Contains(t, string(segments), "[part] PART ONE")
	assert.Contains(t, string(segments), "[chapter] CHAPTER I")

	trace, err := os.ReadFile(filepath.Join(outDir, "en.trace.txt"))
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(trace), "\n"))

	assert.FileExists(t, filepath.Join(outDir, "en.meta.json"))
}

func TestSegmentCommand_CustomHeadingPatterns(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "fr.txt")
	require.NoError(t, os.WriteFile(book, []byte("LIVRE PREMIER\n\nLe vieil homme etait maigre.\n\n\n\nCHAPITRE I\n\nTout en lui etait vieux."), 0644))
	outDir := filepath.Join(dir, "debug")

	_, err := execute(t, "segment", "--detector", "paragraph", "-o", outDir,
		"--part-pattern", `^[\r\n]*(LIVRE *[A-Z]*) *\n?$`,
		"--chapter-pattern", `^[\r\n]*(CHAPITRE *[A-Z]*) *\n?$`,
		book)
	require.NoError(t, err)

	segments, err := os.ReadFile(filepath.Join(outDir, "fr.segments.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(segments), "[part] LIVRE PREMIER")
	assert.Contains(t, string(segments), "[chapter] CHAPITRE I")
	assert.Contains(t, string(segments), "[body] Le vieil homme etait maigre.")
}

func TestSegmentCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "segment")

	require.Error(t, err)
}

func TestDumpSegments(t *testing.T) {
	text := &types.Text{Blocks: []types.Block{
		types.NewBlock([]types.Sentence{
			types.NewHeadingSentence("CHAPTER I", types.RoleChapterHeading),
			types.NewBodySentence("It was late."),
		}),
		types.NewBlock(nil),
	}}

	got := dumpSegments(text)

	assert.Equal(t, "== block 0 (2 sentences) ==\n[chapter] CHAPTER I\n[body] It was late.\n== block 1 (0 sentences) ==\n", got)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := openStore(ctx, config.Config{Store: snapshot.KindFile})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = openStore(ctx, config.Config{Store: snapshot.KindFile, StoreLocation: t.TempDir()})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())

	_, err = openStore(ctx, config.Config{Store: snapshot.KindPostgres})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db-url")
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("", true)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestCLI_MissingRequiredFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate-snapshot")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), `required flag(s) "in" not set`)
}
