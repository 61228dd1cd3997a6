package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project/projecttest"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

func demoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.pcbdoc")
	require.NoError(t, projecttest.Demo(t).SaveFile(path, project.FormatVersion))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PCBDOC_OUTPUT_COLOR", "false")
	t.Setenv("PCBDOC_LOG_LEVEL", "error")
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	doc := demoFile(t)
	out, err := run(t, "check", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+doc+": format 0.2, 2 devices, 2 nets, 0 net lines")
	assert.NotContains(t, out, "!")
}

func TestCheckMissingFile(t *testing.T) {
	_, err := run(t, "check", filepath.Join(t.TempDir(), "missing.pcbdoc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", demoFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Project: demo")
	assert.Contains(t, out, "1 components, 1 packages, 1 devices")
	assert.Regexp(t, `R2\s+R0805\s+\(5\.0, 0\.0\)`, out)
}

func TestNets(t *testing.T) {
	doc := demoFile(t)
	out, err := run(t, "nets", doc)
	require.NoError(t, err)
	assert.Regexp(t, `VCC\s+2\s+2\s+0`, out)
	assert.Regexp(t, `GND\s+1\s+1\s+0`, out)

	out, err = run(t, "nets", doc, "VCC")
	require.NoError(t, err)
	assert.Contains(t, out, "Signals (2):")
	assert.Contains(t, out, "R1.1")
	assert.Contains(t, out, "R2.1")

	_, err = run(t, "nets", doc, "NOPE")
	assert.Error(t, err)
}

func TestRunWritesOutput(t *testing.T) {
	doc := demoFile(t)
	dir := filepath.Dir(doc)
	scriptPath := filepath.Join(dir, "edit.pcbs")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
		begin "Move and route"
		place R2 10 0
		route R1.1 R2.1 0.3
		commit
	`), 0o644))
	outPath := filepath.Join(dir, "out.pcbdoc")

	out, err := run(t, "run", doc, scriptPath, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "4 statements executed, 1 undo steps")
	assert.Contains(t, out, "saved "+outPath)

	p, err := project.Open(outPath)
	require.NoError(t, err)
	r2 := p.Circuit.ComponentInstanceByName("R2").Device()
	assert.Equal(t, types.PointFromMM(10, 0), r2.Position())
	require.Len(t, p.Board.NetLines(), 1)

	out, err = run(t, "nets", outPath, "VCC")
	require.NoError(t, err)
	assert.Contains(t, out, "0.3 mm wide on top_cu from R1.1 to R2.1")
}

func TestRunFailureWritesNothing(t *testing.T) {
	doc := demoFile(t)
	before, err := os.ReadFile(doc)
	require.NoError(t, err)
	scriptPath := filepath.Join(filepath.Dir(doc), "bad.pcbs")
	require.NoError(t, os.WriteFile(scriptPath, []byte("place R1 1 1\nmove R9 1 0\n"), 0o644))

	_, err = run(t, "run", doc, scriptPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R9")

	after, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFmt(t *testing.T) {
	doc := demoFile(t)
	outPath := filepath.Join(t.TempDir(), "fmt.pcbdoc")
	out, err := run(t, "fmt", doc, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "format 0.2 -> 0.2")

	want, err := os.ReadFile(doc)
	require.NoError(t, err)
	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pcbdoc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  format: xml\n"), 0o644))
	_, err := run(t, "--config", cfgPath, "check", demoFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
