package project_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/docerr"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/editor/cmd"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/project/projecttest"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p := projecttest.Demo(t)
	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf, project.FormatVersion))
	first := buf.String()

	loaded, err := project.Load(strings.NewReader(first))
	require.NoError(t, err)
	assert.Equal(t, p.UUID, loaded.UUID)
	assert.Equal(t, project.FormatVersion, loaded.Format())
	assert.Len(t, loaded.Board.Devices(), 2)
	assert.NotNil(t, loaded.Circuit.NetSignalByName("VCC"))
	assert.False(t, loaded.IsModified())

	buf.Reset()
	require.NoError(t, loaded.Save(&buf, project.FormatVersion))
	assert.Equal(t, first, buf.String())
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	for _, format := range []string{"0.3", "1.0", "0.0", "latest"} {
		t.Run(format, func(t *testing.T) {
			doc := `(project ` + types.NewIdentifier().String() + ` (name "x") (format "` + format + `")
				(library) (circuit) (board ` + types.NewIdentifier().String() + ` (name "x")))`
			_, err := project.Load(strings.NewReader(doc))
			assert.ErrorIs(t, err, project.ErrUnsupportedFormat)
		})
	}
}

func TestLoadRejectsMissingSection(t *testing.T) {
	doc := `(project ` + types.NewIdentifier().String() + ` (name "x") (format "0.2") (library) (circuit))`
	_, err := project.Load(strings.NewReader(doc))
	assert.ErrorContains(t, err, "missing board section")
}

func TestLoadRevalidatesBoard(t *testing.T) {
	p := projecttest.Demo(t)
	// Drop R2 from the circuit so its device has no component instance.
	var children []*sexp.Node
	for _, c := range p.Serialize(project.FormatVersion).Children() {
		if c.Name() == "circuit" {
			filtered := sexp.NewList("circuit")
			for _, cc := range c.Children() {
				if cc.Name() == "component" && cc.TryChild("name/@0").Value() == "R2" {
					continue
				}
				filtered.Append(cc)
			}
			c = filtered
		}
		children = append(children, c)
	}

	_, err := project.Deserialize(sexp.NewList("project", children...))
	assert.ErrorIs(t, err, docerr.ErrNotFound)
	assert.ErrorIs(t, err, docerr.ErrStructuralValidation)
}

func TestSaveMarksClean(t *testing.T) {
	p := projecttest.Demo(t)
	r1 := p.Board.Devices()[0]
	edit := cmd.NewDeviceEdit(r1)
	edit.Translate(types.PointFromMM(1, 0), false)
	require.NoError(t, p.UndoStack.Execute(edit))
	assert.True(t, p.IsModified())

	require.NoError(t, p.UndoStack.BeginGroup("pending"))
	var buf bytes.Buffer
	assert.Error(t, p.Save(&buf, project.FormatVersion))
	require.NoError(t, p.UndoStack.AbortGroup())

	assert.ErrorIs(t, p.Save(&buf, types.MustParseVersion("0.1")), project.ErrUnsupportedFormat)
	require.NoError(t, p.Save(&buf, project.FormatVersion))
	assert.False(t, p.IsModified())
	require.NoError(t, p.UndoStack.Undo())
	assert.True(t, p.IsModified())
}

func TestOpenAndSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.pcbdoc")
	p := projecttest.Demo(t)
	require.NoError(t, p.SaveFile(path, project.FormatVersion))
	assert.Equal(t, path, p.Path())

	opened, err := project.Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, opened.Path())
	assert.Equal(t, p.Serialize(project.FormatVersion).Format(), opened.Serialize(project.FormatVersion).Format())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = project.Open(filepath.Join(t.TempDir(), "missing.pcbdoc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClose(t *testing.T) {
	p := projecttest.Demo(t)
	require.NoError(t, p.UndoStack.BeginGroup("pending"))
	require.NoError(t, p.Close())
	assert.True(t, p.IsClosed())
	assert.False(t, p.UndoStack.IsGroupOpen())
	assert.ErrorIs(t, p.Save(&bytes.Buffer{}, project.FormatVersion), project.ErrClosed)
	require.NoError(t, p.Close())
}

func TestStackChangesRebuildAirWires(t *testing.T) {
	p := projecttest.Demo(t)
	conn := p.Board.Connectivity()

	var scheduled []string
	conn.OnAirWiresRebuildScheduled.Attach(func(n *board.NetSignal) { scheduled = append(scheduled, n.Name().String()) })

	r1 := p.Circuit.ComponentInstanceByName("R1").Device()
	for _, x := range []float64{1, 2} {
		edit := cmd.NewDeviceEdit(r1)
		edit.SetPosition(types.PointFromMM(x, 0), false)
		require.NoError(t, p.UndoStack.Execute(edit))
		assert.Empty(t, conn.PendingRebuilds())
	}
	assert.Equal(t, []string{"VCC", "GND", "VCC", "GND"}, scheduled)

	require.NoError(t, p.UndoStack.Undo())
	assert.Len(t, scheduled, 6)
	assert.Empty(t, conn.PendingRebuilds())
}
