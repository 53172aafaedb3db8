package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, storePath string, args ...string) (string, error) {
	t.Helper()
	cmd, a := newRootCmd()
	defer a.close()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--backend", "sqlite", "--store", storePath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSetShowAndReload(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")

	_, err := run(t, db, "set", "IQ", "2000", "40")
	require.NoError(t, err)
	_, err = run(t, db, "set", "boost", "2000", "2,5")
	require.NoError(t, err)

	out, err := run(t, db, "show", "--plain")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	assert.Contains(t, lines[3], "40")
	assert.Contains(t, lines[4], "2.5")

	_, err = run(t, db, "verify")
	require.NoError(t, err)
}

func TestSetRejections(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cells.db")

	_, err := run(t, db, "set", "AFR", "2000", "12")
	assert.ErrorContains(t, err, "read-only")

	_, err = run(t, db, "set", "IQ", "2100", "12")
	assert.ErrorContains(t, err, "no column")

	_, err = run(t, db, "set", "IQQ", "2000", "12")
	assert.ErrorContains(t, err, "did you mean IQ")
}

func TestExportImportCompare(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	exports := filepath.Join(dir, "exports")

	_, err := run(t, src, "set", "IQ", "3000", "50")
	require.NoError(t, err)
	_, err = run(t, src, "export", "--dir", exports, "--format", "csv")
	require.NoError(t, err)

	csvFile := filepath.Join(exports, "edc15p_grid.csv")
	_, err = run(t, dst, "import", csvFile)
	require.NoError(t, err)

	srcOut, err := run(t, src, "show", "--plain")
	require.NoError(t, err)
	dstOut, err := run(t, dst, "show", "--plain")
	require.NoError(t, err)
	assert.Equal(t, srcOut, dstOut)

	_, err = run(t, dst, "compare", csvFile)
	require.NoError(t, err)
}

func TestPasteFromFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")
	paste := filepath.Join(dir, "paste.txt")
	require.NoError(t, os.WriteFile(paste, []byte("30\t35\t40\n"), 0o644))

	_, err := run(t, db, "paste", "IQ", "1500", paste)
	require.NoError(t, err)

	out, err := run(t, db, "show", "--plain")
	require.NoError(t, err)
	iq := strings.Split(out, "\n")[3]
	for _, v := range []string{"30", "35", "40"} {
		assert.Contains(t, iq, v)
	}
}

func TestResetKeepsIQ(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cells.db")

	_, err := run(t, db, "set", "IQ", "2500", "45")
	require.NoError(t, err)
	_, err = run(t, db, "set", "SOI", "2500", "-3")
	require.NoError(t, err)
	_, err = run(t, db, "reset", "--backup-dir", filepath.Join(dir, "backups"))
	require.NoError(t, err)

	out, err := run(t, db, "show", "--plain")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[3], "45")
	assert.NotContains(t, lines[5], "-3 ")

	backups, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
