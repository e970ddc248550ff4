package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pb "palbot/palbot"
)

const testSetup = "../palbot/testdata/default_setup.txt"

func TestMain(m *testing.M) {
	pb.SetLogger(nil)
	os.Exit(m.Run())
}

// run executes the root command against the test setup without hardware.
// Flag values stick between runs, so every shared flag not given in args is
// reset to its test value.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	base := [][2]string{
		{"--setup", testSetup},
		{"--setup-dir", t.TempDir()},
		{"--journal", ""},
		{"--dry-run", "true"},
		{"--direction", "columns"},
		{"--syringe", "10"},
	}
	full := append([]string(nil), args...)
	for _, f := range base {
		if !slices.Contains(args, f[0]) {
			full = append(full, f[0]+"="+f[1])
		}
	}
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(full)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func loadTestLayout(t *testing.T) *pb.Layout {
	t.Helper()
	l, err := pb.LoadSetupFile(testSetup)
	require.NoError(t, err)
	return l
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "MaxPosition", header("max_position"))
	assert.Equal(t, "DistanceX", header("distance_x"))
	assert.Equal(t, "Name", header("name"))
}

func TestTrayTable(t *testing.T) {
	out := trayTable(loadTestLayout(t))
	for _, want := range []string{"Name", "MaxPosition", "sfc_tray1", "combined", "sfc_tray1, sfc_tray2", "3000", "49alu_tray1", "50000"} {
		assert.Contains(t, out, want)
	}
}

func TestTrayMap(t *testing.T) {
	layout := loadTestLayout(t)

	out, err := trayMap(layout, "sfc", pb.ColumnsFirst, false)
	require.NoError(t, err)
	assert.Contains(t, out, "sfc_tray1 (sfc, numbered by columns)")
	assert.Contains(t, out, "sfc_tray2 (sfc, numbered by columns)")
	assert.Contains(t, out, "29")
	assert.Contains(t, out, "32")
	assert.NotContains(t, out, "33")

	out, err = trayMap(layout, "sfc_tray1", pb.RowsFirst, true)
	require.NoError(t, err)
	assert.Contains(t, out, "numbered by rows")
	assert.Contains(t, out, "1 (10000,20000,1000)")
	assert.Contains(t, out, "2 (13000,20000,1000)")
	assert.Contains(t, out, "5 (10000,23000,1000)")

	_, err = trayMap(layout, "nope", pb.ColumnsFirst, false)
	assert.ErrorIs(t, err, pb.ErrUnknownTray)
}

func TestResolveCmd(t *testing.T) {
	out, _, err := run(t, "resolve", "sfc", "1", "17")
	require.NoError(t, err)
	assert.Equal(t, "sfc#1\tx=10,000\ty=20,000\tz=1,000\nsfc#17\tx=30,000\ty=20,000\tz=1,000\n", out)

	_, _, err = run(t, "resolve", "sfc", "33")
	assert.ErrorIs(t, err, pb.ErrPositionOutOfRange)

	_, _, err = run(t, "resolve", "sfc", "one")
	assert.Error(t, err)
}

func TestSetupCmds(t *testing.T) {
	out, _, err := run(t, "setup", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "7 trays ok")

	dir := t.TempDir()
	out, _, err = run(t, "setup", "save", "copy", "--setup-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "copy.txt"))

	_, stderr, err := run(t, "setup", "save", "copy", "--setup-dir", dir)
	assert.ErrorIs(t, err, pb.ErrSetupExists)
	assert.Contains(t, stderr, "File already exists: "+filepath.Join(dir, "copy.txt"))
}

func TestDryRunCmds(t *testing.T) {
	for _, args := range [][]string{
		{"home"},
		{"change"},
		{"beep"},
		{"wash", "2"},
		{"sample", "sfc_tray1", "1", "sfc", "17", "--volume", "2"},
		{"sample", "sfc_tray1", "1", "sfc", "17", "--washes", "1"},
	} {
		_, _, err := run(t, args...)
		assert.NoError(t, err, "%v", args)
	}

	_, _, err := run(t, "sample", "sfc_tray1", "1", "sfc", "40")
	assert.ErrorIs(t, err, pb.ErrPositionOutOfRange)

	_, _, err = run(t, "wash", "-1")
	assert.Error(t, err)

	_, _, err = run(t, "home", "--syringe", "50")
	assert.ErrorIs(t, err, pb.ErrUnknownSyringe)
}

func TestKineticsCmd(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.db")
	out, _, err := run(t, "kinetics", "--reactions", "2", "--from", "sfc_tray1", "--to", "sfc",
		"--samples", "2", "--interval", "0s", "--volume", "1", "--name", "smoke", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, out, "2 reactions x 2 samples, 4 transfers")

	out, _, err = run(t, "runs", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, out, "smoke")
	assert.Contains(t, out, pb.RunCompleted)

	_, _, err = run(t, "kinetics", "--reactions", "2", "--from", "sfc_tray1", "--to", "sfc_tray1",
		"--samples", "9", "--interval", "0s", "--journal", journal)
	assert.ErrorIs(t, err, pb.ErrPositionOutOfRange)

	_, _, err = run(t, "runs")
	assert.Error(t, err)
}
