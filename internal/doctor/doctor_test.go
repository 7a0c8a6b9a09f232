package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")
	check := checkConfig(missing, nil)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "using defaults")

	present := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(present, []byte("[test]\n"), 0o644))
	check = checkConfig(present, nil)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "loaded")

	check = checkConfig(present, errors.New(`unknown config key "test.timelimit"`))
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "test.timelimit")
}

func TestCheckSpeechEmpty(t *testing.T) {
	check := checkSpeech("  ")
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "no recognizer configured")
}

func TestCheckSpeechUsesPath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-recognizer")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))

	check := checkSpeech("fake-recognizer --model small")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, script)
}

func TestCheckSpeechMissing(t *testing.T) {
	check := checkSpeech("definitely-not-a-real-recognizer")
	require.False(t, check.Pass)
}

func TestCheckDatabase(t *testing.T) {
	check := checkDatabase(context.Background(), filepath.Join(t.TempDir(), "data", "recite.db"))
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "0 saved passages")
}

func TestCheckWordList(t *testing.T) {
	check := checkWordList("")
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "generation disabled")

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\ngamma\n"), 0o644))
	check = checkWordList(path)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "3 words")

	check = checkWordList(filepath.Join(t.TempDir(), "missing.txt"))
	require.False(t, check.Pass)
}

func TestRunCollectsAllChecks(t *testing.T) {
	dir := t.TempDir()
	report := Run(context.Background(), Input{
		ConfigPath: filepath.Join(dir, "config.toml"),
		DBPath:     filepath.Join(dir, "recite.db"),
	})
	require.Len(t, report.Checks, 4)
	require.False(t, report.OK())
}
