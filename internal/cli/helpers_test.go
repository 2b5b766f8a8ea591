package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

// runCLI executes the command tree with args and returns what it wrote to
// stdout. Without FIELDSHARE_CONFIG set, the config path points into a
// temporary directory so the user's file is never read.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	if os.Getenv("FIELDSHARE_CONFIG") == "" {
		t.Setenv("FIELDSHARE_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	}
	color.NoColor = true

	root := NewRootCommand(new(slog.LevelVar), "test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func runJSON[T any](t *testing.T, stdin string, args ...string) T {
	t.Helper()

	out, err := runCLI(t, stdin, append(args, "--json")...)
	require.NoError(t, err)

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("FIELDSHARE_CONFIG", path)
	return path
}

func shareArgs(shares ...string) []string {
	args := make([]string, 0, 2*len(shares))
	for _, s := range shares {
		args = append(args, "--share", s)
	}
	return args
}
