package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aweris/namestore"
)

// run executes the CLI against root and returns stdout.
func run(t *testing.T, root, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--root", root))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_PutGet(t *testing.T) {
	root := filepath.Join(t.TempDir(), "topdir")

	out, err := run(t, root, "a very long string1", "put", "filename1")
	require.NoError(t, err)
	assert.Equal(t, "filename1\t"+string(namestore.HashContent("a very long string1"))+"\n", out)

	file := filepath.Join(t.TempDir(), "content.txt")
	require.NoError(t, os.WriteFile(file, []byte("a very long string3"), 0644))
	_, err = run(t, root, "", "put", "filename2", file)
	require.NoError(t, err)

	out, err = run(t, root, "", "get", "filename1")
	require.NoError(t, err)
	assert.Equal(t, "a very long string1", out)

	out, err = run(t, root, "", "get", "filename2")
	require.NoError(t, err)
	assert.Equal(t, "a very long string3", out)
}

func TestCLI_GetUnknown(t *testing.T) {
	root := filepath.Join(t.TempDir(), "topdir")

	_, err := run(t, root, "", "get", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing: not found")
}

func TestCLI_PutManyListStats(t *testing.T) {
	root := filepath.Join(t.TempDir(), "topdir")
	src := t.TempDir()

	for name, content := range map[string]string{
		"filename1": "a very long string1",
		"filename2": "a very long string1",
		"filename3": "a very long string3",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(content), 0644))
	}

	_, err := run(t, root, "", "put-many",
		filepath.Join(src, "filename1"),
		filepath.Join(src, "filename2"),
		filepath.Join(src, "filename3"),
	)
	require.NoError(t, err)

	out, err := run(t, root, "", "list", "filename")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "filename1\t"))

	out, err = run(t, root, "", "list", "nope")
	require.NoError(t, err)
	assert.Equal(t, "(no entries)\n", out)

	out, err = run(t, root, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "names:\t3\n")
	assert.Contains(t, out, "blobs:\t2\n")

	out, err = run(t, root, "", "root")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 64)
}

func TestCLI_PutManyDuplicateBaseNames(t *testing.T) {
	root := filepath.Join(t.TempDir(), "topdir")
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(a, "same"), []byte("1"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(b, "same"), []byte("2"), 0644))

	_, err := run(t, root, "", "put-many", filepath.Join(a, "same"), filepath.Join(b, "same"))
	assert.ErrorContains(t, err, "duplicate name")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "WARN", parseLevel("bogus").String())
}
