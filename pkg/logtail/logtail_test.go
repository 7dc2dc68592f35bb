package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines int) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= lines; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	path := filepath.Join(t.TempDir(), "activity.log")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestTailReturnsLastLines(t *testing.T) {
	path := writeLog(t, 100)

	out, err := Tail(path, 3)
	require.NoError(t, err)
	assert.Equal(t, "line 98\nline 99\nline 100", out)
}

func TestTailShortFile(t *testing.T) {
	path := writeLog(t, 2)

	out, err := Tail(path, 50)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2", out)
}

func TestTailClampsRequest(t *testing.T) {
	path := writeLog(t, 5)

	out, err := Tail(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "line 5", out)
}

func TestTailMissingFile(t *testing.T) {
	_, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGrepFiltersCaseInsensitively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	content := "USER set chat_id=1\nSCHEDULE send due=2\nUSER Set chat_id=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	hits, err := Grep(path, "set", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"USER set chat_id=1", "USER Set chat_id=3"}, hits)
}

func TestGrepLimitKeepsMostRecent(t *testing.T) {
	path := writeLog(t, 10)

	hits, err := Grep(path, "line", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"line 9", "line 10"}, hits)
}
