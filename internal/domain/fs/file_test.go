package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/shared/events"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("readme.txt"))
	assert.NoError(t, ValidateName("über-nötes"))

	assert.ErrorIs(t, ValidateName(""), ErrInvalidName)
	for _, r := range `\/:*?"<>|` {
		assert.ErrorIs(t, ValidateName("bad"+string(r)), ErrInvalidName)
	}

	long := make([]rune, MaxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateName(string(long)), ErrInvalidName)
	assert.NoError(t, ValidateName(string(long[:MaxNameLen])))
}

func TestFileContent(t *testing.T) {
	f, err := NewFile("notes.txt")
	require.NoError(t, err)

	var actions []string
	f.Events().Subscribe(EventChange, func(ev events.Event) {
		actions = append(actions, ev.Detail["action"].(string))
	})

	require.NoError(t, f.SetContent("hello"))
	assert.Equal(t, "hello", f.Content())

	require.NoError(t, f.SetName("renamed.txt"))
	assert.Equal(t, "renamed.txt", f.Name())

	assert.Equal(t, []string{"content", "rename"}, actions)
}

func TestReadonlyFileRejectsContent(t *testing.T) {
	f, err := NewFile("config.sys")
	require.NoError(t, err)

	require.NoError(t, f.SetContent("v=1"))
	require.NoError(t, f.SetReadonly(true))

	assert.ErrorIs(t, f.SetContent("v=2"), ErrReadonly)
	assert.Equal(t, "v=1", f.Content())

	// Renaming and flag changes are still allowed.
	require.NoError(t, f.SetName("config.old"))
	require.NoError(t, f.SetReadonly(false))
	require.NoError(t, f.SetContent("v=2"))
}

func TestFileLocking(t *testing.T) {
	f, err := NewFile("secret.txt")
	require.NoError(t, err)
	require.NoError(t, f.SetContent("original"))

	require.NoError(t, f.Lock("hunter2"))
	assert.True(t, f.Locked())

	assert.ErrorIs(t, f.SetContent("changed"), ErrLocked)
	assert.ErrorIs(t, f.SetName("other.txt"), ErrLocked)
	assert.ErrorIs(t, f.SetHidden(true), ErrLocked)
	assert.ErrorIs(t, f.Lock("again"), ErrLocked)

	// Reads pass through.
	assert.Equal(t, "original", f.Content())

	assert.ErrorIs(t, f.Unlock("wrong"), ErrWrongPassword)
	require.NoError(t, f.Unlock("hunter2"))
	assert.False(t, f.Locked())
	require.NoError(t, f.SetContent("changed"))

	assert.ErrorIs(t, f.Unlock("hunter2"), ErrNotLocked)
}

func TestLockRequiresPassword(t *testing.T) {
	f, err := NewFile("a.txt")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Lock(""), ErrInvalidPassword)
}

func TestFilePathDerivation(t *testing.T) {
	d, err := NewDisk("c", "System")
	require.NoError(t, err)
	docs, err := d.CreateFolder("Docs")
	require.NoError(t, err)
	f, err := docs.CreateFile("readme.txt", "")
	require.NoError(t, err)

	assert.Equal(t, `C:\Docs\readme.txt`, f.Path())
	assert.Equal(t, `C:\Docs\`, docs.Path())

	// Renaming an ancestor is instantly visible in derived paths.
	require.NoError(t, docs.SetName("Documents"))
	assert.Equal(t, `C:\Documents\readme.txt`, f.Path())
}
