package fs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/shared/events"
)

func TestFolderUniquenessPerKind(t *testing.T) {
	d, err := NewFolder("Docs")
	require.NoError(t, err)

	_, err = d.CreateFile("report", "")
	require.NoError(t, err)
	_, err = d.CreateFile("report", "")
	assert.ErrorIs(t, err, ErrExists)

	// Same name is fine for the other kind.
	_, err = d.CreateFolder("report")
	require.NoError(t, err)
	_, err = d.CreateFolder("report")
	assert.ErrorIs(t, err, ErrExists)

	// Case-sensitive: Report and report coexist.
	_, err = d.CreateFile("Report", "")
	require.NoError(t, err)
}

func TestFolderLookups(t *testing.T) {
	d, err := NewFolder("Docs")
	require.NoError(t, err)
	f, err := d.CreateFile("a.txt", "body")
	require.NoError(t, err)
	sub, err := d.CreateFolder("inner")
	require.NoError(t, err)

	assert.True(t, d.HasFile("a.txt"))
	assert.False(t, d.HasFile("inner"))
	assert.True(t, d.HasFolder("inner"))

	got, err := d.File("a.txt")
	require.NoError(t, err)
	assert.Equal(t, f, got)

	gotSub, err := d.Folder("inner")
	require.NoError(t, err)
	assert.Equal(t, sub, gotSub)

	_, err = d.File("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Len(t, d.Items(), 2)
}

func TestAddRejectsAttachedNode(t *testing.T) {
	a, err := NewFolder("a")
	require.NoError(t, err)
	b, err := NewFolder("b")
	require.NoError(t, err)
	f, err := a.CreateFile("x.txt", "")
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddFile(f), ErrHasParent)

	// Remove detaches without destroying; the file can be re-homed.
	require.NoError(t, a.RemoveFile(f))
	assert.Nil(t, f.Parent())
	require.NoError(t, b.AddFile(f))
	assert.Equal(t, `b\x.txt`, f.Path())
}

func TestChangeEventsBubbleToAncestors(t *testing.T) {
	root, err := NewFolder("root")
	require.NoError(t, err)
	sub, err := root.CreateFolder("sub")
	require.NoError(t, err)
	f, err := sub.CreateFile("deep.txt", "")
	require.NoError(t, err)

	var actions []string
	root.Events().Subscribe(EventChange, func(ev events.Event) {
		actions = append(actions, ev.Detail["action"].(string))
	})

	require.NoError(t, f.SetContent("x"))
	require.NoError(t, sub.SetName("renamed"))

	assert.Equal(t, []string{"content", "rename"}, actions)
}

func TestDetachStopsEventForwarding(t *testing.T) {
	root, err := NewFolder("root")
	require.NoError(t, err)
	f, err := root.CreateFile("a.txt", "")
	require.NoError(t, err)

	count := 0
	root.Events().Subscribe(EventChange, func(events.Event) { count++ })

	require.NoError(t, f.SetContent("1")) // bubbles
	require.NoError(t, root.RemoveFile(f))
	baseline := count
	require.NoError(t, f.SetContent("2")) // detached, no bubble

	assert.Equal(t, baseline, count)
}

func TestLockedFolderRejectsStructuralChanges(t *testing.T) {
	d, err := NewFolder("Docs")
	require.NoError(t, err)
	f, err := d.CreateFile("keep.txt", "")
	require.NoError(t, err)

	require.NoError(t, d.Lock("pw"))

	_, err = d.CreateFile("new.txt", "")
	assert.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, d.DeleteFile("keep.txt"), ErrLocked)
	assert.ErrorIs(t, d.SetName("Other"), ErrLocked)

	// Children are not locked by their parent's lock.
	require.NoError(t, f.SetContent("still writable"))

	require.NoError(t, d.Unlock("pw"))
	require.NoError(t, d.DeleteFile("keep.txt"))
}

func TestDeleteByName(t *testing.T) {
	d, err := NewFolder("Docs")
	require.NoError(t, err)
	_, err = d.CreateFile("a.txt", "")
	require.NoError(t, err)
	_, err = d.CreateFolder("sub")
	require.NoError(t, err)

	require.NoError(t, d.DeleteFile("a.txt"))
	require.NoError(t, d.DeleteFolder("sub"))
	assert.ErrorIs(t, d.DeleteFile("a.txt"), ErrNotFound)
	assert.ErrorIs(t, d.DeleteFolder("sub"), ErrNotFound)
	assert.Empty(t, d.Items())
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	d, err := NewFolder("Docs")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.CreateFile("contested.txt", fmt.Sprintf("writer-%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, ErrExists)
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, d.Items(), 1)
}
