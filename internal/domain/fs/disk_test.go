package fs

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdesk/webdesk/internal/infrastructure/monitoring"
	"github.com/webdesk/webdesk/internal/shared/events"
)

func TestNormalizeLetter(t *testing.T) {
	got, err := NormalizeLetter("c")
	require.NoError(t, err)
	assert.Equal(t, "C", got)

	got, err = NormalizeLetter("Z")
	require.NoError(t, err)
	assert.Equal(t, "Z", got)

	for _, bad := range []string{"", "CD", "1", "%", "ä"} {
		_, err := NormalizeLetter(bad)
		assert.ErrorIs(t, err, ErrInvalidLetter, "letter %q", bad)
	}
}

func TestDiskPath(t *testing.T) {
	d, err := NewDisk("d", "Data")
	require.NoError(t, err)

	assert.Equal(t, "D", d.Letter())
	assert.Equal(t, `D:\`, d.Path())
	assert.Equal(t, "Data", d.Label())
}

func TestDiskRelabel(t *testing.T) {
	d, err := NewDisk("C", "System")
	require.NoError(t, err)

	var action string
	d.Events().Subscribe(EventChange, func(ev events.Event) {
		action = ev.Detail["action"].(string)
	})

	require.NoError(t, d.SetLabel("Main"))
	assert.Equal(t, "Main", d.Label())
	assert.Equal(t, "relabel", action)

	assert.ErrorIs(t, d.SetLabel(""), ErrInvalidName)
}

func TestDiskAggregatesSubtreeEvents(t *testing.T) {
	d, err := NewDisk("C", "System")
	require.NoError(t, err)

	var actions []string
	d.Events().Subscribe(EventChange, func(ev events.Event) {
		actions = append(actions, ev.Detail["action"].(string))
	})

	docs, err := d.CreateFolder("Docs")
	require.NoError(t, err)
	f, err := docs.CreateFile("a.txt", "")
	require.NoError(t, err)
	require.NoError(t, f.SetContent("deep change"))

	assert.Equal(t, []string{"addFolder", "addFile", "content"}, actions)
}

func TestFind(t *testing.T) {
	d, err := NewDisk("C", "System")
	require.NoError(t, err)
	docs, err := d.CreateFolder("Docs")
	require.NoError(t, err)
	_, err = docs.CreateFile("report.txt", "")
	require.NoError(t, err)
	_, err = docs.CreateFile("report.pdf", "")
	require.NoError(t, err)
	sub, err := docs.CreateFolder("archive")
	require.NoError(t, err)
	_, err = sub.CreateFile("old.txt", "")
	require.NoError(t, err)

	matches, err := d.Find("*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\Docs\report.txt`, `C:\Docs\archive\old.txt`}, matches)

	matches, err = docs.Find("report.*")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = d.Find("[")
	assert.Error(t, err)
}

func TestManagerMountAndLookup(t *testing.T) {
	m := NewManager(nil)

	d, err := m.CreateDisk("c", "System")
	require.NoError(t, err)
	assert.Equal(t, "C", d.Letter())

	// Letters normalize on lookup too.
	got, err := m.Disk("c")
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.True(t, m.HasDisk("C"))

	_, err = m.CreateDisk("C", "Clone")
	assert.ErrorIs(t, err, ErrDiskExists)

	_, err = m.Disk("x")
	assert.ErrorIs(t, err, ErrDiskNotFound)
}

func TestManagerDisksSorted(t *testing.T) {
	m := NewManager(nil)
	for _, letter := range []string{"d", "B", "c"} {
		_, err := m.CreateDisk(letter, "Disk")
		require.NoError(t, err)
	}

	disks := m.Disks()
	require.Len(t, disks, 3)
	assert.Equal(t, "B", disks[0].Letter())
	assert.Equal(t, "C", disks[1].Letter())
	assert.Equal(t, "D", disks[2].Letter())
}

func TestManagerForwardsAnnotatedEvents(t *testing.T) {
	m := NewManager(nil)
	d, err := m.CreateDisk("C", "System")
	require.NoError(t, err)

	var detail events.Detail
	m.Events().Subscribe(EventChange, func(ev events.Event) { detail = ev.Detail })

	_, err = d.CreateFolder("Docs")
	require.NoError(t, err)

	require.NotNil(t, detail)
	assert.Equal(t, "C", detail["disk"])
	assert.Equal(t, "addFolder", detail["action"])
}

func TestManagerRemoveDiskStopsForwarding(t *testing.T) {
	m := NewManager(nil)
	d, err := m.CreateDisk("C", "System")
	require.NoError(t, err)

	count := 0
	m.Events().Subscribe(EventChange, func(events.Event) { count++ })

	_, err = d.CreateFolder("one")
	require.NoError(t, err)
	require.NoError(t, m.RemoveDisk("c"))
	_, err = d.CreateFolder("two")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.ErrorIs(t, m.RemoveDisk("C"), ErrDiskNotFound)
}

func TestManagerTracksNodeGauge(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := NewManager(nil).WithMetrics(metrics)

	d, err := m.CreateDisk("C", "System")
	require.NoError(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FilesystemNodes))

	docs, err := d.CreateFolder("Docs")
	require.NoError(t, err)
	_, err = docs.CreateFile("a.txt", "x")
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FilesystemNodes))

	// Deleting the folder drops its subtree in one step.
	require.NoError(t, d.DeleteFolder("Docs"))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FilesystemNodes))

	// Non-structural changes leave the gauge alone but count as operations.
	f, err := d.CreateFile("note.txt", "")
	require.NoError(t, err)
	require.NoError(t, f.SetContent("hello"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FilesystemNodes))

	require.NoError(t, m.RemoveDisk("C"))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FilesystemNodes))
}

func TestResolve(t *testing.T) {
	m := NewManager(nil)
	d, err := m.CreateDisk("C", "System")
	require.NoError(t, err)
	docs, err := d.CreateFolder("Docs")
	require.NoError(t, err)
	f, err := docs.CreateFile("readme.txt", "hi")
	require.NoError(t, err)

	n, err := m.Resolve(`C:\Docs\readme.txt`)
	require.NoError(t, err)
	assert.Equal(t, f, n)

	folder, err := m.ResolveFolder(`C:\Docs`)
	require.NoError(t, err)
	assert.Equal(t, docs, folder)

	// Trailing separators are tolerated.
	folder, err = m.ResolveFolder(`C:\Docs\`)
	require.NoError(t, err)
	assert.Equal(t, docs, folder)

	container, err := m.ResolveContainer(`C:\`)
	require.NoError(t, err)
	assert.Equal(t, d, container)

	_, err = m.Resolve(`C:\Missing\readme.txt`)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Resolve(`Q:\Docs`)
	assert.ErrorIs(t, err, ErrDiskNotFound)
	_, err = m.ResolveFile(`C:\Docs`)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Resolve("nonsense")
	assert.ErrorIs(t, err, ErrInvalidLetter)
}
