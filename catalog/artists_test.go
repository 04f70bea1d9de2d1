package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultDirectory(t *testing.T) {
	d := Default()

	require.Equal(t, []int{1, 2, 3, 4, 5}, d.Rooms())
	require.Len(t, d.Room(1), 3)
	require.Len(t, d.Room(2), 2)
	require.Empty(t, d.Room(9))

	names := d.Names()
	require.Len(t, names, 12)
	require.True(t, sort.StringsAreSorted(names))
}

func TestLookup(t *testing.T) {
	d := Default()

	a, ok := d.Lookup("이용준")
	require.True(t, ok)
	require.Equal(t, "Royal Blue", a.ColorName)
	require.Equal(t, "#305cde", a.Hex)
	require.Equal(t, 5, a.Room)

	_, ok = d.Lookup("nobody")
	require.False(t, ok)
}

func TestNewDirectoryUsesTableRoom(t *testing.T) {
	d := NewDirectory(map[int][]Artist{
		7: {{Name: "A", Room: 1}},
	})
	a, ok := d.Lookup("A")
	require.True(t, ok)
	require.Equal(t, 7, a.Room)
	require.Len(t, d.Room(7), 1)
}
