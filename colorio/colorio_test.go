package colorio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdbg/hcs"
)

func TestEncodeDecodeSetsRoundTrip(t *testing.T) {
	sets := []hcs.ColorSet{
		{},
		{7},
		{0, 2, 5, 9},
		{3, 1000000},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSets(&buf, sets))

	got, err := DecodeSets(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(sets))
	for i := range sets {
		require.Equal(t, sets[i], got[i], "set %d", i)
	}
}

func TestDecodeSetsEmptyStream(t *testing.T) {
	got, err := DecodeSets(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeSetsTruncatedRecord(t *testing.T) {
	// cardinality 3 but only one element follows
	var buf bytes.Buffer
	buf.Write([]byte{3, 0, 0, 0})
	buf.Write([]byte{7, 0, 0, 0})

	_, err := DecodeSets(&buf)
	require.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestEncodeDecodeParentsRoundTrip(t *testing.T) {
	ancestor := []int{-1, 0, 0, -1, 3}

	var buf bytes.Buffer
	require.NoError(t, EncodeParents(&buf, ancestor))

	got, err := DecodeParents(&buf)
	require.NoError(t, err)
	require.Equal(t, ancestor, got)
}

func TestSortAscendingCardinality(t *testing.T) {
	sets := []hcs.ColorSet{
		{0, 1, 2, 3},
		{7},
		{1, 2},
	}

	sorted, perm := Sort(sets)

	wantLens := []int{1, 2, 4}
	for i, want := range wantLens {
		require.Len(t, sorted[i], want, "sorted[%d]", i)
	}

	for orig, idx := range perm {
		require.Equal(t, sets[orig], sorted[idx], "perm[%d]=%d", orig, idx)
	}
}

func TestSortIsStableOnTies(t *testing.T) {
	sets := []hcs.ColorSet{
		{1, 2},
		{3, 4},
		{5, 6},
	}

	sorted, _ := Sort(sets)
	require.Equal(t, uint32(1), sorted[0][0])
	require.Equal(t, uint32(3), sorted[1][0])
	require.Equal(t, uint32(5), sorted[2][0])
}
