package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok, "expected overflow when adding to MaxInt")
}

func TestCheckTable(t *testing.T) {
	require.NoError(t, CheckTable(4+2*28, 4, 2, 28))
	require.NoError(t, CheckTable(8, 8, 0, 32))
	require.Error(t, CheckTable(4+2*28+1, 4, 2, 28), "slack after table")
	require.Error(t, CheckTable(4+28, 4, 2, 28), "table past end")
	require.Error(t, CheckTable(100, 4, math.MaxInt/2, 28), "overflow")
	require.Error(t, CheckTable(100, 4, -1, 28))
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)

	_, ok = Slice(data, 4, 2)
	require.False(t, ok)
	_, ok = Slice(data, -1, 1)
	require.False(t, ok)
}

func TestWithin(t *testing.T) {
	require.True(t, Within(0, 10, 10))
	require.False(t, Within(1, 10, 10))
	require.True(t, Within(math.MaxUint32, 0, math.MaxUint32))
}

func TestFixedFields(t *testing.T) {
	b := make([]byte, 24)
	require.NoError(t, PutFixed(b, 4, 20, []byte("abc.txt")))
	require.Equal(t, []byte("abc.txt"), Fixed(b, 4, 20))
	require.Error(t, PutFixed(b, 4, 4, []byte("toolong")))

	// Stale bytes beyond the new name are cleared.
	require.NoError(t, PutFixed(b, 4, 20, []byte("a")))
	require.Equal(t, []byte("a"), Fixed(b, 4, 20))
	require.Equal(t, byte(0), b[5])

	PutU32(b, 0, 0xdeadbeef)
	require.Equal(t, uint32(0xdeadbeef), U32(b, 0))
}

func TestCString(t *testing.T) {
	b := []byte("ab\x00cdef\x00")
	s, next, err := CString(b, 0, 200)
	require.NoError(t, err)
	require.Equal(t, "ab", string(s))
	require.Equal(t, 3, next)

	s, next, err = CString(b, next, 200)
	require.NoError(t, err)
	require.Equal(t, "cdef", string(s))
	require.Equal(t, len(b), next)

	_, _, err = CString(b, 3, 2)
	require.Error(t, err, "string longer than max")
	_, _, err = CString([]byte("abc"), 0, 200)
	require.Error(t, err, "unterminated")
	_, _, err = CString(b, len(b), 200)
	require.Error(t, err)
}
