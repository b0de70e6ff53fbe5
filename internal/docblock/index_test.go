package docblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLastSeenWins(t *testing.T) {
	src := `/**
 * @param x first description
 */
int a(int x);

/**
 * @param x second description
 */
int b(int x);
`
	idx := BuildIndex(Scan(src))

	desc, ok := idx.Describe("x")
	require.True(t, ok)
	assert.Equal(t, "second description", desc)
	assert.Equal(t, []string{"second description", "first description"},
		idx.Candidates("x"))
}

func TestIndexDeduplicates(t *testing.T) {
	src := `/**
 * @param fd file descriptor
 */
int a(int fd);

/**
 * @param fd open handle
 */
int b(int fd);

/**
 * @param fd file descriptor
 */
int c(int fd);
`
	idx := BuildIndex(Scan(src))
	assert.Equal(t, []string{"file descriptor", "open handle"}, idx.Candidates("fd"))
}

func TestIndexSkipsEmptyDescriptions(t *testing.T) {
	src := `/**
 * @param flags
 * @param mode creation mode
 */
int open2(unsigned flags, unsigned mode);
`
	idx := BuildIndex(Scan(src))
	_, ok := idx.Describe("flags")
	assert.False(t, ok)
	assert.Nil(t, idx.Candidates("flags"))
	assert.Equal(t, 1, idx.Len())
}

func TestIndexNamesSorted(t *testing.T) {
	src := `/**
 * @param zeta last
 * @param alpha first
 */
int f(int zeta, int alpha);
`
	idx := BuildIndex(Scan(src))
	assert.Equal(t, []string{"alpha", "zeta"}, idx.Names())
}

func TestIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Equal(t, 0, idx.Len())
	_, ok := idx.Describe("anything")
	assert.False(t, ok)
}

func TestIndexCandidatesIsolated(t *testing.T) {
	idx := BuildIndex(Scan(`/**
 * @param n count
 */
int f(int n);
`))
	c := idx.Candidates("n")
	require.Len(t, c, 1)
	c[0] = "mutated"
	assert.Equal(t, []string{"count"}, idx.Candidates("n"))
}
