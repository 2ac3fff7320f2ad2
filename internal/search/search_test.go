package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifex-data/heimr/internal/records"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })

	err = ix.Build(context.Background(), []records.IndexEntry{
		{AddressID: 1, Text: "6 pond view drive, 02563 Sandwich MA 02563"},
		{AddressID: 2, Text: "12 ocean view road, 02630 Barnstable MA 02630"},
		{AddressID: 3, Text: "54 jalapeno road, 02601 Hyannis MA 02601"},
	})
	require.NoError(t, err)
	return ix
}

func TestSearchPrefix(t *testing.T) {
	ix := testIndex(t)

	ids, err := ix.Search(context.Background(), "pond vi", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestSearchRanksSharedTerms(t *testing.T) {
	ix := testIndex(t)

	ids, err := ix.Search(context.Background(), "view", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := testIndex(t)

	ids, err := ix.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBuildReplacesContents(t *testing.T) {
	ix := testIndex(t)

	err := ix.Build(context.Background(), []records.IndexEntry{
		{AddressID: 9, Text: "1 main street, 02000 Boston MA 02000"},
	})
	require.NoError(t, err)

	ids, err := ix.Search(context.Background(), "pond", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = ix.Search(context.Background(), "main", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids)
}
