package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatorWalk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}

	p, err := New(items, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Pages())
	assert.Equal(t, 1, p.Item())

	next, ok := p.Next()
	assert.True(t, ok)
	assert.Equal(t, 2, next)

	_, ok = p.Previous()
	assert.False(t, ok)

	p, err = New(items, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Item())

	_, ok = p.Next()
	assert.False(t, ok)

	prev, ok := p.Previous()
	assert.True(t, ok)
	assert.Equal(t, 5, prev)
}

func TestPaginatorSingleItem(t *testing.T) {
	p, err := New([]string{"only"}, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Pages())
	assert.Equal(t, "only", p.Item())

	_, ok := p.Next()
	assert.False(t, ok)
	_, ok = p.Previous()
	assert.False(t, ok)
}

func TestPaginatorInvalidArguments(t *testing.T) {
	items := []int{1, 2, 3}

	_, err := New([]int{}, 1)
	assert.ErrorIs(t, err, ErrEmptySequence)

	_, err = New(items, -1)
	assert.ErrorIs(t, err, ErrPageTooSmall)

	_, err = New(items, 0)
	assert.ErrorIs(t, err, ErrPageTooSmall)

	_, err = New(items, 5)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}
