package quakes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPager_LoadMoreCapsAtLength(t *testing.T) {
	p := NewPager(12)
	p.SetItems(manyQuakes(30))

	assert.Equal(t, 12, p.VisibleCount())
	assert.Len(t, p.Visible(), 12)
	assert.True(t, p.HasMore())

	assert.True(t, p.LoadMore())
	assert.Equal(t, 24, p.VisibleCount())

	assert.True(t, p.LoadMore())
	assert.Equal(t, 30, p.VisibleCount())
	assert.False(t, p.HasMore())

	assert.False(t, p.LoadMore())
	assert.Equal(t, 30, p.VisibleCount())
	assert.Len(t, p.Visible(), 30)
}

func TestPager_ResetReturnsToOnePage(t *testing.T) {
	p := NewPager(12)
	p.SetItems(manyQuakes(30))
	p.LoadMore()
	assert.Equal(t, 24, p.VisibleCount())

	p.Reset()
	p.SetItems(manyQuakes(5))
	assert.Equal(t, 12, p.VisibleCount())
	assert.Len(t, p.Visible(), 5)
	assert.False(t, p.HasMore())
	assert.False(t, p.LoadMore())
}

func TestPager_VisibleIsPrefix(t *testing.T) {
	items := manyQuakes(20)
	p := NewPager(7)
	p.SetItems(items)
	p.LoadMore()

	assert.Equal(t, items[:14], p.Visible())
}

func TestPager_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NewPager(0).VisibleCount())
	assert.Equal(t, DefaultPageSize, NewPager(-3).VisibleCount())
}

func TestSentinel_DrivesAttachedPager(t *testing.T) {
	p := NewPager(12)
	p.SetItems(manyQuakes(30))
	s := NewSentinel()
	p.Attach(s)

	// A burst of signals past the end is harmless.
	for i := 0; i < 5; i++ {
		s.Signal()
	}
	assert.Equal(t, 30, p.VisibleCount())
	assert.Equal(t, 5, s.Signals())
}

func TestSentinel_WithoutSubscriber(t *testing.T) {
	s := NewSentinel()
	assert.NotPanics(t, s.Signal)
	assert.Equal(t, 1, s.Signals())
}

func TestSentinel_SubscribeReplaces(t *testing.T) {
	s := NewSentinel()
	var first, second int
	s.Subscribe(func() { first++ })
	s.Subscribe(func() { second++ })
	s.Signal()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}
