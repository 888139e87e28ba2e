package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

func TestSeatMap(t *testing.T) {
	m := NewSeatMap()

	assert.Equal(t, 10, m.Size())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, m.Seats())

	for seat := 1; seat <= 5; seat++ {
		sec, ok := m.SectionFor(seat)
		assert.True(t, ok)
		assert.Equal(t, model.SectionA, sec, "seat %d", seat)
	}
	for seat := 6; seat <= 10; seat++ {
		sec, ok := m.SectionFor(seat)
		assert.True(t, ok)
		assert.Equal(t, model.SectionB, sec, "seat %d", seat)
	}

	_, ok := m.SectionFor(0)
	assert.False(t, ok)
	_, ok = m.SectionFor(11)
	assert.False(t, ok)
}
