package seating

import (
	"sort"

	"github.com/iliyamo/train-seat-reservation/internal/model"
)

// sectionRange assigns a contiguous run of seat numbers to a section.
type sectionRange struct {
	Section model.Section
	First   int
	Last    int
}

// coachLayout is the fixed layout of the coach: ten seats, 1-5 in
// SECTION_A and 6-10 in SECTION_B. Not configurable.
var coachLayout = []sectionRange{
	{Section: model.SectionA, First: 1, Last: 5},
	{Section: model.SectionB, First: 6, Last: 10},
}

// SeatMap is the immutable seat-number -> section mapping, built once
// at construction time from a section range table.
type SeatMap struct {
	sections map[int]model.Section
	seats    []int // ascending
}

// NewSeatMap builds the seat map for the coach layout.
func NewSeatMap() *SeatMap {
	return newSeatMap(coachLayout)
}

func newSeatMap(ranges []sectionRange) *SeatMap {
	m := &SeatMap{sections: make(map[int]model.Section)}
	for _, r := range ranges {
		for seat := r.First; seat <= r.Last; seat++ {
			m.sections[seat] = r.Section
			m.seats = append(m.seats, seat)
		}
	}
	sort.Ints(m.seats)
	return m
}

// SectionFor returns the section a seat belongs to. The boolean is
// false for seat numbers outside the coach.
func (m *SeatMap) SectionFor(seat int) (model.Section, bool) {
	sec, ok := m.sections[seat]
	return sec, ok
}

// Seats returns all seat numbers in ascending order. The caller must
// not modify the returned slice.
func (m *SeatMap) Seats() []int { return m.seats }

// Size returns the total number of seats in the coach.
func (m *SeatMap) Size() int { return len(m.seats) }
