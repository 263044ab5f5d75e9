// Package allocator places an ordered list of subjects into capacity bounded rooms over as
// many repeating intervals as are needed.
//
// The allocation is a single pass over the 'seats' of the room list, interval-major and then
// room-major, with each room contributing exactly 'capacity' seats to every interval. The i'th
// subject takes the i'th seat, so a subject's room and interval depend only on its position in
// the input, the room capacities and the room order.
package allocator

import (
	"github.com/samber/lo"
)

type Room struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Capacity int    `mapstructure:"capacity" yaml:"capacity"`
}

type Assignment[T any] struct {
	Interval int
	Subject  T
	Room     string
}

// MakeRooms builds a room list from parallel name and capacity lists.
func MakeRooms(names []string, capacities []int) ([]Room, error) {
	if len(names) != len(capacities) {
		return nil, configurationError("%v rooms but %v capacities", len(names), len(capacities))
	}

	rooms := lo.Map(lo.Zip2(names, capacities), func(t lo.Tuple2[string, int], _ int) Room {
		return Room{
			Name:     t.A,
			Capacity: t.B,
		}
	})

	return rooms, validate(0, rooms)
}

// Allocate assigns every subject to a room and interval. The returned assignments are ordered
// by interval, then by room in room list order, then by subject order.
func Allocate[T any](subjects []T, rooms []Room) ([]Assignment[T], error) {
	if err := validate(len(subjects), rooms); err != nil {
		return nil, err
	}

	N := len(subjects)
	assignments := make([]Assignment[T], 0, N)

	for interval := 1; len(assignments) < N; interval++ {
		for _, room := range rooms {
			for seat := 0; seat < room.Capacity && len(assignments) < N; seat++ {
				assignments = append(assignments, Assignment[T]{
					Interval: interval,
					Subject:  subjects[len(assignments)],
					Room:     room.Name,
				})
			}
		}
	}

	return assignments, nil
}

// IntervalCount returns the number of intervals needed to seat 'subjects' in the rooms, i.e.
// ceil(subjects/capacity). Returns 0 for no subjects or a room list with no capacity.
func IntervalCount(subjects int, rooms []Room) int {
	capacity := capacity(rooms)
	if subjects <= 0 || capacity <= 0 {
		return 0
	}

	return (subjects + capacity - 1) / capacity
}

// Intervals splits an allocation into one slice of assignments per interval, preserving order.
func Intervals[T any](assignments []Assignment[T]) [][]Assignment[T] {
	return lo.PartitionBy(assignments, func(a Assignment[T]) int {
		return a.Interval
	})
}

func validate(subjects int, rooms []Room) error {
	if len(rooms) == 0 {
		return configurationError("no rooms")
	}

	for _, room := range rooms {
		if room.Capacity < 0 {
			return configurationError("invalid capacity %v for room '%v'", room.Capacity, room.Name)
		}
	}

	if subjects > 0 && capacity(rooms) == 0 {
		return configurationError("total room capacity is zero")
	}

	return nil
}

func capacity(rooms []Room) int {
	return lo.SumBy(rooms, func(r Room) int {
		return r.Capacity
	})
}
