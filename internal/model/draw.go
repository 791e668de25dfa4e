package model

import "time"

// Number range of a 6/49 game.
const (
	MinNumber = 1
	MaxNumber = 49
)

// Draw is one historical result: up to six winning numbers plus the additional number.
type Draw struct {
	ID         int
	Date       time.Time
	Winning    []int
	Additional int // 0 when the source row had no additional number
}

// Numbers returns the winning numbers followed by the additional number, if any.
func (d Draw) Numbers() []int {
	nums := make([]int, 0, len(d.Winning)+1)
	nums = append(nums, d.Winning...)
	if d.Additional != 0 {
		nums = append(nums, d.Additional)
	}
	return nums
}

// PickSet holds suggested numbers in ascending order.
type PickSet []int

// Contains reports whether n is one of the picks.
func (p PickSet) Contains(n int) bool {
	for _, v := range p {
		if v == n {
			return true
		}
	}
	return false
}
