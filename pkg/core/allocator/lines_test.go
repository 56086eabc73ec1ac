package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

func ids(raw ...string) []model.EmployeeID {
	out := make([]model.EmployeeID, len(raw))
	for i, r := range raw {
		out[i] = model.EmployeeID(r)
	}
	return out
}

func TestCalculateLineCounts(t *testing.T) {
	assert.Equal(t, []int{4, 3, 3}, CalculateLineCounts(10, 3))
	assert.Equal(t, []int{4, 3}, CalculateLineCounts(7, 2))
	assert.Equal(t, []int{2, 2, 2}, CalculateLineCounts(6, 3))
	assert.Equal(t, []int{1, 0, 0}, CalculateLineCounts(1, 3))
	assert.Equal(t, []int{0, 0}, CalculateLineCounts(0, 2))
	assert.Nil(t, CalculateLineCounts(5, 0))
}

func TestCalculateLineCounts_SumsToTotal(t *testing.T) {
	for total := 0; total <= 12; total++ {
		for lines := 1; lines <= 4; lines++ {
			counts := CalculateLineCounts(total, lines)
			sum := 0
			for _, c := range counts {
				sum += c
			}
			assert.Equal(t, total, sum, "total=%d lines=%d", total, lines)
		}
	}
}

func TestLineOf(t *testing.T) {
	assigned := ids("a", "b", "c", "d", "e")
	counts := []int{2, 3}

	assert.Equal(t, 1, LineOf(assigned, counts, "a"))
	assert.Equal(t, 1, LineOf(assigned, counts, "b"))
	assert.Equal(t, 2, LineOf(assigned, counts, "c"))
	assert.Equal(t, 2, LineOf(assigned, counts, "e"))

	// Missing employees and uncovered indices default to line 1
	assert.Equal(t, 1, LineOf(assigned, counts, "zz"))
	assert.Equal(t, 1, LineOf(assigned, []int{2, 2}, "e"))
}

func TestMembersOfLine(t *testing.T) {
	assigned := ids("a", "b", "c", "d", "e")
	counts := []int{2, 3}

	assert.Equal(t, ids("a", "b"), MembersOfLine(assigned, counts, 1))
	assert.Equal(t, ids("c", "d", "e"), MembersOfLine(assigned, counts, 2))
	assert.Nil(t, MembersOfLine(assigned, counts, 0))
	assert.Nil(t, MembersOfLine(assigned, counts, 3))
}

func TestMoveEmployee_LaterToEarlierLine(t *testing.T) {
	assigned := ids("a", "b", "c", "d", "e", "f")
	counts := []int{3, 3}

	outAssigned, outCounts, moved := MoveEmployee(assigned, counts, "d", 1)
	assert.True(t, moved)

	// d joins the tail of line 1; the boundary shift keeps list order intact
	assert.Equal(t, ids("a", "b", "c", "d", "e", "f"), outAssigned)
	assert.Equal(t, []int{4, 2}, outCounts)
	assert.Equal(t, 1, LineOf(outAssigned, outCounts, "d"))
}

func TestMoveEmployee_EarlierToLaterLine(t *testing.T) {
	assigned := ids("a", "b", "c", "d", "e", "f")
	counts := []int{3, 3}

	outAssigned, outCounts, moved := MoveEmployee(assigned, counts, "b", 2)
	assert.True(t, moved)

	assert.Equal(t, ids("a", "c", "d", "e", "f", "b"), outAssigned)
	assert.Equal(t, []int{2, 4}, outCounts)
	assert.Equal(t, 2, LineOf(outAssigned, outCounts, "b"))
}

func TestMoveEmployee_NoOps(t *testing.T) {
	assigned := ids("a", "b", "c", "d")
	counts := []int{2, 2}

	// Unknown employee
	outAssigned, outCounts, moved := MoveEmployee(assigned, counts, "zz", 2)
	assert.False(t, moved)
	assert.Equal(t, assigned, outAssigned)
	assert.Equal(t, counts, outCounts)

	// Target line out of range
	outAssigned, outCounts, moved = MoveEmployee(assigned, counts, "a", 3)
	assert.False(t, moved)
	assert.Equal(t, assigned, outAssigned)
	assert.Equal(t, counts, outCounts)

	// Already in the target line
	outAssigned, outCounts, moved = MoveEmployee(assigned, counts, "a", 1)
	assert.False(t, moved)
	assert.Equal(t, assigned, outAssigned)
	assert.Equal(t, counts, outCounts)
}

func TestMoveEmployee_PreservesMembership(t *testing.T) {
	assigned := ids("a", "b", "c", "d", "e")
	counts := []int{2, 2, 1}

	outAssigned, outCounts, moved := MoveEmployee(assigned, counts, "e", 1)
	assert.True(t, moved)

	assert.ElementsMatch(t, assigned, outAssigned)
	sum := 0
	for _, c := range outCounts {
		sum += c
	}
	assert.Equal(t, len(outAssigned), sum)
}

func TestAdjustLineCount(t *testing.T) {
	counts := []int{2, 2}

	// A decrement frees one slot for another line's increment
	next, ok := AdjustLineCount(counts, 2, -1, 4)
	assert.True(t, ok)
	assert.Equal(t, []int{2, 1}, next)

	next, ok = AdjustLineCount(next, 1, 1, 4)
	assert.True(t, ok)
	assert.Equal(t, []int{3, 1}, next)
}

func TestAdjustLineCount_Rejections(t *testing.T) {
	counts := []int{2, 0}

	// Below zero
	next, ok := AdjustLineCount(counts, 2, -1, 4)
	assert.False(t, ok)
	assert.Equal(t, counts, next)

	// Sum beyond assigned count
	next, ok = AdjustLineCount(counts, 1, 1, 2)
	assert.False(t, ok)
	assert.Equal(t, counts, next)

	// Line out of range
	_, ok = AdjustLineCount(counts, 3, 1, 4)
	assert.False(t, ok)
}

func TestLinePresets(t *testing.T) {
	assert.Equal(t, []int{5, 0, 0}, AllInFirstLine(5, 3))
	assert.Equal(t, []int{0, 0}, AllInFirstLine(0, 2))
	assert.Nil(t, AllInFirstLine(5, 0))

	assert.Equal(t, []int{3, 2, 0}, SplitFirstTwo(5, 3))
	assert.Equal(t, []int{2, 2}, SplitFirstTwo(4, 2))
	// Falls back to the even split when fewer than two lines exist
	assert.Equal(t, []int{5}, SplitFirstTwo(5, 1))
}
