package allocator

import (
	"slices"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

// Line membership is purely positional: an employee's line is derived from
// its index in the assigned list plus the per-line counts, never stored on
// the employee. All functions here are pure and keep the invariant
// sum(lineCounts) <= len(assigned).

// CalculateLineCounts splits total across lineCount lines as evenly as
// possible: the first total%lineCount lines get one extra member.
// The returned counts always sum to total.
func CalculateLineCounts(total, lineCount int) []int {
	if lineCount <= 0 {
		return nil
	}
	if total < 0 {
		total = 0
	}
	base := total / lineCount
	remainder := total % lineCount
	counts := make([]int, lineCount)
	for i := range counts {
		counts[i] = base
		if i < remainder {
			counts[i]++
		}
	}
	return counts
}

// LineOf returns the 1-indexed line of the given employee: walking
// lineCounts, the first line whose cumulative boundary exceeds the
// employee's index is the answer. Employees not present in the list, and
// indices not covered by any boundary, default to line 1.
func LineOf(assigned []model.EmployeeID, lineCounts []int, id model.EmployeeID) int {
	idx := slices.Index(assigned, id)
	if idx < 0 {
		return 1
	}
	boundary := 0
	for line, count := range lineCounts {
		boundary += count
		if idx < boundary {
			return line + 1
		}
	}
	return 1
}

// MembersOfLine returns the employees bucketed into the given 1-indexed
// line, using the same cumulative-boundary rule as LineOf.
func MembersOfLine(assigned []model.EmployeeID, lineCounts []int, line int) []model.EmployeeID {
	if line < 1 || line > len(lineCounts) {
		return nil
	}
	start := 0
	for i := 0; i < line-1; i++ {
		start += lineCounts[i]
	}
	end := start + lineCounts[line-1]
	if start > len(assigned) {
		start = len(assigned)
	}
	if end > len(assigned) {
		end = len(assigned)
	}
	return slices.Clone(assigned[start:end])
}

// MoveEmployee relocates one employee to targetLine, reordering the
// assigned list so positional membership stays consistent: the employee is
// removed, reinserted at the target line's boundary, and the counts are
// rebalanced (source decremented with a floor of 0, target incremented).
//
// The third result reports whether anything moved. No-op cases return the
// inputs unchanged with moved=false: employee not found, target out of
// range, employee already in the target line, or a rebalance that would
// break the count invariant.
func MoveEmployee(assigned []model.EmployeeID, lineCounts []int, id model.EmployeeID, targetLine int) ([]model.EmployeeID, []int, bool) {
	idx := slices.Index(assigned, id)
	if idx < 0 || targetLine < 1 || targetLine > len(lineCounts) {
		return assigned, lineCounts, false
	}
	current := LineOf(assigned, lineCounts, id)
	if current == targetLine {
		return assigned, lineCounts, false
	}

	out := slices.Clone(assigned)
	out = slices.Delete(out, idx, idx+1)

	// Insert at the target line's trailing boundary, computed on the
	// pre-move counts. Removing an element that sat before that boundary
	// shifts the boundary left by one.
	pos := 0
	for i := 0; i < targetLine; i++ {
		pos += lineCounts[i]
	}
	if current < targetLine {
		pos--
	}
	if pos > len(out) {
		pos = len(out)
	}
	if pos < 0 {
		pos = 0
	}
	out = slices.Insert(out, pos, id)

	counts := slices.Clone(lineCounts)
	if counts[current-1] > 0 {
		counts[current-1]--
	}
	counts[targetLine-1]++

	if sumCounts(counts) > len(out) {
		return assigned, lineCounts, false
	}
	return out, counts, true
}

// AdjustLineCount applies a +1/-1 style delta to one line's count. The
// adjustment is rejected (ok=false, counts unchanged) when it would push the
// count below zero or the sum beyond the assigned-list length.
func AdjustLineCount(lineCounts []int, line, delta, assignedLen int) ([]int, bool) {
	if line < 1 || line > len(lineCounts) {
		return lineCounts, false
	}
	next := lineCounts[line-1] + delta
	if next < 0 {
		return lineCounts, false
	}
	if sumCounts(lineCounts)+delta > assignedLen {
		return lineCounts, false
	}
	counts := slices.Clone(lineCounts)
	counts[line-1] = next
	return counts, true
}

// AllInFirstLine is the quick preset putting every member in line 1.
func AllInFirstLine(total, lineCount int) []int {
	if lineCount <= 0 {
		return nil
	}
	counts := make([]int, lineCount)
	if total > 0 {
		counts[0] = total
	}
	return counts
}

// SplitFirstTwo is the quick preset splitting members across the first two
// lines, the first line taking the larger half.
func SplitFirstTwo(total, lineCount int) []int {
	if lineCount < 2 {
		return CalculateLineCounts(total, lineCount)
	}
	counts := make([]int, lineCount)
	counts[0] = (total + 1) / 2
	counts[1] = total - counts[0]
	return counts
}

func sumCounts(counts []int) int {
	sum := 0
	for _, c := range counts {
		sum += c
	}
	return sum
}
