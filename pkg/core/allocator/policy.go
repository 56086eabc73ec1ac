package allocator

import (
	"slices"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

// LineAssignmentPolicy maps assigned employees to 1-indexed line numbers.
// Two real policies exist: fixed two-line rotation for line-managed
// categories without an explicit configuration, and cumulative-sum
// bucketing when the operator has configured per-line counts.
type LineAssignmentPolicy interface {
	Name() string
	LineFor(assigned []model.EmployeeID, id model.EmployeeID) int
	Lines(assigned []model.EmployeeID) map[model.EmployeeID]int
}

// LineConfig is the operator-editable line layout for one request.
type LineConfig struct {
	LineCount  int
	LineCounts []int

	// ManualCounts is set once the operator overrides individual counts;
	// automatic recalculation then leaves LineCounts alone until an
	// explicit reset or distribute-evenly action.
	ManualCounts bool
}

// NewLineConfig creates an evenly split configuration.
func NewLineConfig(assignedCount, lineCount int) *LineConfig {
	if lineCount < 2 {
		lineCount = 2
	}
	return &LineConfig{
		LineCount:  lineCount,
		LineCounts: CalculateLineCounts(assignedCount, lineCount),
	}
}

// Recalculate re-derives an even split for a new assigned count, unless the
// operator's manual counts are in force.
func (c *LineConfig) Recalculate(assignedCount int) {
	if c.ManualCounts {
		return
	}
	c.LineCounts = CalculateLineCounts(assignedCount, c.LineCount)
}

// PolicyFor selects the line policy for a request: bucketing when a line
// configuration exists, mandatory rotation for line-managed requests
// without one, and single-line otherwise.
func PolicyFor(request model.Request, cfg *LineConfig) LineAssignmentPolicy {
	if cfg != nil {
		return ConfigurableBucketPolicy{Counts: slices.Clone(cfg.LineCounts)}
	}
	if request.LineManaged {
		return FixedRotationPolicy{}
	}
	return SingleLinePolicy{}
}

// FixedRotationPolicy alternates members across two lines by position
// parity: indices 0,2,4,... go to line 1 and 1,3,5,... to line 2. This is
// the default behavior for line-managed categories and is deliberately kept
// separate from the configurable bucketing rule.
type FixedRotationPolicy struct{}

func (FixedRotationPolicy) Name() string { return "rotation" }

func (FixedRotationPolicy) LineFor(assigned []model.EmployeeID, id model.EmployeeID) int {
	idx := slices.Index(assigned, id)
	if idx < 0 {
		return 1
	}
	return idx%2 + 1
}

func (p FixedRotationPolicy) Lines(assigned []model.EmployeeID) map[model.EmployeeID]int {
	lines := make(map[model.EmployeeID]int, len(assigned))
	for i, id := range assigned {
		lines[id] = i%2 + 1
	}
	return lines
}

// ConfigurableBucketPolicy derives line membership from explicit per-line
// counts using the cumulative-boundary rule.
type ConfigurableBucketPolicy struct {
	Counts []int
}

func (ConfigurableBucketPolicy) Name() string { return "buckets" }

func (p ConfigurableBucketPolicy) LineFor(assigned []model.EmployeeID, id model.EmployeeID) int {
	return LineOf(assigned, p.Counts, id)
}

func (p ConfigurableBucketPolicy) Lines(assigned []model.EmployeeID) map[model.EmployeeID]int {
	lines := make(map[model.EmployeeID]int, len(assigned))
	for _, id := range assigned {
		lines[id] = LineOf(assigned, p.Counts, id)
	}
	return lines
}

// SingleLinePolicy applies when line assignment is disabled: everyone is on
// line 1.
type SingleLinePolicy struct{}

func (SingleLinePolicy) Name() string { return "single" }

func (SingleLinePolicy) LineFor(assigned []model.EmployeeID, id model.EmployeeID) int {
	return 1
}

func (p SingleLinePolicy) Lines(assigned []model.EmployeeID) map[model.EmployeeID]int {
	lines := make(map[model.EmployeeID]int, len(assigned))
	for _, id := range assigned {
		lines[id] = 1
	}
	return lines
}
