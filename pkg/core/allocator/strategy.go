package allocator

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

// Strategy names a pool-ordering rule for auto-fill.
type Strategy string

const (
	// StrategyOptimal prefers the highest composite scores.
	StrategyOptimal Strategy = "optimal"
	// StrategySameSection prefers employees from the reference request's
	// section, then composite score.
	StrategySameSection Strategy = "same_section"
	// StrategyBalanced prefers the least-loaded employees (ascending
	// workload points).
	StrategyBalanced Strategy = "balanced"
)

// ParseStrategy validates a strategy label from config or CLI flags.
func ParseStrategy(raw string) (Strategy, error) {
	s := Strategy(raw)
	if _, ok := strategyComparators[s]; !ok {
		return "", fmt.Errorf("unknown strategy %q (want %s)", raw, strategyNames())
	}
	return s, nil
}

// SectionResolver maps a subsection id to its parent section id. A nil
// resolver degrades same-section matching to direct subsection equality.
type SectionResolver func(subsectionID string) string

// strategyComparators is the registry of named pool comparators. Each entry
// builds a comparator bound to the reference request.
var strategyComparators = map[Strategy]func(ref model.Request, sectionOf SectionResolver) func(a, b model.Employee) int{
	StrategyOptimal: func(ref model.Request, sectionOf SectionResolver) func(a, b model.Employee) int {
		return func(a, b model.Employee) int {
			if c := cmp.Compare(b.CompositeScore(), a.CompositeScore()); c != 0 {
				return c
			}
			return CompareEmployeeIDs(a.ID, b.ID)
		}
	},
	StrategySameSection: func(ref model.Request, sectionOf SectionResolver) func(a, b model.Employee) int {
		return func(a, b model.Employee) int {
			if c := compareBool(inSection(a, ref, sectionOf), inSection(b, ref, sectionOf)); c != 0 {
				return c
			}
			if c := cmp.Compare(b.CompositeScore(), a.CompositeScore()); c != 0 {
				return c
			}
			return CompareEmployeeIDs(a.ID, b.ID)
		}
	},
	StrategyBalanced: func(ref model.Request, sectionOf SectionResolver) func(a, b model.Employee) int {
		return func(a, b model.Employee) int {
			if c := cmp.Compare(a.WorkloadPoints, b.WorkloadPoints); c != 0 {
				return c
			}
			return CompareEmployeeIDs(a.ID, b.ID)
		}
	},
}

// SortPool returns a new pool ordered by the named strategy. Unknown
// strategies fall back to optimal ordering.
func SortPool(pool []model.Employee, strategy Strategy, ref model.Request, sectionOf SectionResolver) []model.Employee {
	build, ok := strategyComparators[strategy]
	if !ok {
		build = strategyComparators[StrategyOptimal]
	}
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, build(ref, sectionOf))
	return sorted
}

// inSection reports whether the employee belongs to the reference request's
// section: any of the employee's subsections resolving to the same parent
// section counts as a match.
func inSection(e model.Employee, ref model.Request, sectionOf SectionResolver) bool {
	if sectionOf == nil {
		return e.InSubsection(ref.SubsectionID)
	}
	for _, sub := range e.SubsectionIDs {
		if sectionOf(sub) == ref.SectionID {
			return true
		}
	}
	return false
}

func strategyNames() []string {
	names := make([]string, 0, len(strategyComparators))
	for s := range strategyComparators {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}
