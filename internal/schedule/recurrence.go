package schedule

import "time"

// Rule describes how a seed appointment repeats.
type Rule string

const (
	RuleNone     Rule = ""
	RuleWeekly   Rule = "weekly"
	RuleBiWeekly Rule = "bi-weekly"
	RuleMonthly  Rule = "monthly"
)

// MaxOccurrences caps recurring expansion at 12 occurrences, roughly
// three months of weekly cadence. Fixed design constant.
const MaxOccurrences = 12

// Occurrence is one concrete dated instance of a recurring seed.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ParseRule maps a stored rule tag to a Rule. Unrecognized tags map to
// RuleNone, which degrades expansion to the seed occurrence alone.
func ParseRule(tag string) Rule {
	switch Rule(tag) {
	case RuleWeekly, RuleBiWeekly, RuleMonthly:
		return Rule(tag)
	}
	return RuleNone
}

// Expand produces the ordered, finite occurrence list for a seed
// interval and rule. The first occurrence is always the seed itself and
// every occurrence preserves the seed's duration. Expansion is pure:
// the same seed and rule always yield the identical sequence.
//
// Monthly recurrence uses Go's normalizing calendar arithmetic
// (time.Time.AddDate): a Jan 31 seed rolls the short months over, e.g.
// Jan 31 + 1 month is Mar 2 or Mar 3 depending on leap year. This is
// the pinned month-overflow convention and it is covered by tests.
func Expand(seedStart, seedEnd time.Time, rule Rule) []Occurrence {
	duration := seedEnd.Sub(seedStart)

	if rule == RuleNone {
		return []Occurrence{{Start: seedStart, End: seedEnd}}
	}

	occurrences := make([]Occurrence, 0, MaxOccurrences)
	for i := 0; i < MaxOccurrences; i++ {
		var start time.Time
		switch rule {
		case RuleWeekly:
			start = seedStart.AddDate(0, 0, 7*i)
		case RuleBiWeekly:
			start = seedStart.AddDate(0, 0, 14*i)
		case RuleMonthly:
			start = seedStart.AddDate(0, i, 0)
		default:
			return []Occurrence{{Start: seedStart, End: seedEnd}}
		}
		occurrences = append(occurrences, Occurrence{
			Start: start,
			End:   start.Add(duration),
		})
	}
	return occurrences
}
