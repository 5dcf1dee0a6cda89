package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWeekly(t *testing.T) {
	seedStart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(30 * time.Minute)

	occurrences := Expand(seedStart, seedEnd, RuleWeekly)
	require.Len(t, occurrences, MaxOccurrences)

	assert.Equal(t, seedStart, occurrences[0].Start)
	assert.Equal(t, seedEnd, occurrences[0].End)

	for i, occ := range occurrences {
		assert.Equal(t, seedStart.AddDate(0, 0, 7*i), occ.Start, "occurrence %d start", i)
		assert.Equal(t, 30*time.Minute, occ.End.Sub(occ.Start), "occurrence %d duration", i)
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, occ.Start.Sub(occurrences[i-1].Start))
		}
	}
}

func TestExpandBiWeekly(t *testing.T) {
	seedStart := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(time.Hour)

	occurrences := Expand(seedStart, seedEnd, RuleBiWeekly)
	require.Len(t, occurrences, MaxOccurrences)

	for i := 1; i < len(occurrences); i++ {
		assert.Equal(t, 14*24*time.Hour, occurrences[i].Start.Sub(occurrences[i-1].Start))
		assert.Equal(t, time.Hour, occurrences[i].End.Sub(occurrences[i].Start))
	}
}

func TestExpandMonthly(t *testing.T) {
	seedStart := time.Date(2024, 2, 15, 11, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(45 * time.Minute)

	occurrences := Expand(seedStart, seedEnd, RuleMonthly)
	require.Len(t, occurrences, MaxOccurrences)

	assert.Equal(t, time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC), occurrences[1].Start)
	assert.Equal(t, time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC), occurrences[11].Start)
}

func TestExpandMonthlyEndOfMonthNormalizes(t *testing.T) {
	// The pinned convention: AddDate rolls short months over instead of
	// clamping. Jan 31 + 1 month in a leap year lands on Mar 2.
	seedStart := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(30 * time.Minute)

	occurrences := Expand(seedStart, seedEnd, RuleMonthly)
	require.Len(t, occurrences, MaxOccurrences)

	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), occurrences[1].Start)
	assert.Equal(t, time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC), occurrences[2].Start)
}

func TestExpandNone(t *testing.T) {
	seedStart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(30 * time.Minute)

	occurrences := Expand(seedStart, seedEnd, RuleNone)
	require.Len(t, occurrences, 1)
	assert.Equal(t, seedStart, occurrences[0].Start)
	assert.Equal(t, seedEnd, occurrences[0].End)
}

func TestParseRuleUnknownDegradesToNone(t *testing.T) {
	assert.Equal(t, RuleNone, ParseRule("daily"))
	assert.Equal(t, RuleNone, ParseRule("every-other-tuesday"))
	assert.Equal(t, RuleNone, ParseRule(""))
	assert.Equal(t, RuleWeekly, ParseRule("weekly"))
	assert.Equal(t, RuleBiWeekly, ParseRule("bi-weekly"))
	assert.Equal(t, RuleMonthly, ParseRule("monthly"))
}

func TestExpandIsRestartable(t *testing.T) {
	seedStart := time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC)
	seedEnd := seedStart.Add(30 * time.Minute)

	first := Expand(seedStart, seedEnd, RuleWeekly)
	second := Expand(seedStart, seedEnd, RuleWeekly)
	assert.Equal(t, first, second)
}

func TestExpandStrictlyIncreasing(t *testing.T) {
	seedStart := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	seedEnd := seedStart.Add(time.Hour)

	for _, rule := range []Rule{RuleWeekly, RuleBiWeekly, RuleMonthly} {
		occurrences := Expand(seedStart, seedEnd, rule)
		for i := 1; i < len(occurrences); i++ {
			assert.True(t, occurrences[i].Start.After(occurrences[i-1].Start), "rule %s index %d", rule, i)
		}
	}
}
