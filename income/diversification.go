/*
diversification.go - HHI-based diversification scoring

PURPOSE:
  Scores how spread out a user's income is across categories. The
  Herfindahl-Hirschman Index (sum of squared shares) measures
  concentration; it is normalized against the minimum achievable HHI for
  the category count and inverted so that 100 = perfectly diversified.

ALGORITHM (>= 2 incomes):
  1. Group monthly-equivalent net amounts by category; unclassified
     records bucket into "Other Income".
  2. If only one effective category remains, split it 80/20 into two
     virtual categories so the index stays well-defined.
  3. HHI = sum(share_i^2) over the category shares.
  4. min_HHI = 1 / max(category_count, 2)
     normalized = (HHI - min_HHI) / (1 - min_HHI)
     raw = round((1 - normalized) * 100)
  5. bonus = min(source_count * 5, 25)
     overall = min(round(raw * 0.75 + bonus), 100)

FIXED POINTS:
  0 incomes -> all-zero score
  1 income  -> baseline 25 (a diversification floor, no single-point HHI)

FAILURE SEMANTICS:
  Scoring is advisory, never critical-path. Any unexpected internal
  error degrades to a neutral score of 50 instead of propagating.
*/
package income

import (
	"math"
)

const (
	// OtherCategory buckets unclassified income records.
	OtherCategory = "Other Income"

	singleSourceBaseline = 25
	neutralScore         = 50
	sourceBonusPerStream = 5
	sourceBonusCap       = 25
)

// ScoreDiversification computes the diversification score for a set of
// income records. It never returns an error; see the failure semantics
// above.
func ScoreDiversification(records []Record) (score Score) {
	defer func() {
		if r := recover(); r != nil {
			score = Score{OverallScore: neutralScore, SourceCount: len(records)}
		}
	}()

	switch len(records) {
	case 0:
		return Score{}
	case 1:
		return Score{
			OverallScore:      singleSourceBaseline,
			SourceCount:       1,
			PrimaryDependency: 100,
			StabilityScore:    stabilityScore(records),
			GrowthPotential:   growthPotential(records, 1),
			Breakdown: []CategoryShare{{
				Category:     categoryOf(records[0]),
				Share:        100,
				Contribution: 0,
			}},
		}
	}

	totals, order := groupByCategory(records)
	total := 0.0
	for _, amount := range totals {
		total += amount
	}
	if total <= 0 {
		// Zero net income: nothing to concentrate. Degenerate, not an error.
		return Score{SourceCount: len(records)}
	}

	shares := make([]float64, 0, len(order))
	breakdown := make([]CategoryShare, 0, len(order))
	for _, cat := range order {
		share := totals[cat] / total
		shares = append(shares, share)
		breakdown = append(breakdown, CategoryShare{
			Category:     cat,
			Share:        share * 100,
			Contribution: share * (1 - share) * 100,
		})
	}

	// A single effective category would make the normalized index
	// degenerate; split it into two virtual categories.
	if len(shares) == 1 {
		only := breakdown[0].Category
		shares = []float64{0.8, 0.2}
		breakdown = []CategoryShare{
			{Category: only, Share: 80, Contribution: 0.8 * 0.2 * 100},
			{Category: only + " (secondary)", Share: 20, Contribution: 0.2 * 0.8 * 100},
		}
	}

	hhi := 0.0
	primary := 0.0
	for _, s := range shares {
		hhi += s * s
		if s > primary {
			primary = s
		}
	}

	minHHI := 1 / math.Max(float64(len(shares)), 2)
	normalized := (hhi - minHHI) / (1 - minHHI)
	raw := math.Round((1 - normalized) * 100)

	bonus := math.Min(float64(len(records)*sourceBonusPerStream), sourceBonusCap)
	overall := math.Min(math.Round(raw*0.75+bonus), 100)
	if overall < 0 {
		overall = 0
	}

	return Score{
		OverallScore:      int(overall),
		SourceCount:       len(records),
		PrimaryDependency: primary * 100,
		StabilityScore:    stabilityScore(records),
		GrowthPotential:   growthPotential(records, len(order)),
		Breakdown:         breakdown,
	}
}

// groupByCategory sums monthly-equivalent net amounts per category.
// Order is deterministic: first appearance in the input, which keeps the
// breakdown stable across calls.
func groupByCategory(records []Record) (map[string]float64, []string) {
	totals := make(map[string]float64)
	var order []string
	for _, r := range records {
		cat := categoryOf(r)
		if _, seen := totals[cat]; !seen {
			order = append(order, cat)
		}
		totals[cat] += r.MonthlyNet().InexactFloat64()
	}
	return totals, order
}

func categoryOf(r Record) string {
	if r.Category == "" {
		return OtherCategory
	}
	return r.Category
}

// stabilityScore is the percentage of monthly income that recurs.
// One-time income contributes to the denominator only.
func stabilityScore(records []Record) int {
	total, recurring := 0.0, 0.0
	for _, r := range records {
		m := r.MonthlyNet().InexactFloat64()
		total += m
		if r.Recurrence != RecurrenceNone {
			recurring += m
		}
	}
	if total <= 0 {
		return 0
	}
	s := math.Round(recurring / total * 100)
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return int(s)
}

// growthPotential is a rough upside heuristic: side hustles signal
// expandable income, breadth of categories signals optionality.
func growthPotential(records []Record, categoryCount int) int {
	hustles := 0
	for _, r := range records {
		hustles += len(r.SideHustles)
	}
	g := hustles*15 + categoryCount*10
	if g > 100 {
		g = 100
	}
	return g
}
