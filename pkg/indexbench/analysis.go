// Package indexbench measures how much the tag index of the vitals bucket
// helps: it reports per-tag cardinality and times tag-filtered queries
// against their unfiltered counterparts.
package indexbench

import "fmt"

// Cardinality categories, by distinct value count.
const (
	CategoryVeryLow  = "very_low"
	CategoryLow      = "low"
	CategoryMedium   = "medium"
	CategoryHigh     = "high"
	CategoryVeryHigh = "very_high"
)

// Improvement tiers for filtered vs unfiltered query latency.
const (
	TierSignificant = "significant"
	TierModerate    = "moderate"
	TierMarginal    = "marginal"
	TierNone        = "none"
)

type TagCardinality struct {
	Tag      string `json:"tag"`
	Distinct int64  `json:"distinct_values"`
	Category string `json:"category"`
}

type PairResult struct {
	Name              string  `json:"name"`
	Tag               string  `json:"tag"`
	UnfilteredMeanMs  float64 `json:"unfiltered_mean_ms"`
	FilteredMeanMs    float64 `json:"filtered_mean_ms"`
	ImprovementFactor float64 `json:"improvement_factor"`
	Tier              string  `json:"tier"`
}

type Report struct {
	Bucket        string           `json:"bucket"`
	Measurement   string           `json:"measurement"`
	Cardinalities []TagCardinality `json:"cardinalities"`
	Pairs         []PairResult     `json:"pairs"`
	Plan          []string         `json:"optimization_plan"`
}

// Categorize maps a distinct value count onto a cardinality category.
func Categorize(distinct int64) string {
	switch {
	case distinct < 10:
		return CategoryVeryLow
	case distinct < 100:
		return CategoryLow
	case distinct < 1000:
		return CategoryMedium
	case distinct < 10000:
		return CategoryHigh
	default:
		return CategoryVeryHigh
	}
}

// Tier maps an improvement factor onto a tier.
func Tier(factor float64) string {
	switch {
	case factor > 5:
		return TierSignificant
	case factor > 2:
		return TierModerate
	case factor > 1:
		return TierMarginal
	default:
		return TierNone
	}
}

// ImprovementFactor is how many times faster the filtered query ran.
func ImprovementFactor(unfilteredMs, filteredMs float64) float64 {
	if filteredMs <= 0 {
		return 0
	}
	return unfilteredMs / filteredMs
}

// BuildPlan derives the optimization recommendations from the measured
// cardinalities and pair timings.
func BuildPlan(cardinalities []TagCardinality, pairs []PairResult) []string {
	var plan []string
	for _, c := range cardinalities {
		switch c.Category {
		case CategoryVeryHigh:
			plan = append(plan, fmt.Sprintf("tag %q has very high cardinality (%d values), consider moving it to a field to protect the series index", c.Tag, c.Distinct))
		case CategoryHigh:
			plan = append(plan, fmt.Sprintf("tag %q has high cardinality (%d values), monitor series growth before widening the deployment", c.Tag, c.Distinct))
		}
	}
	for _, p := range pairs {
		switch p.Tier {
		case TierNone, TierMarginal:
			plan = append(plan, fmt.Sprintf("filtering on %q barely helps (%.1fx), the tag index is not selective enough for this workload", p.Tag, p.ImprovementFactor))
		case TierSignificant:
			plan = append(plan, fmt.Sprintf("filtering on %q is %.1fx faster, keep it as a tag and push it into query predicates", p.Tag, p.ImprovementFactor))
		}
	}
	if len(plan) == 0 {
		plan = append(plan, "tag layout is balanced, no changes recommended")
	}
	return plan
}
