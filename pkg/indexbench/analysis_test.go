package indexbench

import (
	"strings"
	"testing"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		distinct int64
		want     string
	}{
		{0, CategoryVeryLow},
		{9, CategoryVeryLow},
		{10, CategoryLow},
		{99, CategoryLow},
		{100, CategoryMedium},
		{999, CategoryMedium},
		{1000, CategoryHigh},
		{9999, CategoryHigh},
		{10000, CategoryVeryHigh},
		{1000000, CategoryVeryHigh},
	}
	for _, c := range cases {
		if got := Categorize(c.distinct); got != c.want {
			t.Errorf("Categorize(%d) = %s, want %s", c.distinct, got, c.want)
		}
	}
}

func TestTier(t *testing.T) {
	cases := []struct {
		factor float64
		want   string
	}{
		{0, TierNone},
		{0.8, TierNone},
		{1, TierNone},
		{1.5, TierMarginal},
		{2, TierMarginal},
		{3, TierModerate},
		{5, TierModerate},
		{8, TierSignificant},
	}
	for _, c := range cases {
		if got := Tier(c.factor); got != c.want {
			t.Errorf("Tier(%v) = %s, want %s", c.factor, got, c.want)
		}
	}
}

func TestImprovementFactor(t *testing.T) {
	if got := ImprovementFactor(1000, 100); got != 10 {
		t.Errorf("ImprovementFactor(1000, 100) = %v, want 10", got)
	}
	if got := ImprovementFactor(1000, 0); got != 0 {
		t.Errorf("zero filtered latency should yield 0, got %v", got)
	}
}

func TestBuildPlan(t *testing.T) {
	cardinalities := []TagCardinality{
		{Tag: "patient_id", Distinct: 50000, Category: CategoryVeryHigh},
		{Tag: "vital_type", Distinct: 7, Category: CategoryVeryLow},
	}
	pairs := []PairResult{
		{Tag: "patient_id", ImprovementFactor: 8, Tier: TierSignificant},
		{Tag: "vital_type", ImprovementFactor: 1.1, Tier: TierMarginal},
	}

	plan := BuildPlan(cardinalities, pairs)

	joined := strings.Join(plan, "\n")
	if !strings.Contains(joined, `"patient_id" has very high cardinality`) {
		t.Errorf("plan missing high-cardinality warning:\n%s", joined)
	}
	if !strings.Contains(joined, `filtering on "patient_id" is 8.0x faster`) {
		t.Errorf("plan missing selectivity recommendation:\n%s", joined)
	}
	if !strings.Contains(joined, `filtering on "vital_type" barely helps`) {
		t.Errorf("plan missing weak-filter note:\n%s", joined)
	}
}

func TestBuildPlanEmptyFallback(t *testing.T) {
	plan := BuildPlan(
		[]TagCardinality{{Tag: "vital_type", Distinct: 7, Category: CategoryVeryLow}},
		[]PairResult{{Tag: "vital_type", ImprovementFactor: 3, Tier: TierModerate}},
	)
	if len(plan) != 1 || !strings.Contains(plan[0], "no changes recommended") {
		t.Errorf("expected balanced fallback, got %v", plan)
	}
}
