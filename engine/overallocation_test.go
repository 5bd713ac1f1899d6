package engine_test

import (
	"testing"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// STATUS CLASSIFICATION
// =============================================================================

func TestClassifyUtilization_Bands(t *testing.T) {
	cases := []struct {
		utilization float64
		want        engine.UtilizationStatus
	}{
		{0.0, engine.StatusAvailable},
		{0.399, engine.StatusAvailable},
		{0.4, engine.StatusModerateUtilization},
		{0.79, engine.StatusModerateUtilization},
		{0.8, engine.StatusHighUtilization},
		{0.95, engine.StatusHighUtilization},
		{1.0, engine.StatusAtCapacity},
		{1.3, engine.StatusOverCapacity},
	}

	for _, c := range cases {
		if got := engine.ClassifyUtilization(c.utilization); got != c.want {
			t.Errorf("ClassifyUtilization(%v) = %q, want %q", c.utilization, got, c.want)
		}
	}
}

func TestClassifyUtilization_EpsilonBandAroundFull(t *testing.T) {
	// GIVEN: Values straddling 100% by less and by more than the tolerance
	// THEN: Within the band reads at-capacity, beyond it over-capacity

	if got := engine.ClassifyUtilization(1.0005); got != engine.StatusAtCapacity {
		t.Errorf("1.0005 should sit inside the tolerance band, got %q", got)
	}
	if got := engine.ClassifyUtilization(0.9995); got != engine.StatusAtCapacity {
		t.Errorf("0.9995 should sit inside the tolerance band, got %q", got)
	}
	if got := engine.ClassifyUtilization(1.002); got != engine.StatusOverCapacity {
		t.Errorf("1.002 is past the tolerance band, got %q", got)
	}
}

// =============================================================================
// OVER-ALLOCATION DETECTION
// =============================================================================

func TestDetect_ExactlyAtThresholdIsNotOverAllocated(t *testing.T) {
	// GIVEN: Alice committed exactly at her 120% threshold
	// WHEN: Detecting over-allocation
	// THEN: Not over-allocated - the boundary itself is allowed

	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{
			activeAlloc("a-1", "Alice", 0.7),
			activeAlloc("a-2", "Alice", 0.5),
		},
	)

	report, err := engine.NewOverAllocationDetector().Detect("Alice", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.IsOverAllocated {
		t.Errorf("exactly at threshold must not flag: utilization %v vs threshold %v",
			report.CurrentUtilization, report.OverAllocationThreshold)
	}
	if report.OverAllocationAmount > engine.Epsilon {
		t.Errorf("expected no meaningful excess, got %v", report.OverAllocationAmount)
	}
}

func TestDetect_WithinEpsilonAboveThresholdIsNotOverAllocated(t *testing.T) {
	// GIVEN: Alice a hair above threshold, inside the tolerance band
	// WHEN: Detecting
	// THEN: Still not over-allocated, but the raw excess is reported

	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{
			activeAlloc("a-1", "Alice", 0.7),
			activeAlloc("a-2", "Alice", 0.5005),
		},
	)

	report, err := engine.NewOverAllocationDetector().Detect("Alice", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.IsOverAllocated {
		t.Errorf("excess of 0.0005 sits inside the tolerance band and must not flag")
	}
	if report.OverAllocationAmount <= 0 {
		t.Errorf("raw excess should still be visible, got %v", report.OverAllocationAmount)
	}
}

func TestDetect_ClearlyPastThresholdFlags(t *testing.T) {
	// GIVEN: Alice at 122% against a 120% threshold
	// WHEN: Detecting
	// THEN: Over-allocated with the excess amount

	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{
			activeAlloc("a-1", "Alice", 0.7),
			activeAlloc("a-2", "Alice", 0.52),
		},
	)

	report, err := engine.NewOverAllocationDetector().Detect("Alice", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.IsOverAllocated {
		t.Fatalf("122%% against a 120%% threshold must flag")
	}
	if !approx(report.OverAllocationAmount, 0.02) {
		t.Errorf("expected excess near 0.02, got %v", report.OverAllocationAmount)
	}
	if len(report.Active) != 2 {
		t.Errorf("expected both allocations listed, got %d", len(report.Active))
	}
}

func TestDetect_UnrosteredResourceUsesDefaultThreshold(t *testing.T) {
	// GIVEN: Allocations for a name with no roster record
	// WHEN: Detecting
	// THEN: The default 120% threshold applies

	snap := snapOf(nil, []engine.Allocation{
		activeAlloc("g-1", "Ghost", 0.9),
		activeAlloc("g-2", "Ghost", 0.35),
	})

	report, err := engine.NewOverAllocationDetector().Detect("Ghost", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OverAllocationThreshold != engine.DefaultOverAllocationThreshold {
		t.Errorf("expected default threshold %v, got %v",
			engine.DefaultOverAllocationThreshold, report.OverAllocationThreshold)
	}
	if !report.IsOverAllocated {
		t.Errorf("125%% against the default 120%% threshold must flag")
	}
}

func TestDetect_ZeroConfiguredThresholdFallsBackToDefault(t *testing.T) {
	// GIVEN: A roster record with unset capacity and threshold
	// WHEN: Detecting at 110%
	// THEN: Defaults apply, so 110% is under the 120% threshold

	snap := snapOf(
		[]engine.Resource{res("Alice", 0, 0)},
		[]engine.Allocation{activeAlloc("a-1", "Alice", 1.1)},
	)

	report, err := engine.NewOverAllocationDetector().Detect("Alice", snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.IsOverAllocated {
		t.Errorf("110%% should pass under the default threshold, got excess %v",
			report.OverAllocationAmount)
	}
	if report.OverAllocationThreshold != engine.DefaultOverAllocationThreshold {
		t.Errorf("zero threshold must read as unset, got %v", report.OverAllocationThreshold)
	}
}
