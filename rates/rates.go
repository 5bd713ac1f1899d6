/*
Package rates provides the tier rate card used to price allocations.

PURPOSE:
  Allocation requests do not always arrive with explicit costs. When the
  caller knows only who is being staffed and for how long, the rate card
  turns a resource's tier level into a fully loaded monthly rate and
  derives the cost plan from it:

    monthly cost = tier rate x allocated fraction
    project cost = monthly cost x month span of the date range

RATE TABLE:
  A card is an ordered set of (tier, monthly rate) pairs. Rates are
  decimal money, never floats. The built-in card covers five tiers:

    1 Junior      7,500/month
    2 Mid-level  11,000/month
    3 Senior     15,000/month
    4 Staff      19,500/month
    5 Principal  24,000/month

CLAMPING:
  Tier levels outside the card clamp to the nearest edge: tier 0 prices
  as the lowest tier, tier 99 as the highest. A gap between defined tiers
  falls back to the nearest lower tier, so a card with tiers {1, 3} prices
  tier 2 at the tier-1 rate. Lookups never fail.

EXAMPLE:
  card := rates.Default()

  // Senior at 50% for Q3
  plan := card.EstimatePlan(3, 0.5, engine.DateRange{
      Start: july1, End: september30,
  })
  // plan.MonthlyCost = 7500.00
  // plan.ProjectCost = 7500 x ~3.02 months

SEE ALSO:
  - engine/costplan.go: Month-span derivation the estimate builds on
  - factory/config.go: Seeds that omit costs price through a card
  - api/handlers.go: Allocation create falls back to the card
*/
package rates

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// TIER RATES
// =============================================================================

// TierRate pairs a tier level with its fully loaded monthly rate.
type TierRate struct {
	Tier    int
	Label   string
	Monthly decimal.Decimal
}

// Built-in tier rates. These back Default and give scenario seeds stable,
// recognizable prices.
var (
	TierJunior    = TierRate{Tier: 1, Label: "Junior", Monthly: decimal.NewFromInt(7500)}
	TierMid       = TierRate{Tier: 2, Label: "Mid-level", Monthly: decimal.NewFromInt(11000)}
	TierSenior    = TierRate{Tier: 3, Label: "Senior", Monthly: decimal.NewFromInt(15000)}
	TierStaff     = TierRate{Tier: 4, Label: "Staff", Monthly: decimal.NewFromInt(19500)}
	TierPrincipal = TierRate{Tier: 5, Label: "Principal", Monthly: decimal.NewFromInt(24000)}
)

// =============================================================================
// RATE CARD
// =============================================================================

// RateCard maps tier levels to monthly rates. Immutable after construction;
// safe for concurrent lookups.
type RateCard struct {
	tiers []TierRate // ascending by Tier
}

// New builds a card from tier rates. At least one tier is required, tiers
// must be distinct, and rates must not be negative.
func New(tiers ...TierRate) (*RateCard, error) {
	if len(tiers) == 0 {
		return nil, &engine.InvalidInputError{Field: "tiers", Reason: "rate card needs at least one tier"}
	}

	out := make([]TierRate, len(tiers))
	copy(out, tiers)

	seen := make(map[int]bool, len(out))
	for _, tr := range out {
		if tr.Monthly.IsNegative() {
			return nil, &engine.InvalidInputError{
				Field:  "monthly",
				Reason: fmt.Sprintf("rate for tier %d is negative", tr.Tier),
			}
		}
		if seen[tr.Tier] {
			return nil, &engine.InvalidInputError{
				Field:  "tiers",
				Reason: fmt.Sprintf("tier %d defined twice", tr.Tier),
			}
		}
		seen[tr.Tier] = true
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return &RateCard{tiers: out}, nil
}

// Default returns the built-in five-tier card.
func Default() *RateCard {
	card, err := New(TierJunior, TierMid, TierSenior, TierStaff, TierPrincipal)
	if err != nil {
		// The built-in table is static and valid.
		panic(err)
	}
	return card
}

// Tiers returns the card's rates in ascending tier order.
func (c *RateCard) Tiers() []TierRate {
	out := make([]TierRate, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// MonthlyRate returns the monthly rate for a tier level. Levels outside the
// card clamp to the nearest edge; a gap falls back to the nearest lower tier.
func (c *RateCard) MonthlyRate(tier int) decimal.Decimal {
	if len(c.tiers) == 0 {
		return decimal.Zero
	}
	if tier <= c.tiers[0].Tier {
		return c.tiers[0].Monthly
	}
	rate := c.tiers[0].Monthly
	for _, tr := range c.tiers {
		if tr.Tier > tier {
			break
		}
		rate = tr.Monthly
	}
	return rate
}

// =============================================================================
// COST PLAN ESTIMATION
// =============================================================================

// EstimatePlan prices an allocation from the card: the monthly cost scales
// the tier rate by the allocated fraction, and the project cost follows from
// the range's month span. Without a usable range the plan carries only the
// monthly side. Negative fractions price as zero.
func (c *RateCard) EstimatePlan(tier int, percentage float64, r engine.DateRange) engine.CostPlan {
	if percentage < 0 {
		percentage = 0
	}

	monthly := c.MonthlyRate(tier).Mul(decimal.NewFromFloat(percentage)).Round(2)

	return engine.NormalizeCostPlan(engine.CostPlan{
		MonthlyCost: monthly,
		StartDate:   r.Start,
		EndDate:     r.End,
	})
}
