package valueobject

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func allocTotal(allocations []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}

func allocByFund(allocations []Allocation) map[entity.FundType]decimal.Decimal {
	byFund := make(map[entity.FundType]decimal.Decimal)
	for _, a := range allocations {
		byFund[a.Fund] = byFund[a.Fund].Add(a.Amount)
	}
	return byFund
}

func TestWaterfall_Priority(t *testing.T) {
	debts := FundDebts{
		entity.FundTypeRepair:      dec("100"),
		entity.FundTypeMaintenance: dec("50"),
	}

	t.Run("partial payment fills repair first", func(t *testing.T) {
		got := allocByFund(Waterfall(dec("120"), debts))

		if !got[entity.FundTypeRepair].Equal(dec("100")) {
			t.Errorf("repair: got %s, want 100", got[entity.FundTypeRepair])
		}
		if !got[entity.FundTypeMaintenance].Equal(dec("20")) {
			t.Errorf("maintenance: got %s, want 20", got[entity.FundTypeMaintenance])
		}
		if _, ok := got[entity.FundTypeGeneral]; ok {
			t.Errorf("unexpected general split: %s", got[entity.FundTypeGeneral])
		}
	})

	t.Run("overpayment spills into general", func(t *testing.T) {
		got := allocByFund(Waterfall(dec("200"), debts))

		if !got[entity.FundTypeRepair].Equal(dec("100")) {
			t.Errorf("repair: got %s, want 100", got[entity.FundTypeRepair])
		}
		if !got[entity.FundTypeMaintenance].Equal(dec("50")) {
			t.Errorf("maintenance: got %s, want 50", got[entity.FundTypeMaintenance])
		}
		if !got[entity.FundTypeGeneral].Equal(dec("50")) {
			t.Errorf("general: got %s, want 50", got[entity.FundTypeGeneral])
		}
	})

	t.Run("exact repair match emits a single split", func(t *testing.T) {
		allocations := Waterfall(dec("100"), debts)

		if len(allocations) != 1 {
			t.Fatalf("got %d allocations, want 1", len(allocations))
		}
		if allocations[0].Fund != entity.FundTypeRepair {
			t.Errorf("fund: got %s, want REPAIR", allocations[0].Fund)
		}
	})

	t.Run("no debt credits everything to general", func(t *testing.T) {
		allocations := Waterfall(dec("75.50"), FundDebts{})

		if len(allocations) != 1 {
			t.Fatalf("got %d allocations, want 1", len(allocations))
		}
		if allocations[0].Fund != entity.FundTypeGeneral {
			t.Errorf("fund: got %s, want GENERAL", allocations[0].Fund)
		}
		if !allocations[0].Amount.Equal(dec("75.50")) {
			t.Errorf("amount: got %s, want 75.50", allocations[0].Amount)
		}
	})

	t.Run("zero amount allocates nothing", func(t *testing.T) {
		if allocations := Waterfall(decimal.Zero, debts); len(allocations) != 0 {
			t.Errorf("got %d allocations, want 0", len(allocations))
		}
	})
}

// Two payments of 80 and 100 against a 100+50 debt must distribute
// differently than one payment of 180, while conserving the totals.
func TestWaterfall_OrderSensitivity(t *testing.T) {
	debts := FundDebts{
		entity.FundTypeRepair:      dec("100"),
		entity.FundTypeMaintenance: dec("50"),
	}

	first := allocByFund(Waterfall(dec("80"), debts))
	if len(first) != 1 || !first[entity.FundTypeRepair].Equal(dec("80")) {
		t.Fatalf("first payment: got %v, want {REPAIR:80}", first)
	}

	// Debts after the first payment landed.
	remaining := FundDebts{
		entity.FundTypeRepair:      dec("20"),
		entity.FundTypeMaintenance: dec("50"),
	}

	second := allocByFund(Waterfall(dec("100"), remaining))
	if !second[entity.FundTypeRepair].Equal(dec("20")) {
		t.Errorf("second payment repair: got %s, want 20", second[entity.FundTypeRepair])
	}
	if !second[entity.FundTypeMaintenance].Equal(dec("50")) {
		t.Errorf("second payment maintenance: got %s, want 50", second[entity.FundTypeMaintenance])
	}
	if !second[entity.FundTypeGeneral].Equal(dec("30")) {
		t.Errorf("second payment general: got %s, want 30", second[entity.FundTypeGeneral])
	}

	// The combined payment lands differently: no general overflow until
	// both debts are cleared.
	combined := allocByFund(Waterfall(dec("180"), debts))
	if !combined[entity.FundTypeGeneral].Equal(dec("30")) {
		t.Errorf("combined general: got %s, want 30", combined[entity.FundTypeGeneral])
	}
	if !combined[entity.FundTypeRepair].Equal(dec("100")) {
		t.Errorf("combined repair: got %s, want 100", combined[entity.FundTypeRepair])
	}
}

// Conservation: every allocation set must sum exactly to the payment
// amount, whatever the debts look like.
func TestWaterfall_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		amount := decimal.NewFromInt(rng.Int63n(100000)).Div(dec("100"))
		debts := FundDebts{
			entity.FundTypeRepair:      decimal.NewFromInt(rng.Int63n(50000)).Div(dec("100")),
			entity.FundTypeMaintenance: decimal.NewFromInt(rng.Int63n(50000)).Div(dec("100")),
		}

		allocations := Waterfall(amount, debts)

		if amount.IsZero() {
			if len(allocations) != 0 {
				t.Fatalf("zero amount produced %d allocations", len(allocations))
			}
			continue
		}

		if total := allocTotal(allocations); !total.Equal(amount) {
			t.Fatalf("allocations sum %s != amount %s (debts %v)", total, amount, debts)
		}
		for _, a := range allocations {
			if !a.Amount.IsPositive() {
				t.Fatalf("non-positive allocation %s to %s", a.Amount, a.Fund)
			}
		}
	}
}

func TestDirectAllocation(t *testing.T) {
	allocations := DirectAllocation(dec("40"), entity.FundTypeMaintenance)
	if len(allocations) != 1 {
		t.Fatalf("got %d allocations, want 1", len(allocations))
	}
	if allocations[0].Fund != entity.FundTypeMaintenance || !allocations[0].Amount.Equal(dec("40")) {
		t.Errorf("got %s %s, want MAINTENANCE 40", allocations[0].Fund, allocations[0].Amount)
	}

	if got := DirectAllocation(decimal.Zero, entity.FundTypeRepair); len(got) != 0 {
		t.Errorf("zero amount: got %d allocations, want 0", len(got))
	}
}

func TestOutstandingDebt_NeverNegative(t *testing.T) {
	cases := []struct {
		name    string
		charged string
		paid    string
		want    string
	}{
		{"unpaid charges", "150", "0", "150"},
		{"partially paid", "150", "80", "70"},
		{"fully paid", "150", "150", "0"},
		{"overpaid clamps to zero", "150", "200", "0"},
		{"nothing charged", "0", "50", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := OutstandingDebt(dec(tc.charged), dec(tc.paid))
			if !got.Equal(dec(tc.want)) {
				t.Errorf("got %s, want %s", got, tc.want)
			}
			if got.IsNegative() {
				t.Errorf("debt must never be negative, got %s", got)
			}
		})
	}
}
