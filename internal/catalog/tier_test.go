package catalog

import "testing"

func TestResolveTier(t *testing.T) {
	cases := []struct {
		quantity int
		want     Tier
	}{
		{0, Tier48},
		{1, Tier48},
		{47, Tier48},
		{48, Tier48},
		{143, Tier48},
		{144, Tier144},
		{288, Tier144},
		{575, Tier144},
		{576, Tier576},
		{1151, Tier576},
		{1152, Tier1152},
		{2879, Tier1152},
		{2880, Tier2880},
		{9999, Tier2880},
		{10000, Tier10000},
		{19999, Tier10000},
		{20000, Tier20000},
		{50000, Tier20000},
	}
	for _, tc := range cases {
		if got := ResolveTier(tc.quantity); got != tc.want {
			t.Errorf("ResolveTier(%d) = %s, want %s", tc.quantity, got.Column(), tc.want.Column())
		}
	}
}

func TestTierBreakpointMatchesColumn(t *testing.T) {
	for tier := Tier48; tier < numTiers; tier++ {
		if got := ResolveTier(tier.Breakpoint()); got != tier {
			t.Errorf("ResolveTier(%d) = %s, want %s", tier.Breakpoint(), got.Column(), tier.Column())
		}
		if tier.Column() == "unknown" {
			t.Errorf("tier %d has no column name", tier)
		}
	}
}
