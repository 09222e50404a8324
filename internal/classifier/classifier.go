// Package classifier infers which blank-cap price tier applies to a
// free-text product description by scoring it against the product catalog.
package classifier

import (
	"strings"

	"github.com/rs/zerolog"

	"capforge/internal/catalog"
)

// Empirically tuned scoring weights. These came from validating the
// matcher against real catalog data; treat them as configuration, not
// something to re-derive.
const (
	keywordScore     = 1
	duckCamoBonus    = 5
	truckerMeshBonus = 10
)

// Classifier scores descriptions against the product catalog.
type Classifier struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify resolves a product tier for the description. It always returns
// a tier: ambiguous or zero scores fall through to panel-count heuristics,
// and a missing catalog defaults to Tier 1 so pricing can still proceed.
func (c *Classifier) Classify(description string, products []catalog.Product) catalog.ProductTier {
	desc := strings.ToLower(description)

	// 7-panel caps are always Tier 3, no matter what else the
	// description resembles.
	if sevenPanel(desc) {
		return catalog.Tier3
	}

	if len(products) == 0 {
		c.log.Warn().Msg("no product catalog loaded, defaulting to Tier 1")
		return catalog.Tier1
	}

	best := -1
	bestScore := 0
	tied := false
	for i := range products {
		score := scoreProduct(desc, &products[i])
		if score > bestScore {
			best, bestScore, tied = i, score, false
		} else if score == bestScore && score > 0 {
			tied = true
		}
	}

	if best >= 0 && bestScore > 0 && !tied {
		c.log.Debug().
			Str("product", products[best].Name).
			Int("score", bestScore).
			Msg("description matched catalog product")
		return products[best].PriceTier
	}

	return heuristicTier(desc)
}

func sevenPanel(desc string) bool {
	return strings.Contains(desc, "7") &&
		(strings.Contains(desc, "panel") || strings.Contains(desc, "crown"))
}

// scoreProduct counts keyword overlaps between the description and the
// product's attributes, with bonus weights for domain co-occurrences.
func scoreProduct(desc string, p *catalog.Product) int {
	score := 0
	for _, kw := range productKeywords(p) {
		if kw != "" && strings.Contains(desc, kw) {
			score += keywordScore
		}
	}

	nameLower := strings.ToLower(p.Name)
	mesh := strings.Contains(nameLower, "trucker") || strings.Contains(nameLower, "mesh")
	if strings.Contains(desc, "duck camo") && mesh {
		score += duckCamoBonus
	}
	if strings.Contains(desc, "trucker mesh") && strings.Contains(nameLower, "trucker") {
		score += truckerMeshBonus
	}
	return score
}

func productKeywords(p *catalog.Product) []string {
	kws := make([]string, 0, 8+len(p.Nicknames))
	for _, w := range strings.Fields(strings.ToLower(p.Name)) {
		kws = append(kws, w)
	}
	for _, n := range p.Nicknames {
		kws = append(kws, strings.ToLower(n))
	}
	kws = append(kws,
		strings.ToLower(p.PanelCount),
		strings.ToLower(p.Profile),
		strings.ToLower(p.BillShape),
		strings.ToLower(p.StructureType),
	)
	return kws
}

// heuristicTier is the deterministic fallback when catalog scoring is
// ambiguous. 6- and 5-panel caps split on curved versus flat bills;
// everything else assumes the 6-Panel Heritage default of Tier 2.
func heuristicTier(desc string) catalog.ProductTier {
	curved := strings.Contains(desc, "curved") &&
		!strings.Contains(desc, "flat") &&
		!strings.Contains(desc, "slight")

	if strings.Contains(desc, "6") && strings.Contains(desc, "panel") {
		if curved {
			return catalog.Tier1
		}
		return catalog.Tier2
	}
	if strings.Contains(desc, "5") && strings.Contains(desc, "panel") {
		if curved {
			return catalog.Tier1
		}
		return catalog.Tier2
	}
	return catalog.Tier2
}
