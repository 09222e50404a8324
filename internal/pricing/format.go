package pricing

import (
	"fmt"

	"capforge/internal/catalog"
)

// AIBreakdown is the machine-formatted projection of a Breakdown. Every
// money figure is pre-stringified so downstream message generation only
// arranges lines and never recomputes them.
type AIBreakdown struct {
	Quantity  int      `json:"quantity"`
	Lines     []AILine `json:"lines"`
	Molds     []AILine `json:"moldCharges"`
	Subtotals []AILine `json:"subtotals"`
	Total     string   `json:"total"`
	TotalLine string   `json:"totalLine"`
}

// AILine carries one display-ready breakdown line.
type AILine struct {
	Name          string `json:"name"`
	FormattedLine string `json:"formattedLine"`
}

// ForAI renders the breakdown into its AI-formatted projection.
func (b *Breakdown) ForAI() *AIBreakdown {
	out := &AIBreakdown{
		Quantity: b.Quantity,
		Lines:    make([]AILine, 0, len(b.LineItems)),
		Molds:    make([]AILine, 0, len(b.MoldCharges)),
		Total:    b.GrandTotal.StringFixed(2),
	}

	for _, item := range b.LineItems {
		line := fmt.Sprintf("%s: $%s/cap × %d = $%s",
			item.Name, item.UnitPrice.StringFixed(2), item.Quantity, item.TotalPrice.StringFixed(2))
		if item.IsFree {
			line = fmt.Sprintf("%s: Free", item.Name)
		}
		out.Lines = append(out.Lines, AILine{Name: item.Name, FormattedLine: line})
	}

	for _, mold := range b.MoldCharges {
		out.Molds = append(out.Molds, AILine{
			Name:          mold.Name,
			FormattedLine: fmt.Sprintf("%s Mold Charge: $%s (one-time)", mold.Name, mold.Amount.StringFixed(2)),
		})
	}

	out.Subtotals = []AILine{
		{Name: catalog.BlankCap.String(), FormattedLine: fmt.Sprintf("Blank Caps: $%s", b.Subtotals.BlankCaps.StringFixed(2))},
		{Name: catalog.Fabric.String(), FormattedLine: fmt.Sprintf("Premium Fabric: $%s", b.Subtotals.Fabric.StringFixed(2))},
		{Name: "customization", FormattedLine: fmt.Sprintf("Customization: $%s", b.Subtotals.Customization.StringFixed(2))},
		{Name: catalog.Delivery.String(), FormattedLine: fmt.Sprintf("Delivery: $%s", b.Subtotals.Delivery.StringFixed(2))},
	}
	out.TotalLine = fmt.Sprintf("Total Order: $%s", out.Total)
	return out
}
