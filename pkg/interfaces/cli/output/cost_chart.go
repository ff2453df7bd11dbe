package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// CostChart renders a horizontal bar chart of extended cost per part
type CostChart struct {
	Width        int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
}

type costBar struct {
	PartNumber   entities.PartNumber
	ExtendedCost decimal.Decimal
	IsSubstitute bool
}

// NewCostChart creates a cost chart with default dimensions
func NewCostChart() *CostChart {
	return &CostChart{
		Width:        900,
		MarginLeft:   180,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 40,
		RowHeight:    28,
	}
}

// GenerateSVG creates an SVG cost breakdown for the BOM. Phantom items
// carry no cost and are skipped; items for the same part are merged.
func (cc *CostChart) GenerateSVG(bom *entities.Bom) string {
	bars := cc.buildBars(bom)
	if len(bars) == 0 {
		return cc.generateEmptyChart(bom)
	}

	height := cc.MarginTop + len(bars)*cc.RowHeight + cc.MarginBottom
	maxCost := bars[0].ExtendedCost
	plotWidth := cc.Width - cc.MarginLeft - cc.MarginRight

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, cc.Width, height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.part-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.cost-label { font-family: Arial, sans-serif; font-size: 11px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.cost-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style></defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, cc.Width, height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title">Cost Breakdown: %s v%d (total %s)</text>`,
		cc.MarginLeft, bom.OrderID, bom.Version, bom.TotalCost.StringFixed(2)))

	for i, bar := range bars {
		y := cc.MarginTop + i*cc.RowHeight
		barWidth := 0
		if maxCost.IsPositive() {
			ratio, _ := bar.ExtendedCost.Div(maxCost).Float64()
			barWidth = int(ratio * float64(plotWidth))
		}
		if barWidth < 2 {
			barWidth = 2
		}
		color := "#4CAF50"
		if bar.IsSubstitute {
			color = "#FF9800"
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="part-label" text-anchor="end">%s</text>`,
			cc.MarginLeft-10, y+cc.RowHeight/2+4, bar.PartNumber))
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="cost-bar"/>`,
			cc.MarginLeft, y+4, barWidth, cc.RowHeight-8, color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="cost-label">%s</text>`,
			cc.MarginLeft+barWidth+6, y+cc.RowHeight/2+4, bar.ExtendedCost.StringFixed(2)))
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (cc *CostChart) buildBars(bom *entities.Bom) []costBar {
	merged := make(map[entities.PartNumber]*costBar)
	var order []entities.PartNumber
	for _, item := range bom.Items {
		if item.IsPhantom {
			continue
		}
		bar, ok := merged[item.PartNumber]
		if !ok {
			bar = &costBar{PartNumber: item.PartNumber}
			merged[item.PartNumber] = bar
			order = append(order, item.PartNumber)
		}
		bar.ExtendedCost = bar.ExtendedCost.Add(item.ExtendedCost)
		bar.IsSubstitute = bar.IsSubstitute || item.IsSubstitute
	}

	bars := make([]costBar, 0, len(order))
	for _, pn := range order {
		bars = append(bars, *merged[pn])
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].ExtendedCost.GreaterThan(bars[j].ExtendedCost)
	})
	return bars
}

func (cc *CostChart) generateEmptyChart(bom *entities.Bom) string {
	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="120" xmlns="http://www.w3.org/2000/svg">`, cc.Width))
	svg.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	svg.WriteString(fmt.Sprintf(`<text x="20" y="60" font-family="Arial, sans-serif" font-size="14" fill="#666">No costed items in BOM %s v%d</text>`,
		bom.OrderID, bom.Version))
	svg.WriteString(`</svg>`)
	return svg.String()
}
