package output

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/vsinha/qadash/pkg/application/dto"
)

// VendorChart renders a metric's vendor comparison as an SVG bar chart with
// the tolerance band drawn behind the bars
type VendorChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	BarGap       int
}

// NewVendorChart creates a chart with the report's default dimensions
func NewVendorChart() *VendorChart {
	return &VendorChart{
		Width:        420,
		Height:       220,
		MarginLeft:   50,
		MarginTop:    30,
		MarginRight:  20,
		MarginBottom: 40,
		BarGap:       12,
	}
}

// GenerateSVG creates the SVG for one metric summary
func (vc *VendorChart) GenerateSVG(m dto.MetricSummary) string {
	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, vc.Width, vc.Height))
	svg.WriteString(`<style>`)
	svg.WriteString(`.axis-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 12px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.band { fill: #DCFCE7; }`)
	svg.WriteString(`.bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, vc.Width, vc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="18" class="title">%s</text>`, vc.MarginLeft, html.EscapeString(m.Label)))

	maxValue := vc.scaleMax(m)
	if maxValue == 0 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label">No data</text>`, vc.Width/2-20, vc.Height/2))
		svg.WriteString(`</svg>`)
		return svg.String()
	}

	vc.drawBand(&svg, m, maxValue)
	vc.drawBars(&svg, m, maxValue)
	vc.drawAxis(&svg, maxValue)

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (vc *VendorChart) plotHeight() int {
	return vc.Height - vc.MarginTop - vc.MarginBottom
}

func (vc *VendorChart) plotWidth() int {
	return vc.Width - vc.MarginLeft - vc.MarginRight
}

func (vc *VendorChart) y(value, maxValue float64) float64 {
	return float64(vc.MarginTop) + float64(vc.plotHeight())*(1-value/maxValue)
}

// scaleMax is the top of the value axis: the larger of the band and the bars, padded 10%
func (vc *VendorChart) scaleMax(m dto.MetricSummary) float64 {
	maxValue := 0.0
	hasData := false
	for _, p := range m.ByVendor {
		if p.HasData {
			hasData = true
			maxValue = math.Max(maxValue, p.Value)
		}
	}
	if !hasData {
		return 0
	}
	maxValue = math.Max(maxValue, m.Max)
	return maxValue * 1.1
}

func (vc *VendorChart) drawBand(svg *strings.Builder, m dto.MetricSummary, maxValue float64) {
	top := vc.y(m.Max, maxValue)
	bottom := vc.y(m.Min, maxValue)
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%d" height="%.1f" class="band"/>`,
		vc.MarginLeft, top, vc.plotWidth(), bottom-top))
}

func (vc *VendorChart) drawBars(svg *strings.Builder, m dto.MetricSummary, maxValue float64) {
	n := len(m.ByVendor)
	if n == 0 {
		return
	}
	barWidth := (vc.plotWidth() - vc.BarGap*(n+1)) / n
	baseline := vc.y(0, maxValue)

	for i, p := range m.ByVendor {
		x := vc.MarginLeft + vc.BarGap + i*(barWidth+vc.BarGap)
		label := html.EscapeString(strings.TrimPrefix(string(p.Vendor), "Vendor "))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label">%s</text>`,
			x+barWidth/2-3, vc.Height-vc.MarginBottom+14, label))
		if !p.HasData {
			continue
		}
		top := vc.y(p.Value, maxValue)
		color := "#3B82F6"
		if p.Value < m.Min || p.Value > m.Max {
			color = "#EF4444"
		}
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%d" height="%.1f" fill="%s" class="bar"><title>%s: %.2f</title></rect>`,
			x, top, barWidth, baseline-top, color, html.EscapeString(string(p.Vendor)), p.Value))
	}
}

func (vc *VendorChart) drawAxis(svg *strings.Builder, maxValue float64) {
	const ticks = 4
	for i := 0; i <= ticks; i++ {
		value := maxValue * float64(i) / ticks
		y := vc.y(value, maxValue)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#E0E0E0"/>`,
			vc.MarginLeft, y, vc.Width-vc.MarginRight, y))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" class="axis-label">%.1f</text>`,
			4, y+3, value))
	}
}
