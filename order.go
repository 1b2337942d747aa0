package boxstack

import (
	"slices"
	"strings"
)

// StackOrder decides which colour sits at which height. The first returned
// colour becomes the base plate. Implementations must return each grouped
// colour exactly once.
type StackOrder interface {
	Order(g *PixelGroups) []ColorKey
}

// DiscoveryOrder stacks colours in raster-scan discovery order.
type DiscoveryOrder struct{}

func (DiscoveryOrder) Order(g *PixelGroups) []ColorKey {
	return slices.Clone(g.Order)
}

// CoverageOrder puts the colour with the largest pixel count at the bottom.
// Equal counts keep discovery order.
type CoverageOrder struct{}

func (CoverageOrder) Order(g *PixelGroups) []ColorKey {
	out := slices.Clone(g.Order)
	slices.SortStableFunc(out, func(a, b ColorKey) int {
		return g.Count(b) - g.Count(a)
	})
	return out
}

// LuminanceOrder stacks from darkest to brightest, or the reverse when
// Descending is set. Luminance is Rec. 709 on linear RGB.
type LuminanceOrder struct {
	Descending bool
}

func (o LuminanceOrder) Order(g *PixelGroups) []ColorKey {
	out := slices.Clone(g.Order)
	slices.SortStableFunc(out, func(a, b ColorKey) int {
		ya, yb := luminance(a), luminance(b)
		if o.Descending {
			ya, yb = yb, ya
		}
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
	return out
}

func luminance(k ColorKey) float64 {
	r, g, b := k.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// PriorityOrder stacks the listed colours first, bottom to top. Listed colours
// that are absent from the image are dropped; unlisted ones follow in
// discovery order.
type PriorityOrder []ColorKey

func (o PriorityOrder) Order(g *PixelGroups) []ColorKey {
	out := make([]ColorKey, 0, len(g.Order))
	seen := map[ColorKey]bool{}
	for _, k := range o {
		if _, ok := g.Pixels[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for _, k := range g.Order {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

// ParseOrder maps a policy name to a StackOrder. Priority lists are given as
// comma-separated hex colours, e.g. "priority:#000000,#ffffff".
func ParseOrder(name string) (StackOrder, error) {
	switch {
	case name == "" || name == "discovery":
		return DiscoveryOrder{}, nil
	case name == "coverage":
		return CoverageOrder{}, nil
	case name == "luminance" || name == "dark-first":
		return LuminanceOrder{}, nil
	case name == "light-first":
		return LuminanceOrder{Descending: true}, nil
	case strings.HasPrefix(name, "priority:"):
		var p PriorityOrder
		for _, s := range strings.Split(strings.TrimPrefix(name, "priority:"), ",") {
			k, err := ParseKey(strings.TrimSpace(s))
			if err != nil {
				return nil, &ConfigError{Field: "Order", Value: name}
			}
			p = append(p, k)
		}
		return p, nil
	}
	return nil, &ConfigError{Field: "Order", Value: name}
}
