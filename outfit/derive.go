package outfit

import (
	"fmt"
	"strings"
)

// EffectiveTemp returns the temperature a user will perceive at a point.
// Feels-like wins over the air temperature when the provider reported one.
func EffectiveTemp(p Point, prefs Preferences, table *RuleTable) float64 {
	temp := p.FeelsLikeF
	if temp == 0 && p.TempF != 0 {
		temp = p.TempF
	}
	tolerance := prefs.ColdTolerance
	if !tolerance.Valid() {
		tolerance = ToleranceNeutral
	}
	temp += float64(tolerance) * table.ToleranceOffsetF
	if p.IsNight {
		temp -= table.NightOffsetF
	}
	return temp
}

// Derive maps a forecast point and user preferences to an outfit
func Derive(p Point, prefs Preferences, table *RuleTable) Outfit {
	band := table.BandFor(EffectiveTemp(p, prefs, table))
	o := Outfit{Band: band.Name}

	o.Top = pick(band.Top, band.TopAlternates, prefs)
	if prefs.PrefersLayers && len(band.Layers) > 0 {
		layers := layerStack(band, prefs)
		if len(layers) > 1 {
			o.Layers = layers
			o.Top = layers[len(layers)-1]
		} else if len(layers) == 1 {
			o.Top = layers[0]
		}
	}
	o.Bottom = pick(band.Bottom, band.BottomAlternates, prefs)

	accessories := append([]string{}, band.Accessories...)
	accessories = append(accessories, table.Conditions[p.Condition]...)
	if p.Condition == ConditionClear && !p.IsNight && contains(table.Sunny.Bands, band.Name) {
		accessories = append(accessories, table.Sunny.Accessories...)
	}
	o.Accessories = filterExcluded(dedupe(accessories), prefs)
	if len(o.Accessories) == 0 {
		o.Accessories = nil
	}
	return o
}

// pick chooses the primary item, a preferred alternate, or the first
// non-excluded alternate
func pick(primary string, alternates []string, prefs Preferences) string {
	for _, alt := range alternates {
		if prefs.prefers(alt) && !prefs.excludes(alt) && !prefs.prefers(primary) {
			return alt
		}
	}
	if primary != "" && !prefs.excludes(primary) {
		return primary
	}
	for _, alt := range alternates {
		if !prefs.excludes(alt) {
			return alt
		}
	}
	return ""
}

// layerStack returns the band layers with excluded inner layers dropped and
// an excluded outer layer swapped for the first allowed top alternate
func layerStack(band Band, prefs Preferences) []string {
	last := len(band.Layers) - 1
	layers := filterExcluded(band.Layers[:last], prefs)
	outer := band.Layers[last]
	if prefs.excludes(outer) {
		outer = pick("", band.TopAlternates, prefs)
	}
	if outer != "" && !contains(layers, outer) {
		layers = append(layers, outer)
	}
	return layers
}

func filterExcluded(items []string, prefs Preferences) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !prefs.excludes(item) {
			out = append(out, item)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

// Label renders a short recommendation for an outfit, used whenever the
// model label is missing or rejected
func Label(o Outfit) string {
	var b strings.Builder
	switch {
	case len(o.Layers) > 1:
		fmt.Fprintf(&b, "Layer up with %s", joinItems(withArticles(o.Layers)))
	case o.Top != "":
		fmt.Fprintf(&b, "Wear %s", withArticle(o.Top))
	}
	if o.Bottom != "" {
		if b.Len() == 0 {
			fmt.Fprintf(&b, "Wear %s", o.Bottom)
		} else {
			fmt.Fprintf(&b, " and %s", o.Bottom)
		}
	}
	if b.Len() > 0 {
		b.WriteString(".")
	}
	if len(o.Accessories) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Bring %s.", joinItems(withArticles(o.Accessories)))
	}
	return b.String()
}

func withArticles(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = withArticle(item)
	}
	return out
}

// withArticle prefixes countable singular items; plurals like "gloves"
// and "pants" read naturally without one
func withArticle(item string) string {
	if strings.HasSuffix(item, "s") {
		return item
	}
	switch item[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + item
	}
	return "a " + item
}

func joinItems(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
