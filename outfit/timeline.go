package outfit

import "math"

// Slot pairs a forecast point with the outfit derived for it
type Slot struct {
	Point  Point  `json:"point"`
	Outfit Outfit `json:"outfit"`
}

// Timeline is the ordered list of outfits across forecast points
type Timeline struct {
	Slots    []Slot `json:"slots"`
	Now      *Slot  `json:"now,omitempty"`
	Later    *Slot  `json:"later,omitempty"`
	Switches []int  `json:"switches"`
}

// BuildTimeline derives an outfit for every point. Later is the first
// point that needs a different outfit than now, falling back to the last.
func BuildTimeline(points []Point, prefs Preferences, table *RuleTable) Timeline {
	tl := Timeline{
		Slots:    make([]Slot, 0, len(points)),
		Switches: []int{},
	}
	for i, p := range points {
		slot := Slot{Point: p, Outfit: Derive(p, prefs, table)}
		if i > 0 && !slot.Outfit.Equal(tl.Slots[i-1].Outfit) {
			tl.Switches = append(tl.Switches, i)
		}
		tl.Slots = append(tl.Slots, slot)
	}
	if len(tl.Slots) == 0 {
		return tl
	}
	tl.Now = &tl.Slots[0]
	for i := 1; i < len(tl.Slots); i++ {
		if !tl.Slots[i].Outfit.Equal(tl.Now.Outfit) {
			tl.Later = &tl.Slots[i]
			return tl
		}
	}
	if len(tl.Slots) > 1 {
		tl.Later = &tl.Slots[len(tl.Slots)-1]
	}
	return tl
}

// DailyPoints picks one representative point per calendar day, the one
// closest to midday, carrying that day's high and low. At most days
// entries are returned; days <= 0 means no limit.
func DailyPoints(points []Point, days int) []Point {
	var (
		order []string
		best  = make(map[string]Point)
		highs = make(map[string]float64)
		lows  = make(map[string]float64)
	)
	for _, p := range points {
		key := p.Time.Format("2006-01-02")
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = p
			highs[key] = maxReported(p.TempF, p.HighF)
			lows[key] = minReported(p.TempF, p.LowF)
			continue
		}
		highs[key] = math.Max(highs[key], maxReported(p.TempF, p.HighF))
		lows[key] = math.Min(lows[key], minReported(p.TempF, p.LowF))
		if middayDistance(p) < middayDistance(cur) {
			best[key] = p
		}
	}
	if days > 0 && len(order) > days {
		order = order[:days]
	}
	out := make([]Point, 0, len(order))
	for _, key := range order {
		p := best[key]
		p.HighF = highs[key]
		p.LowF = lows[key]
		out = append(out, p)
	}
	return out
}

func middayDistance(p Point) float64 {
	h := float64(p.Time.Hour()) + float64(p.Time.Minute())/60
	return math.Abs(h - 12)
}

// minReported and maxReported treat a zero bound as "not reported"
func minReported(temp, low float64) float64 {
	if low == 0 {
		return temp
	}
	return math.Min(temp, low)
}

func maxReported(temp, high float64) float64 {
	if high == 0 {
		return temp
	}
	return math.Max(temp, high)
}
