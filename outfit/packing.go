package outfit

import (
	"sort"
	"strings"
)

// Packing categories
const (
	CategoryTop       = "top"
	CategoryOuterwear = "outerwear"
	CategoryBottom    = "bottom"
	CategoryAccessory = "accessory"
)

var categoryOrder = map[string]int{
	CategoryTop:       0,
	CategoryOuterwear: 1,
	CategoryBottom:    2,
	CategoryAccessory: 3,
}

// PackingItem is one line of a packing list
type PackingItem struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Count    int    `json:"count"`
}

// IsOuterwear reports whether a top is worn over another and can be
// re-worn across days
func IsOuterwear(item string) bool {
	item = strings.ToLower(item)
	return strings.Contains(item, "jacket") || item == "sweater" || item == "hoodie"
}

// PackingList aggregates daily outfits into item counts. Base tops are
// packed per day worn, outerwear and accessories once, bottoms once per
// two days worn.
func PackingList(days []Outfit) []PackingItem {
	type key struct{ category, item string }
	worn := make(map[key]int)
	add := func(category, item string) {
		if item != "" {
			worn[key{category, item}]++
		}
	}
	for _, o := range days {
		tops := o.Layers
		if len(tops) == 0 && o.Top != "" {
			tops = []string{o.Top}
		}
		for _, top := range tops {
			if IsOuterwear(top) {
				add(CategoryOuterwear, top)
			} else {
				add(CategoryTop, top)
			}
		}
		add(CategoryBottom, o.Bottom)
		for _, acc := range o.Accessories {
			add(CategoryAccessory, acc)
		}
	}

	items := make([]PackingItem, 0, len(worn))
	for k, n := range worn {
		count := n
		switch k.category {
		case CategoryOuterwear, CategoryAccessory:
			count = 1
		case CategoryBottom:
			count = (n + 1) / 2
		}
		items = append(items, PackingItem{Category: k.category, Item: k.item, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		ci, cj := categoryOrder[items[i].Category], categoryOrder[items[j].Category]
		if ci != cj {
			return ci < cj
		}
		return items[i].Item < items[j].Item
	})
	return items
}
