package outfit

import (
	"regexp"
	"strings"
	"sync"
)

var (
	patternMu    sync.Mutex
	patternCache = make(map[string]*regexp.Regexp)
)

// wordPattern compiles a case-insensitive whole-word pattern for a
// vocabulary entry, tolerating a plural suffix
func wordPattern(word string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[word]; ok {
		return re
	}
	re := regexp.MustCompile(`(?i)(^|[^\w-])` + regexp.QuoteMeta(word) + `(s|es)?([^\w-]|$)`)
	patternCache[word] = re
	return re
}

// ParseLabel extracts the first matching vocabulary word per category
// from a free-text label. Vocabulary order decides between candidates.
// Words match as case-insensitive substrings, so "sweatpants" yields
// "pants"; vocab.WholeWords restricts matches to whole words.
func ParseLabel(label string, vocab Vocabulary) Slots {
	text := strings.TrimSpace(label)
	if text == "" {
		return Slots{}
	}
	match := containsWord
	if vocab.WholeWords {
		match = func(text, word string) bool { return wordPattern(word).MatchString(text) }
	}
	lower := strings.ToLower(text)
	return Slots{
		Top:       firstMatch(lower, vocab.Tops, match),
		Bottom:    firstMatch(lower, vocab.Bottoms, match),
		Accessory: firstMatch(lower, vocab.Accessories, match),
	}
}

func containsWord(text, word string) bool {
	return strings.Contains(text, strings.ToLower(word))
}

func firstMatch(text string, words []string, match func(text, word string) bool) *string {
	for _, word := range words {
		if word == "" {
			continue
		}
		if match(text, word) {
			w := word
			return &w
		}
	}
	return nil
}

// Accepts reports whether slots parsed from a model label agree with the
// rule table for the band the derived outfit landed in. Tops and bottoms
// must come from that band or an adjacent one, accessories from those bands
// or the derived outfit itself; nothing may be excluded.
func Accepts(derived Outfit, slots Slots, prefs Preferences, table *RuleTable) bool {
	if slots.Empty() {
		return false
	}
	for _, s := range []*string{slots.Top, slots.Bottom, slots.Accessory} {
		if s != nil && prefs.excludes(*s) {
			return false
		}
	}
	idx, ok := table.bandByName(derived.Band)
	if !ok {
		return false
	}
	allowed := permitted(table, idx)
	for _, item := range derived.Accessories {
		allowed.accessories[canonical(item)] = true
	}
	if slots.Top != nil && !allowed.tops[canonical(*slots.Top)] {
		return false
	}
	if slots.Bottom != nil && !allowed.bottoms[canonical(*slots.Bottom)] {
		return false
	}
	if slots.Accessory != nil && !allowed.accessories[canonical(*slots.Accessory)] {
		return false
	}
	return true
}

type itemSet struct {
	tops, bottoms, accessories map[string]bool
}

// permitted collects the items of a band and its neighbours. Condition
// accessories are not band items; callers add the ones the weather called for.
func permitted(table *RuleTable, idx int) itemSet {
	set := itemSet{
		tops:        make(map[string]bool),
		bottoms:     make(map[string]bool),
		accessories: make(map[string]bool),
	}
	for i := idx - 1; i <= idx+1; i++ {
		if i < 0 || i >= len(table.Bands) {
			continue
		}
		band := table.Bands[i]
		for _, item := range append(append([]string{band.Top}, band.Layers...), band.TopAlternates...) {
			set.tops[canonical(item)] = true
		}
		for _, item := range append([]string{band.Bottom}, band.BottomAlternates...) {
			set.bottoms[canonical(item)] = true
		}
		accessories := band.Accessories
		if contains(table.Sunny.Bands, band.Name) {
			accessories = append(append([]string{}, accessories...), table.Sunny.Accessories...)
		}
		for _, item := range accessories {
			set.accessories[canonical(item)] = true
		}
	}
	return set
}

// canonical folds synonyms the vocabulary carries but the bands do not
func canonical(item string) string {
	item = strings.ToLower(strings.TrimSpace(item))
	if item == "heavy jacket" {
		return "thick jacket"
	}
	return item
}
