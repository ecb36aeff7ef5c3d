package outfit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPackingList(t *testing.T) {
	hot := Outfit{Band: "hot", Top: "t-shirt", Bottom: "shorts", Accessories: []string{"sunglasses"}}
	cool := Outfit{Band: "cool", Top: "jacket", Layers: []string{"sweater", "jacket"}, Bottom: "pants", Accessories: []string{"umbrella"}}

	got := PackingList([]Outfit{hot, hot, hot, cool})
	want := []PackingItem{
		{Category: CategoryTop, Item: "t-shirt", Count: 3},
		{Category: CategoryOuterwear, Item: "jacket", Count: 1},
		{Category: CategoryOuterwear, Item: "sweater", Count: 1},
		{Category: CategoryBottom, Item: "pants", Count: 1},
		{Category: CategoryBottom, Item: "shorts", Count: 2},
		{Category: CategoryAccessory, Item: "sunglasses", Count: 1},
		{Category: CategoryAccessory, Item: "umbrella", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PackingList() mismatch (-want +got):\n%s", diff)
	}
}

func TestPackingListEmpty(t *testing.T) {
	assert.Empty(t, PackingList(nil))
}

func TestIsOuterwear(t *testing.T) {
	assert.True(t, IsOuterwear("Light Jacket"))
	assert.True(t, IsOuterwear("hoodie"))
	assert.False(t, IsOuterwear("t-shirt"))
}
