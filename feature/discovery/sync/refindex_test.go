package sync_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/sync"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Dell Inc.", "dell_inc"},
		{"  HP -- EliteBook 840 G5  ", "hp_elitebook_840_g5"},
		{"___", ""},
		{"Ubuntu 22.04 LTS", "ubuntu_22_04_lts"},
		{"ALL CAPS", "all_caps"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sync.Normalize(c.in), c.in)
	}
}

func TestNormalizeIsIdempotentAndBounded(t *testing.T) {
	long := strings.Repeat("Vendor-Model ", 40)
	key := sync.Normalize(long)

	assert.LessOrEqual(t, len(key), 128)
	assert.Equal(t, key, sync.Normalize(key))
	assert.Equal(t, strings.ToLower(key), key)
}

func TestCategoryFirstWriterWins(t *testing.T) {
	idx := sync.NewIndex()

	first := idx.Category("Windows Server")
	second := idx.Category("windows-server")

	assert.Same(t, first, second)
	assert.Equal(t, "Windows Server", second.Name)
	assert.Len(t, idx.Categories(), 1)
}

func TestFalsyKeysDoNotPolluteTheIndex(t *testing.T) {
	idx := sync.NewIndex()

	assert.Nil(t, idx.Category(""))
	assert.Nil(t, idx.Category("!!!"))
	assert.Empty(t, idx.Brand(""))
	assert.Empty(t, idx.Model(""))
	assert.Nil(t, idx.Product(nil, "name", "b", "m", ""))
	assert.Empty(t, idx.Categories())
}

func TestProductIdentityDedup(t *testing.T) {
	idx := sync.NewIndex()
	cat := idx.Category("Laptop")

	p1 := idx.Product(cat, "Dell Latitude 7490 Laptop", "Dell", "Latitude 7490", "")
	p2 := idx.Product(cat, "dell latitude 7490 laptop", "DELL", "latitude-7490", "")

	assert.Same(t, p1, p2)
	assert.Len(t, cat.Products, 1)
}

func TestTakeBatchEmitsOnlyUnflushedItems(t *testing.T) {
	idx := sync.NewIndex()
	cat := idx.Category("Laptop")
	prod := idx.Product(cat, "Dell Latitude Laptop", "Dell", "Latitude", "")

	idx.AddItem(prod, &catalog.ConfigurationItem{SourceID: "a1"})
	idx.AddItem(prod, &catalog.ConfigurationItem{SourceID: "a2"})

	batch := idx.TakeBatch()
	assert.Len(t, batch, 1)
	assert.Len(t, batch[0].Products, 1)
	assert.Len(t, batch[0].Products[0].ConfigurationItems, 2)

	// Nothing new since the flush.
	assert.Nil(t, idx.TakeBatch())

	idx.AddItem(prod, &catalog.ConfigurationItem{SourceID: "a3"})
	batch = idx.TakeBatch()
	assert.Len(t, batch, 1)
	items := batch[0].Products[0].ConfigurationItems
	assert.Len(t, items, 1)
	assert.Equal(t, "a3", items[0].SourceID)

	// The run-long graph still holds everything.
	assert.Len(t, prod.ConfigurationItems, 3)
}
