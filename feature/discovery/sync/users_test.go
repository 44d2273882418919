package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"discovery-sync/feature/discovery/source"
	"discovery-sync/feature/discovery/sync"
)

func TestIgnoredUserSetDefaults(t *testing.T) {
	set := sync.IgnoredUserSet("")
	assert.Contains(t, set, "Administrator")
	assert.Contains(t, set, "WDAGUtilityAccount")

	custom := sync.IgnoredUserSet("svc-scan; backup ")
	assert.Contains(t, custom, "svc-scan")
	assert.Contains(t, custom, "backup")
	assert.NotContains(t, custom, "Administrator")
}

func TestExtractUsersPrefersEmailAndSkipsBuiltins(t *testing.T) {
	assets := []source.RawAsset{
		{
			ID:       "a1",
			LastUser: "jdoe",
			Users: []source.AssetUser{
				{Name: "jdoe", Email: "JDoe@example.com"},
				{Name: "Administrator"},
				{Name: "msmith"},
			},
		},
		{
			ID:    "a2",
			Users: []source.AssetUser{{Name: "jdoe", Email: "JDoe@example.com"}},
		},
		{ID: "a3"},
	}

	names := sync.ExtractUsers(assets, sync.IgnoredUserSet(""))

	// The bare last-user name is replaced by the known email.
	assert.ElementsMatch(t, []string{"jdoe@example.com", "msmith"}, names)
	assert.ElementsMatch(t, []string{"JDoe@example.com", "msmith"}, assets[0].AllUsers)
	assert.Equal(t, []string{"JDoe@example.com"}, assets[1].AllUsers)
	assert.Nil(t, assets[2].AllUsers)
}

func TestExtractUsersKeepsLastUserWithoutEmail(t *testing.T) {
	assets := []source.RawAsset{
		{
			ID:       "a1",
			LastUser: "jdoe",
			Users:    []source.AssetUser{{Name: "jdoe"}},
		},
	}

	names := sync.ExtractUsers(assets, sync.IgnoredUserSet(""))

	assert.Equal(t, []string{"jdoe"}, names)
	assert.Equal(t, []string{"jdoe"}, assets[0].AllUsers)
}
