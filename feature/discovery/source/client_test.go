package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"discovery-sync/feature/discovery/source"
)

func TestSitesEmptyListingIsAuthorizationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/export/org/sites.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := staticClient(srv.URL).Sites(context.Background())
	assert.True(t, source.IsAuthorization(err))
}

func TestSitesListingIsCached(t *testing.T) {
	var hits int
	mux := http.NewServeMux()
	mux.HandleFunc("/export/org/sites.json", func(w http.ResponseWriter, r *http.Request) {
		hits++
		json.NewEncoder(w).Encode([]map[string]string{{"id": "s1", "name": "HQ"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := staticClient(srv.URL)
	for i := 0; i < 2; i++ {
		sites, err := c.Sites(context.Background())
		assert.NoError(t, err)
		assert.Len(t, sites, 1)
	}
	assert.Equal(t, 1, hits)
}

func TestSoftwareScopesToOrganization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/export/org/sites.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"id": "s1", "name": "HQ", "organization_id": "org-1"}})
	})
	mux.HandleFunc("/export/org/software.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "org-1", r.URL.Query().Get("_oid"))
		assert.Equal(t, "Laptop,Server", r.URL.Query().Get("types"))
		json.NewEncoder(w).Encode([]map[string]string{
			{"software_id": "sw1", "software_vendor": "Microsoft", "software_product": "Office", "software_version": "365"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	records, err := staticClient(srv.URL).Software(context.Background(), []string{"Laptop", "Server"})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "Microsoft", records[0].Vendor)
}

func TestListingFailureIsRecoverable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/export/org/types.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := source.NewClient(source.Config{
		URL:            srv.URL,
		ClientSecret:   "tok",
		CredentialMode: source.CredentialStatic,
	}, zap.NewNop())

	_, err := client.AssetTypes(context.Background())
	assert.Error(t, err)
	assert.False(t, source.IsTerminal(err))

	var apiErr *source.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
