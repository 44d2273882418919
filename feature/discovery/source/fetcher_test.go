package source_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"discovery-sync/feature/discovery/source"
)

func assetServer(t *testing.T, pages map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/export/org/sites.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"id": "s1", "name": "HQ", "organization_id": "org-1"}})
	})
	mux.HandleFunc("/export/org/assets.json", func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Query().Get("cursor")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(page)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func staticClient(url string) *source.Client {
	return source.NewClient(source.Config{
		URL:            url,
		ClientSecret:   "tok",
		CredentialMode: source.CredentialStatic,
	}, zap.NewNop())
}

func TestFetchAssetPagesTerminates(t *testing.T) {
	srv := assetServer(t, map[string]interface{}{
		"": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "a"}, {"id": "b"}},
			"total":      4,
			"pagination": map[string]string{"next": "c1"},
		},
		"c1": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "c"}, {"id": "d"}},
			"total":      4,
			"pagination": map[string]string{},
		},
	})

	var calls int
	var ids []string
	pageErrs, err := staticClient(srv.URL).FetchAssetPages(context.Background(), source.AssetFilter{},
		func(ctx context.Context, items []source.RawAsset) error {
			calls++
			for _, a := range items {
				ids = append(ids, a.ID)
			}
			return nil
		})

	assert.NoError(t, err)
	assert.Empty(t, pageErrs)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestFetchAssetPagesStopsAtTotalWithoutCursor(t *testing.T) {
	srv := assetServer(t, map[string]interface{}{
		"": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "a"}},
			"total":      1,
			"pagination": map[string]string{"next": "stale"},
		},
	})

	var calls int
	_, err := staticClient(srv.URL).FetchAssetPages(context.Background(), source.AssetFilter{},
		func(ctx context.Context, items []source.RawAsset) error {
			calls++
			return nil
		})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchAssetPagesRecordsHandlerFailureAndContinues(t *testing.T) {
	srv := assetServer(t, map[string]interface{}{
		"": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "a"}},
			"total":      2,
			"pagination": map[string]string{"next": "c1"},
		},
		"c1": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "b"}},
			"total":      2,
			"pagination": map[string]string{},
		},
	})

	var handled []string
	pageErrs, err := staticClient(srv.URL).FetchAssetPages(context.Background(), source.AssetFilter{},
		func(ctx context.Context, items []source.RawAsset) error {
			handled = append(handled, items[0].ID)
			if items[0].ID == "a" {
				return errors.New("submission rejected")
			}
			return nil
		})

	assert.NoError(t, err)
	assert.Equal(t, []string{"submission rejected"}, pageErrs)
	assert.Equal(t, []string{"a", "b"}, handled)
}

func TestFetchAssetPagesAbortsOnTerminalHandlerError(t *testing.T) {
	srv := assetServer(t, map[string]interface{}{
		"": map[string]interface{}{
			"items":      []map[string]interface{}{{"id": "a"}},
			"total":      2,
			"pagination": map[string]string{"next": "c1"},
		},
	})

	var calls int
	_, err := staticClient(srv.URL).FetchAssetPages(context.Background(), source.AssetFilter{},
		func(ctx context.Context, items []source.RawAsset) error {
			calls++
			return &source.AuthorizationError{Message: "token revoked"}
		})

	assert.True(t, source.IsAuthorization(err))
	assert.Equal(t, 1, calls)
}

func TestChunkSoftware(t *testing.T) {
	records := make([]source.SoftwareRecord, 5)
	chunks := source.ChunkSoftware(records, 2)
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[2], 1)

	assert.Nil(t, source.ChunkSoftware(nil, 2))
}
