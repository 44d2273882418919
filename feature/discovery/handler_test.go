package discovery_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"discovery-sync/feature/discovery"
	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/catalog/mocks"
	"discovery-sync/feature/discovery/source"
)

func TestHandleSyncReturnsResult(t *testing.T) {
	src := &stubSource{sites: []source.Site{{ID: "s1", Name: "HQ"}}}

	cat := new(mocks.Client)
	cat.On("Upsert", mock.Anything, "sites", mock.Anything).
		Return(&catalog.Reference{ID: "site-1"}, nil)

	svc := newService(src, cat)
	app := fiber.New()
	discovery.NewHandler(svc).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/discovery/sync", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		UploadCounts map[string]int `json:"uploadCounts"`
	}
	assert.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 1, out.UploadCounts["sites"])
}

func TestHandleSyncSuspensionIsUnauthorized(t *testing.T) {
	src := &stubSource{sitesErr: &source.AuthorizationError{Message: "credentials rejected"}}

	svc := newService(src, new(mocks.Client))
	app := fiber.New()
	discovery.NewHandler(svc).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/discovery/sync", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "suspended_source", out["status"])
}

func TestHandleRunsWithoutJournal(t *testing.T) {
	src := &stubSource{sites: []source.Site{{ID: "s1", Name: "HQ"}}}

	svc := newService(src, new(mocks.Client))
	app := fiber.New()
	discovery.NewHandler(svc).RegisterRoutes(app)

	req := httptest.NewRequest("GET", "/discovery/runs", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, "[]", string(body))
}
