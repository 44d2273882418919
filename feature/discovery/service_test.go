package discovery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"discovery-sync/feature/discovery"
	"discovery-sync/feature/discovery/catalog"
	"discovery-sync/feature/discovery/catalog/mocks"
	"discovery-sync/feature/discovery/journal"
	"discovery-sync/feature/discovery/source"
	"discovery-sync/feature/discovery/sync"
)

type stubSource struct {
	sites    []source.Site
	sitesErr error
}

func (s *stubSource) Sites(ctx context.Context) ([]source.Site, error) {
	return s.sites, s.sitesErr
}

func (s *stubSource) AssetTypes(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubSource) Software(ctx context.Context, types []string) ([]source.SoftwareRecord, error) {
	return nil, nil
}

func (s *stubSource) FetchAssetPages(ctx context.Context, filter source.AssetFilter, handler source.PageHandler) ([]string, error) {
	return nil, nil
}

func newService(src sync.Source, cat catalog.Client) *discovery.Service {
	opts := sync.Options{
		Installation: "acme",
		ChunkSize:    100,
		AsyncTimeout: time.Second,
		IgnoredUsers: sync.IgnoredUserSet(""),
	}
	jrnl := journal.New(nil, nil, "", zap.NewNop())
	return discovery.NewService(src, cat, jrnl, opts, "acme", zap.NewNop())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, journal.StatusDone, discovery.StatusFor(nil))
	assert.Equal(t, journal.StatusSuspendedSource,
		discovery.StatusFor(&source.AuthorizationError{Message: "rejected"}))
	assert.Equal(t, journal.StatusSuspendedTarget,
		discovery.StatusFor(&catalog.AuthorizationError{Message: "rejected"}))
	assert.Equal(t, journal.StatusFailed,
		discovery.StatusFor(assert.AnError))
}

func TestRunSyncCompletes(t *testing.T) {
	src := &stubSource{sites: []source.Site{{ID: "s1", Name: "HQ"}}}

	cat := new(mocks.Client)
	cat.On("Upsert", mock.Anything, "sites", mock.Anything).
		Return(&catalog.Reference{ID: "site-1"}, nil)

	svc := newService(src, cat)
	res, err := svc.RunSync(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, res.UploadCounts[sync.PhaseSites])
}

func TestRunSyncPropagatesSuspension(t *testing.T) {
	src := &stubSource{sitesErr: &source.AuthorizationError{Message: "credentials rejected"}}

	svc := newService(src, new(mocks.Client))
	_, err := svc.RunSync(context.Background())

	assert.Error(t, err)
	assert.Equal(t, journal.StatusSuspendedSource, discovery.StatusFor(err))
}

func TestValidateChecksBothSides(t *testing.T) {
	src := &stubSource{sites: []source.Site{{ID: "s1", Name: "HQ"}}}

	cat := new(mocks.Client)
	cat.On("LookupReference", mock.Anything, "sites", mock.Anything).
		Return(nil, nil)

	svc := newService(src, cat)
	assert.NoError(t, svc.Validate(context.Background()))

	badCat := new(mocks.Client)
	badCat.On("LookupReference", mock.Anything, "sites", mock.Anything).
		Return(nil, &catalog.AuthorizationError{Message: "token rejected"})

	svc = newService(src, badCat)
	err := svc.Validate(context.Background())
	assert.Error(t, err)
	assert.True(t, catalog.IsAuthorization(err))
}
