package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"discovery-sync/feature/discovery/catalog"
)

// Client is a mock implementation of catalog.Client
type Client struct {
	mock.Mock
}

func (m *Client) Upsert(ctx context.Context, kind string, input interface{}) (*catalog.Reference, error) {
	args := m.Called(ctx, kind, input)
	if ref, ok := args.Get(0).(*catalog.Reference); ok {
		return ref, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) SubmitBatch(ctx context.Context, input *catalog.UploadInput) (*catalog.BatchResult, error) {
	args := m.Called(ctx, input)
	if res, ok := args.Get(0).(*catalog.BatchResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AwaitAsyncResult(ctx context.Context, q *catalog.AsyncQuery, timeout time.Duration) (*catalog.AsyncResult, error) {
	args := m.Called(ctx, q, timeout)
	if res, ok := args.Get(0).(*catalog.AsyncResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) LookupReference(ctx context.Context, kind, key string) (*catalog.Reference, error) {
	args := m.Called(ctx, kind, key)
	if ref, ok := args.Get(0).(*catalog.Reference); ok {
		return ref, args.Error(1)
	}
	return nil, args.Error(1)
}
