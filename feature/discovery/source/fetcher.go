package source

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AssetFilter narrows the asset listing server-side.
type AssetFilter struct {
	// Types limits the listing to the given asset types (already resolved
	// against the source's vocabulary). Empty means all types.
	Types []string
	// LastSeenAfter drops assets whose last-seen timestamp is older.
	LastSeenAfter time.Time
}

// PageHandler receives one page of assets at a time. Returning a terminal
// error aborts the traversal; any other error is recorded against the page
// and the next page is still fetched.
type PageHandler func(ctx context.Context, items []RawAsset) error

// FetchAssetPages walks the cursor-paginated asset listing, handing each page
// to handler before requesting the next one. It returns the recoverable
// per-page errors and, separately, a terminal error if the traversal had to
// be aborted. Page payloads are released after handling; raw items are never
// accumulated across pages.
func (c *Client) FetchAssetPages(ctx context.Context, filter AssetFilter, handler PageHandler) ([]string, error) {
	var pageErrs []string
	retrieved := 0
	cursor := ""

	for {
		page, err := c.assetPage(ctx, filter, cursor)
		if err != nil {
			if IsTerminal(err) {
				return pageErrs, err
			}
			// A failed listing call ends the traversal; pages already
			// handled keep their results.
			pageErrs = append(pageErrs, err.Error())
			return pageErrs, nil
		}

		if len(page.Items) > 0 {
			retrieved += len(page.Items)
			c.log.Info("retrieved asset page",
				zap.Int("retrieved", retrieved),
				zap.Int("total", page.Total))

			if err := handler(ctx, page.Items); err != nil {
				if IsTerminal(err) {
					return pageErrs, err
				}
				pageErrs = append(pageErrs, err.Error())
			}
			page.Items = nil
		}

		if page.Next == "" || retrieved >= page.Total {
			return pageErrs, nil
		}
		cursor = page.Next
	}
}

// ChunkSoftware splits a fully-returned software collection into chunks of
// the given size to bound per-batch memory and submission size.
func ChunkSoftware(records []SoftwareRecord, size int) [][]SoftwareRecord {
	if size <= 0 {
		size = 100
	}
	var chunks [][]SoftwareRecord
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
