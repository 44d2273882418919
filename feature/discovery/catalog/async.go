package catalog

import (
	"context"
	"sync"
	"time"
)

// Outcome is the reconciled result of one submitted batch.
type Outcome struct {
	// UploadCount is the number of configuration items the catalog accepted.
	UploadCount int
	// ConfigurationItems are the references of the accepted items.
	ConfigurationItems []Reference
	// Errors are the recoverable failures recorded against this batch.
	Errors []string
	// Err is set only for terminal failures, which the caller must propagate
	// instead of folding into the phase's error list.
	Err error
}

// Collect resolves one batch result. Inline results are used as-is; awaitable
// handles are polled until completion or timeout. Callers never branch on
// which of the two the submission returned.
func Collect(ctx context.Context, c Client, res *BatchResult, timeout time.Duration) Outcome {
	if res == nil {
		return Outcome{}
	}

	if res.AsyncQuery == nil {
		return outcomeFrom(res.ConfigurationItems, res.Errors)
	}

	final, err := c.AwaitAsyncResult(ctx, res.AsyncQuery, timeout)
	if err != nil {
		if IsAuthorization(err) {
			return Outcome{Err: err}
		}
		return Outcome{Errors: []string{err.Error()}}
	}
	return outcomeFrom(final.ConfigurationItems, final.Errors)
}

// CollectAll resolves the outstanding handles of multiple batches
// concurrently, one in-flight request per handle. A timeout on one handle
// yields an error entry for that batch only.
func CollectAll(ctx context.Context, c Client, results []*BatchResult, timeout time.Duration) []Outcome {
	outcomes := make([]Outcome, len(results))

	var wg sync.WaitGroup
	for i, res := range results {
		wg.Add(1)
		go func(i int, res *BatchResult) {
			defer wg.Done()
			outcomes[i] = Collect(ctx, c, res, timeout)
		}(i, res)
	}
	wg.Wait()

	return outcomes
}

func outcomeFrom(refs []Reference, fieldErrs []FieldError) Outcome {
	out := Outcome{
		UploadCount:        len(refs),
		ConfigurationItems: refs,
	}
	for _, fe := range fieldErrs {
		out.Errors = append(out.Errors, fe.String())
	}
	return out
}
