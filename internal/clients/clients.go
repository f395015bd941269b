// Package clients contains the HTTP adapters for the two collaborator
// services the orchestrator depends on: the inventory service (catalog +
// stock ledger) and the customers service (identity + wallet ledger).
//
// Every call carries the request context, a bounded timeout, and retry with
// backoff. Mutating calls are safe to retry because they are idempotent at
// the collaborator: wallet operations are deduplicated by request id and the
// stock write is conditional on the expected count.
package clients

import (
	"time"

	"resty.dev/v3"
)

func newHTTPClient(baseURL string, timeout time.Duration, retries int, retryWait time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(retryWait).
		SetAllowNonIdempotentRetry(true)
}
