package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxRetries bounds how many times a rate-limited request is reissued.
const maxRetries = 3

// retryBaseDelay is the first backoff interval; doubled on each retry.
// Overridden in tests.
var retryBaseDelay = time.Second

// doWithRetry issues the request built by build, reissuing it on HTTP 429
// with exponential backoff up to maxRetries extra attempts, and on a 5xx
// response exactly once. Any other response, success or not, is returned to
// the caller as-is.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	serverRetried := false
	for attempt := 0; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			drain(resp)
			if attempt >= maxRetries {
				return nil, fmt.Errorf("rate limited after %d attempts", attempt+1)
			}
			if err := sleep(ctx, retryBaseDelay<<attempt); err != nil {
				return nil, err
			}
		case resp.StatusCode >= http.StatusInternalServerError && !serverRetried:
			drain(resp)
			serverRetried = true
			if err := sleep(ctx, retryBaseDelay); err != nil {
				return nil, err
			}
		default:
			return resp, nil
		}
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
