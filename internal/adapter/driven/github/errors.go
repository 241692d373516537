package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"
	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

// ClassifyRateLimit reports whether a failed response means the caller ran
// out of API quota. A 429 always does; a 403 only when its message says so,
// which keeps "Bad credentials" and permission failures out. Returns nil when
// the response is not a rate-limit condition.
func ClassifyRateLimit(status int, message string, header http.Header) *model.RateLimitError {
	if status != http.StatusForbidden && status != http.StatusTooManyRequests {
		return nil
	}
	if status == http.StatusForbidden && !strings.Contains(strings.ToLower(message), "rate limit") {
		return nil
	}

	var reset int64
	if header != nil {
		reset, _ = strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64)
	}
	return model.NewRateLimitError(reset)
}

// classifyResponse applies ClassifyRateLimit to resp, tolerating a nil
// response. fallback fills ResetAt when the headers carry no reset.
func classifyResponse(resp *http.Response, message string, fallback time.Time) *model.RateLimitError {
	status, header := http.StatusForbidden, http.Header(nil)
	if resp != nil {
		status, header = resp.StatusCode, resp.Header
	}
	rl := ClassifyRateLimit(status, message, header)
	if rl != nil && rl.ResetAt == nil && !fallback.IsZero() {
		rl.ResetAt = &fallback
	}
	return rl
}

// wrapError translates go-github failures into domain errors: rate-limit
// conditions become *model.RateLimitError, 404s wrap model.ErrNotFound, and
// everything else is wrapped with op for context.
func wrapError(op string, err error) error {
	var reachedErr *github_primary_ratelimit.RateLimitReachedError
	if errors.As(err, &reachedErr) {
		return wrapLimitReached(op, reachedErr)
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		if rl := classifyResponse(rateErr.Response, rateErr.Message, rateErr.Rate.Reset.Time); rl != nil {
			return fmt.Errorf("%s: %w", op, rl)
		}
		return fmt.Errorf("%s: %s", op, rateErr.Message)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var retryAt time.Time
		if abuseErr.RetryAfter != nil {
			retryAt = time.Now().Add(*abuseErr.RetryAfter).Truncate(time.Second)
		}
		var header http.Header
		if abuseErr.Response != nil {
			header = abuseErr.Response.Header
		}
		rl := ClassifyRateLimit(http.StatusTooManyRequests, abuseErr.Message, header)
		if rl.ResetAt == nil && !retryAt.IsZero() {
			rl.ResetAt = &retryAt
		}
		return fmt.Errorf("%s: %w", op, rl)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		if rl := ClassifyRateLimit(respErr.Response.StatusCode, respErr.Message, respErr.Response.Header); rl != nil {
			return fmt.Errorf("%s: %w", op, rl)
		}
		if respErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", op, model.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// wrapLimitReached handles responses the primary limiter intercepted before
// go-github could parse them. The limiter triggers on remaining=0 alone, so
// the body message still decides whether this is a quota failure.
func wrapLimitReached(op string, reachedErr *github_primary_ratelimit.RateLimitReachedError) error {
	resp := reachedErr.Response
	message := responseMessage(resp)
	if message == "" {
		// Requests blocked locally carry a synthetic, empty response.
		message = reachedErr.Error()
	}

	var fallback time.Time
	if reachedErr.ResetTime != nil {
		fallback = *reachedErr.ResetTime
	}
	if rl := classifyResponse(resp, message, fallback); rl != nil {
		return fmt.Errorf("%s: %w", op, rl)
	}

	status := http.StatusForbidden
	if resp != nil {
		status = resp.StatusCode
	}
	return fmt.Errorf("%s: GitHub API returned %d: %s", op, status, message)
}

// responseMessage reads the "message" field of a GitHub error body and
// closes it. Returns "" when there is no body or it is not JSON.
func responseMessage(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Message
}
