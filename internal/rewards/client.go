package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	apperrors "github.com/openclaw/reward-poller/internal/errors"
	"github.com/openclaw/reward-poller/internal/metrics"
	"github.com/openclaw/reward-poller/internal/timestamp"
	"github.com/openclaw/reward-poller/internal/util"
)

const (
	EndpointCheck = "check"
	EndpointClaim = "claim"

	nextClaimField = "next_daily_award"
	balanceField   = "balance"

	maxBodyBytes = 1 << 20
)

var defaultHeaders = map[string]string{
	"accept":          "application/json, text/plain, */*",
	"accept-language": "zh-CN,zh;q=0.9,en;q=0.8,en-GB;q=0.7,en-US;q=0.6",
	"priority":        "u=1, i",
	"sec-fetch-dest":  "empty",
	"sec-fetch-mode":  "cors",
	"sec-fetch-site":  "same-origin",
}

// ClaimResult is the outcome of a successful claim. Balance is nil when the
// server did not report one.
type ClaimResult struct {
	Balance *float64
}

// Client talks to the daily reward API. It keeps no per-account state.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// CheckNextClaimTime returns the next eligible claim instant in epoch
// milliseconds.
func (c *Client) CheckNextClaimTime(ctx context.Context, token string) (int64, error) {
	body, err := c.post(ctx, EndpointCheck, token)
	if err != nil {
		return 0, err
	}

	field := gjson.GetBytes(body, nextClaimField)
	next, err := timestamp.Normalize(fieldValue(field))
	if err != nil {
		return 0, apperrors.TimestampParse(err).WithDetails(map[string]any{
			"body": truncate(string(body), 256),
		})
	}
	return next, nil
}

// SubmitClaim claims the reward for the account owning token.
func (c *Client) SubmitClaim(ctx context.Context, token string) (ClaimResult, error) {
	body, err := c.post(ctx, EndpointClaim, token)
	if err != nil {
		return ClaimResult{}, err
	}

	var result ClaimResult
	if balance := gjson.GetBytes(body, balanceField); balance.Type == gjson.Number {
		value := balance.Num
		result.Balance = &value
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, endpoint, token string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	accountID := util.AccountID(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, apperrors.Transport(endpoint, fmt.Errorf("create request: %w", err))
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("token", token)

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordAPICall(endpoint, elapsed, false)
		log.Warn().
			Err(err).
			Str("accountId", accountID).
			Str("endpoint", endpoint).
			Dur("elapsed", elapsed).
			Msg("reward api request error")
		return nil, apperrors.Transport(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordAPICall(endpoint, elapsed, false)
		drain(resp.Body)
		log.Warn().
			Str("accountId", accountID).
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Msg("reward api request failed")
		return nil, apperrors.HTTPFailure(endpoint, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordAPICall(endpoint, elapsed, false)
		return nil, apperrors.Transport(endpoint, fmt.Errorf("read body: %w", err))
	}
	if !gjson.ValidBytes(body) {
		metrics.RecordAPICall(endpoint, elapsed, false)
		return nil, apperrors.DecodeFailure(endpoint, fmt.Errorf("invalid json body: %q", truncate(string(body), 64)))
	}

	metrics.RecordAPICall(endpoint, elapsed, true)
	log.Debug().
		Str("accountId", accountID).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("reward api request succeeded")

	return body, nil
}

// fieldValue maps a gjson result onto the shapes the normalizer accepts.
// Numbers keep their raw text so millisecond values stay exact.
func fieldValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	default:
		return r.Value()
	}
}

// drain discards up to maxBodyBytes so the connection can be reused.
func drain(body io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodyBytes))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
