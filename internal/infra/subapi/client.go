package subapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vpn-subpage/internal/stories/subscription"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/time/rate"
)

const maxBodySize = 1 << 20

// Client reads subscription metadata from the remote subscription API.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithTimeout sets the request timeout on a copy of the current HTTP client,
// so a shared client passed via WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		hc := *client.http
		hc.Timeout = timeout
		client.http = &hc
	}
}

// WithRateLimit caps outbound requests. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(client *Client) {
		if rps <= 0 {
			client.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewClient(endpoint string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchSubscription issues GET {endpoint}/subscription/{userID}. Transport
// failures and non-2xx answers come back as *subscription.NetworkError.
func (c *Client) FetchSubscription(ctx context.Context, userID string) (subscription.Raw, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return subscription.Raw{}, &subscription.NetworkError{UserID: userID, Err: errors.Wrap(err, "rate limiting")}
		}
	}

	reqURL := c.endpoint + "/subscription/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return subscription.Raw{}, &subscription.NetworkError{UserID: userID, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return subscription.Raw{}, &subscription.NetworkError{UserID: userID, Err: errors.Wrap(err, "do request")}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Subscription API returned error status",
			slog.String("user_id", userID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return subscription.Raw{}, &subscription.NetworkError{
			UserID:     userID,
			StatusCode: resp.StatusCode,
			Err:        errors.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return subscription.Raw{}, &subscription.NetworkError{UserID: userID, Err: errors.Wrap(err, "read body")}
	}

	raw, err := DecodeRaw(data)
	if err != nil {
		return subscription.Raw{}, &subscription.NetworkError{UserID: userID, Err: errors.Wrap(err, "decode body")}
	}

	return raw, nil
}

// DecodeRaw reads the subscription object. Each field may be absent, null,
// a string or a number; unknown fields are skipped.
func DecodeRaw(data []byte) (subscription.Raw, error) {
	var raw subscription.Raw

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return raw, errors.New("subscription payload is not an object")
	}

	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var target *string
		switch string(key) {
		case "userId":
			target = &raw.UserID
		case "username":
			target = &raw.Username
		case "status":
			target = &raw.Status
		case "expiresAt":
			target = &raw.ExpiresAt
		case "daysLeft":
			target = &raw.DaysLeft
		case "trafficUsed":
			target = &raw.TrafficUsed
		case "trafficLimit":
			target = &raw.TrafficLimit
		case "trafficPercent":
			target = &raw.TrafficPercent
		default:
			return d.Skip()
		}

		v, err := decodeText(d)
		if err != nil {
			return errors.Wrapf(err, "field %s", key)
		}
		*target = v
		return nil
	})
	if err != nil {
		return subscription.Raw{}, err
	}

	return raw, nil
}

func decodeText(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		f, err := n.Float64()
		if err != nil {
			return n.String(), nil
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case jx.Null:
		return "", d.Null()
	case jx.Bool:
		// false is falsy, true has no meaningful textual form here
		_, err := d.Bool()
		return "", err
	default:
		return "", d.Skip()
	}
}
