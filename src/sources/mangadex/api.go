package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/diogovalentte/mangadex-talker/src/errordefs"
	"github.com/diogovalentte/mangadex-talker/src/util"
)

// Client is a client for the MangaDex API
type Client struct {
	client  *http.Client
	header  http.Header
	limiter *rate.Limiter
	apiURL  string
	logger  *zerolog.Logger
}

// sleep is swapped out in tests
var sleep = time.Sleep

func newClient(apiURL string, limiter *rate.Limiter) *Client {
	client := http.Client{
		Timeout: 30 * time.Second,
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", "mangadex-talker")

	dex := &Client{
		client:  &client,
		header:  header,
		limiter: limiter,
		apiURL:  apiURL,
		logger:  util.GetLogger(zerolog.InfoLevel),
	}

	return dex
}

// getContent makes a rate-limited GET request to an API path and decodes
// the response into retBody. Server errors and rate limits are retried
// up to 3 attempts; everything else fails on first occurrence. An
// application error envelope in a 200 response is surfaced as a network
// error carrying the embedded error details.
func (c *Client) getContent(path string, params url.Values, retBody interface{}) error {
	requestURL := c.apiURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	for tries := 0; tries < 3; tries++ {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return errordefs.NewNetworkError(talkerName, errordefs.CodeGeneric, err.Error())
		}

		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return errordefs.NewNetworkError(talkerName, errordefs.CodeGeneric, err.Error())
		}
		req.Header = c.header

		resp, err := c.client.Do(req)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				c.logger.Debug().Msgf("connection to %s timed out", talkerName)
				return errordefs.NewNetworkError(talkerName, errordefs.CodeTimeout, "connection timed out")
			}
			c.logger.Debug().Msgf("request exception: %s", err)
			return errordefs.NewNetworkError(talkerName, errordefs.CodeGeneric, err.Error())
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return errordefs.NewNetworkError(talkerName, errordefs.CodeGeneric, err.Error())
			}
			return c.decodeContent(body, retBody)
		case resp.StatusCode >= http.StatusInternalServerError:
			resp.Body.Close()
			c.logger.Debug().Msgf("try #%d: %d", tries+1, resp.StatusCode)
			sleep(1 * time.Second)
		case resp.StatusCode == http.StatusBadRequest,
			resp.StatusCode == http.StatusForbidden,
			resp.StatusCode == http.StatusNotFound:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return errordefs.NewNetworkError(talkerName, errordefs.CodeTerminalStatus, fmt.Sprintf("non-200 status code -> (%d) %s", resp.StatusCode, string(body)))
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			wait := retryAfterWait(resp.Header.Get("x-ratelimit-retry-after"), time.Now())
			c.logger.Debug().Msgf("rate limit reached, waiting %s", wait)
			sleep(wait)
		default:
			resp.Body.Close()
			return errordefs.NewNetworkError(talkerName, errordefs.CodeRetriesExhausted, fmt.Sprintf("unexpected status code (%d)", resp.StatusCode))
		}
	}

	return errordefs.NewNetworkError(talkerName, errordefs.CodeRetriesExhausted, "retries exhausted")
}

// decodeContent checks the application error envelope before decoding
// the body into retBody. Malformed JSON is a data format error, not a
// network error.
func (c *Client) decodeContent(body []byte, retBody interface{}) error {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Debug().Msgf("JSON decode error: %s", err)
		return errordefs.NewDataFormatError(talkerName, 2, fmt.Sprintf("%s did not provide json", talkerName))
	}

	if envelope.Result == "error" {
		c.logger.Debug().Msgf("%s query failed with error: %s", talkerName, envelope.GetErrors())
		return errordefs.NewNetworkError(talkerName, errordefs.CodeGeneric, envelope.GetErrors())
	}

	if retBody != nil {
		if err := json.Unmarshal(body, retBody); err != nil {
			c.logger.Debug().Msgf("JSON decode error: %s", err)
			return errordefs.NewDataFormatError(talkerName, 2, fmt.Sprintf("%s did not provide json", talkerName))
		}
	}

	return nil
}

// retryAfterWait returns how long to sleep after a too-many-requests
// response. The header holds a unix timestamp to retry after; the wait
// is clamped to be non-negative, plus one second of slack. Without the
// header a fixed 10 seconds is used.
func retryAfterWait(header string, now time.Time) time.Duration {
	if header == "" {
		return 10 * time.Second
	}

	retryAt, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 10 * time.Second
	}

	wait := time.Duration(retryAt-now.Unix()) * time.Second
	if wait < 0 {
		wait = 0
	}

	return wait + 1*time.Second
}

// Ping checks the API liveness endpoint, which answers with the literal
// body "pong".
func (c *Client) Ping() error {
	contextError := "error pinging the API"

	req, err := http.NewRequest(http.MethodGet, c.apiURL+"/ping", nil)
	if err != nil {
		return util.AddErrorContext(contextError, err)
	}
	req.Header = c.header

	resp, err := c.client.Do(req)
	if err != nil {
		return util.AddErrorContext(contextError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return util.AddErrorContext(contextError, err)
	}

	if string(body) != "pong" {
		return util.AddErrorContext(contextError, fmt.Errorf("unexpected response body '%s'", string(body)))
	}

	return nil
}
