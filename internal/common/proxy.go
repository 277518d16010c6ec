package common

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// StatusError is returned when the remote end answers with a non 2xx status
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s for url %s", e.StatusCode, http.StatusText(e.StatusCode), e.Url)
}

type Proxy struct {
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
}

func NewProxy(header map[string]string, restrictions []Restriction) Proxy {
	return Proxy{header, &http.Client{}, NewRateLimiter(restrictions)}
}

// Make a GET request to the provided url and return the body.
// The request waits for the rate limiter before going out.
// Transport failures and non 2xx statuses are returned as errors
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	if err := proxy.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter did not allow the request: %w", err)
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	log.Debug().Str("url", url).Msg("Requesting")
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not perform request: %w", err)
	}
	defer res.Body.Close()
	log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, http.StatusText(res.StatusCode)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{Url: url, StatusCode: res.StatusCode}
	}

	stream, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read the response for url %s: %w", url, err)
	}
	return stream, nil
}
