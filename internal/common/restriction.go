package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// A restriction means that only the specified number of requests
// are allowed for a specific time duration
type Restriction struct {
	Requests int
	Duration time.Duration
}

// Parse a restriction written as "<requests>/<duration>", for example "5/5s"
func ParseRestriction(text string) (Restriction, error) {

	requestsText, durationText, found := strings.Cut(strings.TrimSpace(text), "/")
	if !found {
		return Restriction{}, fmt.Errorf("restriction %q is not of the form <requests>/<duration>", text)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(requestsText))
	if err != nil || requests <= 0 {
		return Restriction{}, fmt.Errorf("restriction %q has an invalid number of requests", text)
	}
	duration, err := time.ParseDuration(strings.TrimSpace(durationText))
	if err != nil || duration <= 0 {
		return Restriction{}, fmt.Errorf("restriction %q has an invalid duration", text)
	}

	return Restriction{Requests: requests, Duration: duration}, nil
}

// Build a token bucket that refills the whole allowance once per duration
// and allows a burst of the full allowance
func (rest Restriction) Limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(rest.Duration/time.Duration(rest.Requests)), rest.Requests)
}

func (rest Restriction) String() string {
	return fmt.Sprintf("%d/%s", rest.Requests, rest.Duration)
}
