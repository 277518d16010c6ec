package tally

import (
	"context"
	"sort"
	"time"
)

type Kind string

const (
	KindMessage Kind = "message"
	KindReset   Kind = "reset"
	KindSummary Kind = "summary"
)

// Something that happened to a counter. Message events carry the author,
// reset events the count before the reset, summary events the id of the
// summary message
type Event struct {
	Kind          Kind
	At            time.Time
	UserId        string
	Username      string
	PreviousCount int
	MessageId     string
}

type UserTally struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

type Tally struct {
	Count            int                  `json:"count"`
	Users            map[string]UserTally `json:"users,omitempty"`
	Since            time.Time            `json:"since"`
	SummaryMessageId string               `json:"summaryMessageId,omitempty"`
}

type RankedUser struct {
	UserId string
	UserTally
}

// A Store persists the events of one counter
type Store interface {
	// Rebuild the tally from what was persisted
	Load(ctx context.Context) (Tally, error)
	// Persist an event. The tally is the state after applying it
	Commit(ctx context.Context, event Event, tally Tally) error
	Close() error
}

// Apply an event to the tally
func (tally *Tally) Apply(event Event) {
	switch event.Kind {
	case KindMessage:
		tally.Count++
		if tally.Users == nil {
			tally.Users = map[string]UserTally{}
		}
		user := tally.Users[event.UserId]
		user.Count++
		if event.Username != "" {
			user.Username = event.Username
		}
		tally.Users[event.UserId] = user
	case KindReset:
		tally.Count = 0
		tally.Users = nil
		tally.Since = event.At
	case KindSummary:
		tally.SummaryMessageId = event.MessageId
	}
}

// The n users with the most messages, ties broken by user id
func (tally Tally) Top(n int) []RankedUser {
	ranked := make([]RankedUser, 0, len(tally.Users))
	for id, user := range tally.Users {
		ranked = append(ranked, RankedUser{UserId: id, UserTally: user})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].UserId < ranked[j].UserId
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// A deep copy, safe to hand to another goroutine
func (tally Tally) Clone() Tally {
	clone := tally
	if tally.Users != nil {
		clone.Users = make(map[string]UserTally, len(tally.Users))
		for id, user := range tally.Users {
			clone.Users[id] = user
		}
	}
	return clone
}
