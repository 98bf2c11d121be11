// Package cfp reads talk and speaker data from the call-for-papers service.
//
// Two deployments of the service exist: one serves the whole event as a
// single JSON document, the other serves one talk (or speaker) per request.
// Both are modelled behind the Source interface so the metadata resolver
// never cares which transport backs it.
package cfp

import (
	"context"
	"net/http"
)

// Talk is one CFP entry, keyed by the same identifier as the spreadsheet.
type Talk struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Speakers []string `json:"speakers"`
}

// Speaker is one CFP speaker profile.
type Speaker struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

// Source abstracts the CFP transport.
//
// LookupTalk reports a missing talk with services.ErrNotFound; callers fall
// back to spreadsheet data. LookupSpeaker reports a missing speaker the same
// way, but callers treat that as fatal: guessing a speaker's identity is
// worse than failing.
type Source interface {
	LookupTalk(ctx context.Context, id string) (*Talk, error)
	LookupSpeaker(ctx context.Context, uid string) (*Speaker, error)
}

// HTTPDoer describes the HTTP client used by the CFP sources.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
