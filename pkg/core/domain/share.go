package domain

import "net/url"

// CanonicalHost is the host used when a share is reported back as a URL.
const CanonicalHost = "115.com"

// ShareCandidate is a share link found in a line of text.
// It is consumed immediately and never persisted.
type ShareCandidate struct {
	ShareID      string `json:"share_id"`
	AccessCode   string `json:"access_code,omitempty"`
	SourceDomain string `json:"source_domain"`
}

// CanonicalURL renders the candidate on the canonical host, whichever alias it was found on.
func (c ShareCandidate) CanonicalURL() string {
	u := url.URL{Scheme: "https", Host: CanonicalHost, Path: "/s/" + c.ShareID}
	if c.AccessCode != "" {
		u.RawQuery = url.Values{"password": []string{c.AccessCode}}.Encode()
	}
	return u.String()
}

// ExtractStatus tells what a single line produced.
type ExtractStatus int

const (
	NoMatch ExtractStatus = iota
	Matched
	MissingCode
)

func (s ExtractStatus) String() string {
	switch s {
	case Matched:
		return "matched"
	case MissingCode:
		return "missing_access_code"
	default:
		return "no_match"
	}
}

// ExtractResult is the outcome of scanning one line.
// Candidate is set for Matched and MissingCode (without AccessCode in the latter).
type ExtractResult struct {
	Status    ExtractStatus
	Candidate ShareCandidate
}
