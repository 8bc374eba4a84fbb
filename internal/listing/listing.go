// Package listing defines the canonical job listing record shared by every
// listing source, and the normalizer that maps provider payloads onto it.
package listing

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// JobType is the employment type of a listing.
type JobType string

// Supported job types. Any provider value outside this set is mapped to
// JobTypeFullTime.
const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// JobTypes lists every valid job type in display order.
var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
	JobTypeRemote,
}

// Valid reports whether t is one of the supported job types.
func (t JobType) Valid() bool {
	for _, jt := range JobTypes {
		if t == jt {
			return true
		}
	}
	return false
}

// ParseJobType maps loose spellings such as "Full_Time" or "part time" onto
// a JobType. The second return value is false when nothing matches.
func ParseJobType(s string) (JobType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "fulltime":
		s = string(JobTypeFullTime)
	case "parttime":
		s = string(JobTypePartTime)
	}
	t := JobType(s)
	return t, t.Valid()
}

// Source identifies where a listing came from.
type Source string

const (
	// SourceAdzuna marks listings served live by the Adzuna search API.
	SourceAdzuna Source = "adzuna"
	// SourceDemo marks listings served from the built-in local catalog.
	SourceDemo Source = "demo"
)

// Salary is a salary band in whole currency units. Zero means unknown.
type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Display renders the band for humans, e.g. "USD 120,000 - 160,000".
// It returns an empty string when both bounds are unknown.
func (s Salary) Display() string {
	if s.Min <= 0 && s.Max <= 0 {
		return ""
	}
	p := message.NewPrinter(language.English)
	switch {
	case s.Min > 0 && s.Max > 0:
		return p.Sprintf("%s %d - %d", s.Currency, s.Min, s.Max)
	case s.Min > 0:
		return p.Sprintf("%s %d+", s.Currency, s.Min)
	default:
		return p.Sprintf("up to %s %d", s.Currency, s.Max)
	}
}

// Listing is a normalized job posting. Every field is always populated;
// defaults stand in for data the source did not provide.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ApplyURL    string    `json:"applyUrl"`
	Salary      Salary    `json:"salary"`
	JobType     JobType   `json:"jobType"`
	Tags        []string  `json:"tags"`
	Source      Source    `json:"source"`
	PostedAt    time.Time `json:"postedAt"`
}

// Clone returns a copy of l that shares no slices with it.
func (l Listing) Clone() Listing {
	out := l
	out.Tags = append([]string{}, l.Tags...)
	return out
}
