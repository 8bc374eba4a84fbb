package listing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultCompany is used when a record carries no company name.
	DefaultCompany = "Unknown Company"
	// DefaultLocation is used when neither the record nor the search names a location.
	DefaultLocation = "Remote"
	// DefaultApplyURL is used when a record carries no application link.
	DefaultApplyURL = "#"
	// DefaultCurrency is attached to every provider salary band.
	DefaultCurrency = "USD"
)

// Record is one raw search result as decoded from the provider's JSON body.
// Field shapes are not trusted: every accessor tolerates missing keys and
// values of the wrong type.
type Record map[string]any

// Normalize maps an Adzuna search result onto a Listing. requestedLocation
// is the location the caller searched for and is used when the record has
// none. Normalize never fails; malformed fields fall back to defaults.
func Normalize(rec Record, requestedLocation string) Listing {
	return normalizeAt(rec, requestedLocation, time.Now())
}

func normalizeAt(rec Record, requestedLocation string, now time.Time) Listing {
	location := stripHTML(rec.nestedText("location", "display_name"))
	if location == "" {
		location = strings.TrimSpace(requestedLocation)
	}
	if location == "" {
		location = DefaultLocation
	}

	company := stripHTML(rec.nestedText("company", "display_name"))
	if company == "" {
		company = DefaultCompany
	}

	applyURL := strings.TrimSpace(rec.text("redirect_url"))
	if applyURL == "" {
		applyURL = DefaultApplyURL
	}

	tags := []string{}
	if tag := strings.TrimSpace(rec.nestedText("category", "tag")); tag != "" {
		tags = append(tags, tag)
	}

	postedAt := now
	if created := rec.text("created"); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			postedAt = t
		}
	}

	return Listing{
		ID:          rec.id(),
		Title:       stripHTML(rec.text("title")),
		Company:     company,
		Location:    location,
		Description: stripHTML(rec.text("description")),
		ApplyURL:    applyURL,
		Salary: Salary{
			Min:      roundAmount(rec.number("salary_min")),
			Max:      roundAmount(rec.number("salary_max")),
			Currency: DefaultCurrency,
		},
		JobType:  mapJobType(rec.text("contract_type"), rec.text("contract_time")),
		Tags:     tags,
		Source:   SourceAdzuna,
		PostedAt: postedAt,
	}
}

// mapJobType folds Adzuna's contract_type and contract_time into the
// JobType enum. "permanent" means full-time; unknown values fall through
// to contract_time and finally to full-time.
func mapJobType(contractType, contractTime string) JobType {
	ct := strings.ToLower(strings.TrimSpace(contractType))
	if ct == "permanent" {
		return JobTypeFullTime
	}
	if t, ok := ParseJobType(ct); ok {
		return t
	}
	if t, ok := ParseJobType(contractTime); ok {
		return t
	}
	return JobTypeFullTime
}

func roundAmount(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// stripHTML removes markup from provider text. Adzuna highlights search
// terms with <strong> tags and escapes entities in descriptions.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func (r Record) id() string {
	switch v := r["id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func (r Record) text(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

func (r Record) nestedText(key, field string) string {
	switch v := r[key].(type) {
	case map[string]any:
		if s, ok := v[field].(string); ok {
			return s
		}
	case Record:
		return v.text(field)
	}
	return ""
}

func (r Record) number(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
