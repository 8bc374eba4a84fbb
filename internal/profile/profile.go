// Package profile holds the candidate profile a user applies with.
package profile

import (
	"time"

	"github.com/jonathan/job-copilot/internal/resume"
)

// Personal holds contact and summary details.
type Personal struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
	LinkedIn  string `json:"linkedin"`
	GitHub    string `json:"github"`
	Portfolio string `json:"portfolio"`
	Summary   string `json:"summary"`
}

// Education is one education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

// Experience is one employment entry.
type Experience = resume.Experience

// Certification is one certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
	URL    string `json:"url"`
}

// Preferences describe the jobs the user is looking for.
type Preferences struct {
	DesiredRoles     []string `json:"desiredRoles"`
	DesiredLocations []string `json:"desiredLocations"`
	MinSalary        int      `json:"minSalary"`
	MaxSalary        int      `json:"maxSalary"`
	Remote           bool     `json:"remote"`
	FullTime         bool     `json:"fullTime"`
	PartTime         bool     `json:"partTime"`
	Contract         bool     `json:"contract"`
}

// Profile is the single candidate profile of a user.
type Profile struct {
	UserID         string          `json:"userId"`
	Personal       Personal        `json:"personal"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Languages      []string        `json:"languages"`
	ResumeText     string          `json:"resumeText"`
	ResumeFileName string          `json:"resumeFileName"`
	Preferences    Preferences     `json:"preferences"`
	Completeness   int             `json:"completeness"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// New returns the empty default profile for a user.
func New(userID string) *Profile {
	p := &Profile{
		UserID:      userID,
		Preferences: Preferences{FullTime: true},
	}
	p.Normalize()
	return p
}

// Normalize replaces nil lists with empty ones.
func (p *Profile) Normalize() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.Preferences.DesiredRoles == nil {
		p.Preferences.DesiredRoles = []string{}
	}
	if p.Preferences.DesiredLocations == nil {
		p.Preferences.DesiredLocations = []string{}
	}
}

// Completeness weights.
const (
	weightFirstName  = 10
	weightLastName   = 10
	weightPhone      = 5
	weightSummary    = 10
	weightEducation  = 15
	weightExperience = 20
	weightSkills     = 15
	weightResumeText = 15
)

// Completeness scores how filled-in p is, from 0 to 100.
func Completeness(p *Profile) int {
	score := 0
	if p.Personal.FirstName != "" {
		score += weightFirstName
	}
	if p.Personal.LastName != "" {
		score += weightLastName
	}
	if p.Personal.Phone != "" {
		score += weightPhone
	}
	if p.Personal.Summary != "" {
		score += weightSummary
	}
	if len(p.Education) > 0 {
		score += weightEducation
	}
	if len(p.Experience) > 0 {
		score += weightExperience
	}
	if len(p.Skills) > 0 {
		score += weightSkills
	}
	if p.ResumeText != "" {
		score += weightResumeText
	}
	return min(score, 100)
}

// ApplyFragment copies the non-empty parts of a parsed resume into p.
// Lists from the fragment replace the profile's lists when non-empty.
func (p *Profile) ApplyFragment(f *resume.ParsedProfileFragment) {
	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIf(&p.Personal.FirstName, f.Personal.FirstName)
	setIf(&p.Personal.LastName, f.Personal.LastName)
	setIf(&p.Personal.Phone, f.Personal.Phone)
	setIf(&p.Personal.Address, f.Personal.Address)
	setIf(&p.Personal.City, f.Personal.City)
	setIf(&p.Personal.State, f.Personal.State)
	setIf(&p.Personal.Country, f.Personal.Country)
	setIf(&p.Personal.LinkedIn, f.Personal.LinkedIn)
	setIf(&p.Personal.GitHub, f.Personal.GitHub)
	setIf(&p.Personal.Portfolio, f.Personal.Portfolio)
	setIf(&p.Personal.Summary, f.Personal.Summary)

	if len(f.Education) > 0 {
		p.Education = make([]Education, len(f.Education))
		for i, e := range f.Education {
			p.Education[i] = Education{
				Institution: e.Institution,
				Degree:      e.Degree,
				Field:       e.Field,
				StartYear:   e.StartYear,
				EndYear:     e.EndYear,
				GPA:         e.GPA,
			}
		}
	}
	if len(f.Experience) > 0 {
		p.Experience = append([]Experience{}, f.Experience...)
	}
	if len(f.Skills) > 0 {
		p.Skills = append([]string{}, f.Skills...)
	}
	if len(f.Certifications) > 0 {
		p.Certifications = make([]Certification, len(f.Certifications))
		for i, c := range f.Certifications {
			p.Certifications[i] = Certification{Name: c.Name, Issuer: c.Issuer, Year: c.Year}
		}
	}
	if len(f.Languages) > 0 {
		p.Languages = append([]string{}, f.Languages...)
	}
	setIf(&p.ResumeText, f.RawText)
}
