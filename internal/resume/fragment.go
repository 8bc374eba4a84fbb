// Package resume turns resume text into a structured profile fragment,
// either through a text-understanding service or through a deterministic
// keyword parser.
package resume

// Personal holds contact and summary details.
type Personal struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
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
}

// Experience is one employment entry.
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Certification is one certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// ParsedProfileFragment is the structured result of parsing a resume.
// It is a suggestion for the profile, never persisted by this package.
type ParsedProfileFragment struct {
	Personal       Personal        `json:"personal"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
	Certifications []Certification `json:"certifications"`
	Languages      []string        `json:"languages"`
	RawText        string          `json:"rawText"`
	Mock           bool            `json:"mock"`
	// Message explains a degraded result; empty for service output.
	Message string `json:"message,omitempty"`
}

// normalize replaces nil lists with empty ones so that absent fields
// serialize as [] rather than null.
func (f *ParsedProfileFragment) normalize() {
	if f.Education == nil {
		f.Education = []Education{}
	}
	if f.Experience == nil {
		f.Experience = []Experience{}
	}
	if f.Skills == nil {
		f.Skills = []string{}
	}
	if f.Certifications == nil {
		f.Certifications = []Certification{}
	}
	if f.Languages == nil {
		f.Languages = []string{}
	}
}
