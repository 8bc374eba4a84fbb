package resume

import (
	"context"
	"regexp"
	"strings"
)

// MaxFallbackRawText caps RawText on deterministic results.
const MaxFallbackRawText = 2000

// FallbackMessage is attached to every deterministic result.
const FallbackMessage = "Set a text-understanding API key for full AI-powered parsing"

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d[\d\s\-().]{7,})`)
)

// skillKeywords are matched case-sensitively, in this order.
var skillKeywords = []string{
	"JavaScript", "Python", "Java", "React", "Node.js", "SQL", "MongoDB", "TypeScript",
	"HTML", "CSS", "Docker", "AWS", "Git", "Express", "Vue", "Angular", "Next.js",
	"PostgreSQL", "MySQL", "Redis", "Kubernetes", "GraphQL", "REST API", "C++", "C#",
	"Go", "Ruby", "PHP", "Swift", "Kotlin", "Flutter", "TensorFlow", "Machine Learning",
}

// DeterministicParser extracts a minimal fragment with regular expressions
// and a fixed skill list. It never fails.
type DeterministicParser struct{}

// NewDeterministicParser returns a DeterministicParser.
func NewDeterministicParser() *DeterministicParser {
	return &DeterministicParser{}
}

// Parse implements Parser.
func (p *DeterministicParser) Parse(ctx context.Context, text string) (*ParsedProfileFragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := nonBlankLines(text)

	var personal Personal
	if len(lines) > 0 {
		first, rest, _ := strings.Cut(lines[0], " ")
		personal.FirstName = first
		personal.LastName = rest
	}
	if m := emailPattern.FindString(text); m != "" {
		personal.Email = m
	}
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		personal.Phone = strings.TrimSpace(m[1])
	}
	head := lines
	if len(head) > 3 {
		head = head[:3]
	}
	personal.Summary = strings.Join(head, " ")

	fragment := &ParsedProfileFragment{
		Personal: personal,
		Skills:   matchSkills(text),
		RawText:  truncateRunes(text, MaxFallbackRawText),
		Mock:     true,
		Message:  FallbackMessage,
	}
	fragment.normalize()
	return fragment, nil
}

func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func matchSkills(text string) []string {
	skills := []string{}
	for _, kw := range skillKeywords {
		if strings.Contains(text, kw) {
			skills = append(skills, kw)
		}
	}
	return skills
}
