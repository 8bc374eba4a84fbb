// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "RoleDetection")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Base every value on the input, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// RoleDetectionSchema asks for the job role a piece of text is about.
func RoleDetectionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "RoleDetection",
		Description: `You are a recruiting assistant. Decide which job role the following text (a job posting or a resume) is about.
Use a conventional job title such as "Backend Engineer" or "Product Designer".`,
		Fields: []SchemaField{
			{
				Name:        "role",
				Type:        "\"string\"",
				Description: "Most likely job title",
				Required:    true,
			},
			{
				Name:        "confidence",
				Type:        "number",
				Description: "Confidence between 0 and 1",
				Required:    true,
			},
			{
				Name:        "alternatives",
				Type:        "[\"string\"]",
				Description: "Up to three other plausible titles",
				Required:    false,
			},
		},
	}
}

// FormFillSchema asks for answers to application form fields, drawn from
// the candidate profile given as input.
func FormFillSchema(fields []string) ExtractionSchema {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	return ExtractionSchema{
		Name: "FormFill",
		Description: `You are filling in a job application form for a candidate. The input is the candidate profile as JSON.
Answer each form field using only the profile. Use an empty string when the profile has no answer.
Form fields: [` + strings.Join(quoted, ", ") + `]`,
		Fields: []SchemaField{
			{
				Name:        "filled",
				Type:        "{\"<field label>\": \"string\"}",
				Description: "One entry per form field, keyed by the exact label",
				Required:    true,
			},
		},
	}
}
