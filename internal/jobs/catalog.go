package jobs

import (
	"time"

	"github.com/jonathan/job-copilot/internal/listing"
)

// catalogLoadedAt stamps every catalog listing's PostedAt.
var catalogLoadedAt = time.Now().UTC()

// demoCatalog is the fixed local catalog served when the provider is
// unconfigured or unavailable. It is never mutated after package init.
var demoCatalog = []listing.Listing{
	demo("mock1", "Senior Frontend Developer", "TechCorp Inc.", "San Francisco, CA",
		"We are looking for a skilled Senior Frontend Developer with experience in React, TypeScript, and modern web technologies. You will lead the development of our user-facing products.",
		120000, 160000, listing.JobTypeFullTime, "React", "TypeScript", "CSS", "JavaScript"),
	demo("mock2", "Backend Engineer (Node.js)", "StartupAI", "Remote",
		"Join our growing team as a Backend Engineer. You will build scalable APIs and microservices using Node.js, Express, and MongoDB.",
		100000, 140000, listing.JobTypeRemote, "Node.js", "Express", "MongoDB", "AWS"),
	demo("mock3", "Full Stack Developer", "GlobalSoft", "New York, NY",
		"Build end-to-end features across our SaaS platform. Work with React frontend and Python/Django backend. PostgreSQL database experience valued.",
		110000, 150000, listing.JobTypeFullTime, "React", "Python", "PostgreSQL", "Django"),
	demo("mock4", "DevOps Engineer", "CloudNative Co.", "Austin, TX",
		"Manage CI/CD pipelines, Kubernetes clusters, and cloud infrastructure on AWS. Experience with Terraform and Docker required.",
		115000, 155000, listing.JobTypeFullTime, "DevOps", "Kubernetes", "AWS", "Docker", "Terraform"),
	demo("mock5", "Data Scientist", "AnalyticsPro", "Boston, MA",
		"Apply machine learning and statistical analysis to drive business insights. Python, TensorFlow, and SQL expertise needed.",
		105000, 145000, listing.JobTypeFullTime, "Python", "Machine Learning", "TensorFlow", "SQL"),
	demo("mock6", "Mobile Developer (React Native)", "AppWorks", "Remote",
		"Build cross-platform mobile apps using React Native. Work with iOS and Android platforms, integrate REST APIs.",
		95000, 130000, listing.JobTypeRemote, "React Native", "iOS", "Android", "JavaScript"),
	demo("mock7", "Software Engineer II", "Enterprise Solutions", "Seattle, WA",
		"Work on distributed backend systems with Java/Spring Boot. Collaborate with cross-functional teams on high-impact products.",
		130000, 170000, listing.JobTypeFullTime, "Java", "Spring Boot", "Microservices", "AWS"),
	demo("mock8", "UI/UX Designer & Developer", "DesignFirst Agency", "Los Angeles, CA",
		"Bridge design and development. Create stunning interfaces in Figma and implement them with React. Strong CSS and animation skills.",
		90000, 120000, listing.JobTypeFullTime, "Figma", "React", "CSS", "UI/UX"),
}

func demo(id, title, company, location, description string, minSalary, maxSalary int, jobType listing.JobType, tags ...string) listing.Listing {
	return listing.Listing{
		ID:          id,
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		ApplyURL:    listing.DefaultApplyURL,
		Salary:      listing.Salary{Min: minSalary, Max: maxSalary, Currency: listing.DefaultCurrency},
		JobType:     jobType,
		Tags:        tags,
		Source:      listing.SourceDemo,
		PostedAt:    catalogLoadedAt,
	}
}

// Catalog returns a copy of the local catalog in declaration order.
func Catalog() []listing.Listing {
	out := make([]listing.Listing, len(demoCatalog))
	for i, l := range demoCatalog {
		out[i] = l.Clone()
	}
	return out
}
