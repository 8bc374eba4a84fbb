package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-copilot/internal/jobs"
	"github.com/jonathan/job-copilot/internal/listing"
	"github.com/jonathan/job-copilot/internal/observability"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job listings",
	Long:  "Search Adzuna when credentials are configured, or the built-in catalog otherwise.",
	RunE:  runSearch,
}

var (
	searchText     string
	searchLocation string
	searchPage     int
	searchLimit    int
	searchType     string
	searchJSON     bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchText, "q", "q", "software engineer", "Search text")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Location filter")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Page number (1-based)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", jobs.DefaultPageSize, "Results per page")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Job type (full-time, part-time, contract, internship, remote)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print JSON instead of a summary")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var jobType listing.JobType
	if searchType != "" {
		t, ok := listing.ParseJobType(searchType)
		if !ok {
			return fmt.Errorf("unknown job type %q", searchType)
		}
		jobType = t
	}
	if searchPage < 1 || searchLimit < 1 {
		return fmt.Errorf("--page and --limit must be positive")
	}

	result := newAggregator(cfg, logger).Search(cmd.Context(), jobs.Query{
		Text:     searchText,
		Location: searchLocation,
		Page:     searchPage,
		PageSize: searchLimit,
		Type:     jobType,
	})

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(out).PrintSearchResult(&result)
	return nil
}
