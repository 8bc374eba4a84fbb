package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-copilot/internal/document"
	"github.com/jonathan/job-copilot/internal/observability"
	"github.com/jonathan/job-copilot/internal/resume"
	"github.com/jonathan/job-copilot/internal/server"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume FILE...",
	Short: "Parse resume documents into profile fragments",
	Long: `Extract the text of each PDF, DOCX or DOC file and parse it into a
profile fragment. Files are processed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParseResume,
}

var (
	parseConcurrency int
	parseJSON        bool
)

func init() {
	parseResumeCmd.Flags().IntVar(&parseConcurrency, "concurrency", 4, "Maximum files parsed at once")
	parseResumeCmd.Flags().BoolVar(&parseJSON, "json", false, "Print JSON instead of a summary")
	rootCmd.AddCommand(parseResumeCmd)
}

// parsedFile is the result for one input file.
type parsedFile struct {
	File     string                        `json:"file"`
	Fragment *resume.ParsedProfileFragment `json:"fragment"`
}

// mimeTypeForPath maps a file extension to the MIME type the extractor
// dispatches on.
func mimeTypeForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return document.MIMEPDF, nil
	case ".docx":
		return document.MIMEDocx, nil
	case ".doc":
		return document.MIMEDoc, nil
	}
	return "", &document.UnsupportedFormatError{MIMEType: filepath.Ext(path)}
}

func runParseResume(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	pipeline := resume.NewPipeline(document.NewExtractor(),
		resume.NewParser(client, resume.Options{Timeout: llmConfig(cfg).CallTimeout()}))

	results, err := parseFiles(ctx, pipeline, args, parseConcurrency, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printer := observability.NewPrinter(out)
	for _, r := range results {
		printer.PrintFragment(r.File, r.Fragment)
	}
	return nil
}

// parseFiles parses paths with at most concurrency files in flight. Results
// keep the order of paths; the first failure cancels the rest.
func parseFiles(ctx context.Context, parser server.DocumentParser, paths []string, concurrency int, maxBytes int64) ([]parsedFile, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]parsedFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range paths {
		g.Go(func() error {
			mimeType, err := mimeTypeForPath(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			if err := document.CheckUpload(info.Size(), mimeType, maxBytes); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			fragment, err := parser.ParseDocument(ctx, data, mimeType)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			results[i] = parsedFile{File: filepath.Base(path), Fragment: fragment}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
