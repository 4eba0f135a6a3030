// package formatter exports batch match reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
)

// ExportToCSV converts a batch match report to CSV format with columns:
// Title, Artist, Matched, VideoID, MatchedTitle, MatchedArtists, Duration, Error
func ExportToCSV(report *tasks.BatchSearchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Matched", "VideoID", "MatchedTitle", "MatchedArtists", "Duration", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range report.Results {
		record := []string{
			res.OriginalTitle,
			res.OriginalArtist,
			strconv.FormatBool(res.Success),
			"", "", "", "",
			res.Error,
		}
		if res.Result != nil {
			record[3] = res.Result.VideoID
			record[4] = res.Result.Title
			record[5] = res.Result.JoinedArtists()
			record[6] = res.Result.Duration
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a batch match report to Markdown with a summary
// section and per-track tables for matches and misses.
func ExportToMarkdown(report *tasks.BatchSearchResult, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Match Report"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", report.Matched))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", report.Failed))

	buf.WriteString("## Matches\n\n")
	buf.WriteString("| # | Title | Artist | Video | Duration |\n")
	buf.WriteString("|---|-------|--------|-------|----------|\n")
	for i, res := range report.Results {
		if !res.Success || res.Result == nil {
			continue
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | [%s](https://music.youtube.com/watch?v=%s) | %s |\n",
			i+1, res.Result.Title, res.Result.JoinedArtists(), res.Result.VideoID, res.Result.VideoID, res.Result.Duration))
	}

	if report.Failed > 0 {
		buf.WriteString("\n## Misses\n\n")
		for i, res := range report.Results {
			if res.Success {
				continue
			}
			buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, res.OriginalArtist, res.OriginalTitle, res.Error))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a batch match report to plain text format
func ExportToText(report *tasks.BatchSearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\nMatched: %d\nFailed: %d\n\n", report.Total, report.Matched, report.Failed))

	for i, res := range report.Results {
		if res.Success && res.Result != nil {
			buf.WriteString(fmt.Sprintf("%d. [ok] %s - %s -> %s\n", i+1, res.OriginalArtist, res.OriginalTitle, res.Result.VideoID))
		} else {
			buf.WriteString(fmt.Sprintf("%d. [--] %s - %s (%s)\n", i+1, res.OriginalArtist, res.OriginalTitle, res.Error))
		}
	}

	return buf.Bytes(), nil
}

// ToSummaryJSON generates a JSON representation of the report counts (without per-track rows)
func ToSummaryJSON(report *tasks.BatchSearchResult) ([]byte, error) {
	summary := map[string]any{
		"total":      report.Total,
		"successful": report.Matched,
		"failed":     report.Failed,
		"cancelled":  report.Cancelled,
	}
	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile  string
	SummaryFile string
}

// WriteCSVExport writes a batch match report to CSV with an accompanying summary JSON file.
//
// Creates {base}_tracks.csv and {base}_summary.json
func WriteCSVExport(report *tasks.BatchSearchResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "match_report"
	}

	csvData, err := ExportToCSV(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:  tracksFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport writes a batch match report to {filepath} in Markdown format.
//
// Defaults to match_report.md as the filename.
func WriteMarkdownExport(report *tasks.BatchSearchResult, filepath string, title string) (string, error) {
	if filepath == "" {
		filepath = "match_report.md"
	}

	mdData, err := ExportToMarkdown(report, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport writes a batch match report to plain text.
//
// Defaults to match_report.txt as the filename.
func WriteTextExport(report *tasks.BatchSearchResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = "match_report.txt"
	}

	textData, err := ExportToText(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
