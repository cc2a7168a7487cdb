package roster

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/errors"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	SeekerEID string
	Path      string // optional, default: ~/.studymatch/exports/match-<eid>-<timestamp>.md
	Limit     int    // ranked candidates to include, default: 10, max: 100
	HTML      bool   // render the Markdown to HTML (forces .html default path)
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Path        string `json:"path"`
	Count       int    `json:"count"`
	GeneratedAt int64  `json:"generated_at"`
}

// Report writes a ranked match report for the seeker as Markdown, or as HTML
// when requested.
func Report(database *sql.DB, cfg *config.Config, input ReportInput) (*ReportOutput, error) {
	seekerEID := strings.TrimSpace(input.SeekerEID)
	if seekerEID == "" {
		return nil, errors.NewInvalidRequest("seeker eid is required")
	}
	limit := clampLimit(input.Limit, DefaultMatchLimit, MaxMatchLimit)

	now := time.Now()

	reportPath := input.Path
	if reportPath == "" {
		var err error
		reportPath, err = defaultReportPath(seekerEID, input.HTML, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too: the EID feeds the filename.
	if err := ValidatePath(reportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}
	if input.HTML && strings.ToLower(filepath.Ext(reportPath)) != ".html" {
		return nil, errors.NewInvalidRequest("html output requires a .html path")
	}

	matches, err := FindMatches(database, FindMatchesInput{SeekerEID: seekerEID, Limit: limit})
	if err != nil {
		return nil, err
	}
	seeker, err := Fetch(database, FetchInput{EID: seekerEID})
	if err != nil {
		return nil, err
	}

	md := renderReportMarkdown(seeker, matches, now)

	content := []byte(md)
	if input.HTML {
		content, err = renderReportHTML(seeker, md)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	file, err := openFileNoFollow(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := err.(*errors.MatchError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to create report file: %w", err))
	}
	defer file.Close()

	if _, err := file.Write(content); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write report: %w", err))
	}

	return &ReportOutput{
		Path:        reportPath,
		Count:       len(matches.Matches),
		GeneratedAt: now.Unix(),
	}, nil
}

// defaultReportPath builds ~/.studymatch/exports/match-<eid>-<timestamp>.<ext>.
func defaultReportPath(seekerEID string, html bool, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to create exports directory: %w", err))
	}
	ext := ".md"
	if html {
		ext = ".html"
	}
	name := fmt.Sprintf("match-%s-%s%s",
		SanitizeForFilename(seekerEID), now.UTC().Format("20060102-150405"), ext)
	return filepath.Join(dir, name), nil
}

// renderReportMarkdown formats the ranked candidates as a Markdown document.
func renderReportMarkdown(seeker *FetchOutput, matches *FindMatchesOutput, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study partner report: %s (%s)\n\n", seeker.Name, seeker.EID)
	fmt.Fprintf(&b, "Generated %s. %d candidate(s) ranked.\n\n",
		now.UTC().Format("2006-01-02 15:04 UTC"), matches.Total)
	if seeker.Email != "" {
		fmt.Fprintf(&b, "Seeker contact: %s\n\n", seeker.Email)
	}

	if len(matches.Matches) == 0 {
		b.WriteString("No candidates available. Add more students to the roster and rerun.\n")
		return b.String()
	}

	for i, m := range matches.Matches {
		fmt.Fprintf(&b, "## %d. %s (%s) — score %d\n\n", i+1, m.Name, m.EID, m.Score)
		if len(m.SharedCourses) > 0 {
			fmt.Fprintf(&b, "- Shared courses: %s\n", strings.Join(m.SharedCourses, ", "))
		}
		if len(m.SharedAvailability) > 0 {
			fmt.Fprintf(&b, "- Mutual meeting times: %s\n", strings.Join(m.SharedAvailability, ", "))
		} else {
			b.WriteString("- No mutual meeting times on record; agree on a slot directly\n")
		}
		if m.Email != "" {
			fmt.Fprintf(&b, "- Contact: %s\n", m.Email)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderReportHTML converts the Markdown report to a standalone HTML page.
func renderReportHTML(seeker *FetchOutput, md string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return nil, err
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Study partner report: %s</title>\n</head>\n<body>\n",
		htmlEscape(seeker.EID))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
