package library

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reelsync/internal/catalog"
)

// Row is one catalog title in a reconciliation report.
type Row struct {
	PageID  string `json:"page_id"`
	Title   string `json:"title"`
	Display string `json:"display_title"`
	Found   bool   `json:"found"`
	File    string `json:"file,omitempty"`
	Paths
}

// Report is the outcome of a reconciliation.
type Report struct {
	Rows    []Row `json:"rows"`
	Files   int   `json:"files_scanned"`
	Found   int   `json:"found"`
	Missing int   `json:"missing"`
}

// Reconcile checks every titled catalog entry against the scanned files.
// Entries without a title are not reported.
func Reconcile(entries []catalog.Entry, files []File, layout Layout) Report {
	titler := cases.Title(language.Und, cases.NoLower)
	report := Report{Files: len(files)}
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		row := Row{PageID: entry.ID, Title: title, Display: titler.String(title)}
		if file, ok := FindMatch(title, files); ok {
			row.Found = true
			row.File = file.Path
			row.Paths = layout.BuildPaths(file)
			report.Found++
		} else {
			report.Missing++
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// MissingTitles lists the titles not found on the share, in catalog order.
func (r Report) MissingTitles() []string {
	var out []string
	for _, row := range r.Rows {
		if !row.Found {
			out = append(out, row.Title)
		}
	}
	return out
}
