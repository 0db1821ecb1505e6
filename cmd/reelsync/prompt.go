package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"reelsync/internal/catalog"
	"reelsync/internal/enrichment"
	"reelsync/internal/identification"
)

const (
	overviewLimit = 240
	maxAttempts   = 5
)

// terminalPrompter asks the operator to pick among ranked candidates.
type terminalPrompter struct {
	in       *bufio.Reader
	out      io.Writer
	provider identification.Provider
}

func newTerminalPrompter(in io.Reader, out io.Writer, provider identification.Provider) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewReader(in), out: out, provider: provider}
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *terminalPrompter) Prompt(ctx context.Context, req enrichment.ChoiceRequest) (enrichment.ChoiceResult, error) {
	fmt.Fprintf(p.out, "\n🎬 %s: %d candidates (%s)\n", req.Entry.Title, len(req.Ranked), req.Reason)
	for i, c := range req.Ranked {
		p.printOption(ctx, i, c)
	}

	for range maxAttempts {
		if err := ctx.Err(); err != nil {
			return enrichment.ChoiceResult{}, err
		}
		fmt.Fprintf(p.out, "Choice [1-%d, e = TMDB/IMDb link, c = cancel] (default 1): ", len(req.Ranked))
		line, err := p.readLine()
		if err != nil {
			return enrichment.ChoiceResult{Kind: enrichment.ChoiceCancelled}, nil
		}
		result, ok := parseChoice(line, len(req.Ranked))
		if !ok {
			fmt.Fprintln(p.out, "Invalid choice.")
			continue
		}
		if result.Kind == enrichment.ChoiceExplicit {
			fmt.Fprint(p.out, "TMDB or IMDb link: ")
			ref, err := p.readLine()
			if err != nil || ref == "" {
				return enrichment.ChoiceResult{Kind: enrichment.ChoiceCancelled}, nil
			}
			result.Reference = ref
		}
		return result, nil
	}
	return enrichment.ChoiceResult{Kind: enrichment.ChoiceCancelled}, nil
}

func (p *terminalPrompter) printOption(ctx context.Context, idx int, c identification.ScoredCandidate) {
	director := ""
	if p.provider != nil {
		director = catalog.Director(p.provider.Credits(ctx, c.ID))
	}
	fmt.Fprintln(p.out, formatOption(idx, c.Candidate, director))
}

func (p *terminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parseChoice maps operator input to a result. Empty input picks the first
// candidate.
func parseChoice(input string, count int) (enrichment.ChoiceResult, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "":
		return enrichment.ChoiceResult{Kind: enrichment.ChoiceSelected, Index: 0}, count > 0
	case "e":
		return enrichment.ChoiceResult{Kind: enrichment.ChoiceExplicit}, true
	case "c", "0", "q":
		return enrichment.ChoiceResult{Kind: enrichment.ChoiceCancelled}, true
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > count {
		return enrichment.ChoiceResult{}, false
	}
	return enrichment.ChoiceResult{Kind: enrichment.ChoiceSelected, Index: n - 1}, true
}

func formatOption(idx int, c catalog.Candidate, director string) string {
	year := "?"
	if y := c.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	if director == "" {
		director = "unknown"
	}
	label := fmt.Sprintf("  [%d] %s (%s)", idx+1, c.Title, year)
	if idx == 0 {
		label += "  ← suggested"
	}
	var b strings.Builder
	b.WriteString(label)
	fmt.Fprintf(&b, "\n      🎥 %s", director)
	fmt.Fprintf(&b, "\n      ⭐ %.1f/10 · %d votes", c.VoteAverage, c.VoteCount)
	if overview := truncateOverview(c.Overview); overview != "" {
		fmt.Fprintf(&b, "\n      %s", overview)
	}
	return b.String()
}

// truncateOverview shortens long overviews on a word boundary.
func truncateOverview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= overviewLimit {
		return text
	}
	cut := string(runes[:overviewLimit-3])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
