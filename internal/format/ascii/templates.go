package ascii

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
	do "github.com/samber/do/v2"
)

const (
	noneString       = "None"
	boxWidth         = 100
	boxTitlePadding  = 5
	boxBottomPadding = 2
)

var (
	//go:embed cards.tmpl
	cardsTemplate string

	//go:embed stats.tmpl
	statsTemplate string
)

// CardsData holds data for user card templates.
type CardsData struct {
	Page      int
	Seed      string
	Offset    int
	Users     []domain.User
	Timestamp time.Time
}

// StatsData holds data for cache stats templates.
type StatsData struct {
	Stats     domain.CacheStats
	Timestamp time.Time
}

// Formatter renders domain values as terminal text.
type Formatter struct {
	cards *template.Template
	stats *template.Template
}

// NewFormatter creates a new formatter (for DI).
func NewFormatter(_ do.Injector) (*Formatter, error) {
	return New()
}

// New parses the embedded templates.
func New() (*Formatter, error) {
	cards, err := template.New("cards").Funcs(templateFuncs()).Parse(cardsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	stats, err := template.New("stats").Funcs(templateFuncs()).Parse(statsTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Formatter{cards: cards, stats: stats}, nil
}

// FormatPage formats one page of users. Cards are numbered from the start of the page.
func (f *Formatter) FormatPage(rs *domain.ResultSet) (string, error) {
	offset := (rs.Info.Page-1)*rs.Info.Results + 1
	if rs.Info.Page <= 0 || rs.Info.Results <= 0 {
		offset = 1
	}

	return f.FormatCards(rs.Info.Page, offset, rs.Info.Seed, rs.Results)
}

// FormatCards formats users as cards numbered from offset.
func (f *Formatter) FormatCards(page, offset int, seed string, users []domain.User) (string, error) {
	return execute(f.cards, CardsData{
		Page:      page,
		Seed:      seed,
		Offset:    offset,
		Users:     users,
		Timestamp: time.Now(),
	})
}

// FormatStats formats cache statistics.
func (f *Formatter) FormatStats(stats domain.CacheStats) (string, error) {
	return execute(f.stats, StatsData{
		Stats:     stats,
		Timestamp: time.Now(),
	})
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":      formatTime,
		"formatBoxTitle":  formatBoxTitle,
		"formatBoxBottom": formatBoxBottom,
		"formatLocation":  formatLocation,
		"orNone":          orNone,
		"bold": func(text string) string {
			return "\033[1m" + text + "\033[0m"
		},
		"add": func(a, b int) int {
			return a + b
		},
		"hitRatio": hitRatio,
	}
}

func formatBoxTitle(title string) string {
	titleMax := boxWidth - boxTitlePadding // space for ┌─, ─┐, and spaces

	// Strip ANSI escape codes for length calculation
	cleanTitle := strings.ReplaceAll(title, "\033[1m", "")
	cleanTitle = strings.ReplaceAll(cleanTitle, "\033[0m", "")

	n := len([]rune(cleanTitle))
	if n > titleMax {
		n = titleMax
	}

	dashCount := max(boxWidth-n-boxTitlePadding, 0)

	return "┌─ " + title + " " + strings.Repeat("─", dashCount) + "┐"
}

func formatBoxBottom() string {
	return "└" + strings.Repeat("─", boxWidth-boxBottomPadding) + "┘"
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func formatLocation(l domain.Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	if len(parts) == 0 {
		return noneString
	}

	return strings.Join(parts, ", ")
}

func orNone(s string) string {
	if s == "" {
		return noneString
	}

	return s
}

func hitRatio(stats domain.CacheStats) string {
	total := stats.Hits + stats.Misses
	if total == 0 {
		return "n/a"
	}

	return fmt.Sprintf("%.1f%%", float64(stats.Hits)*100/float64(total))
}
