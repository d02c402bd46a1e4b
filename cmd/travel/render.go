package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/pkordes/travel-aggregator/internal/aggregator"
	"github.com/pkordes/travel-aggregator/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D9FF"))
	labelStyle = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("#8A8A8A"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F93939"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func renderError(err error) string {
	return errorStyle.Render("Error") + " " + err.Error()
}

func renderSummary(s aggregator.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Country))
	b.WriteString("\n")

	rows := [][2]string{
		{"Region", s.Region},
		{"Capital", s.Capital},
		{"Population", formatCount(s.Population)},
		{"Currency", s.Currencies},
		{"Local time", s.LocalTime},
		{"Temperature", fmt.Sprintf("%.1f°C", s.Temperature)},
		{"Weather", capitalize(s.Description)},
		{"Coordinates", fmt.Sprintf("%.4f, %.4f", s.Lat, s.Lon)},
	}
	if details, ok := s.CapitalDetails.(map[string]any); ok {
		rows = append(rows,
			[2]string{"Capital data", ""},
			[2]string{"  Region", detailRegion(details)},
			[2]string{"  Elevation", detailElevation(details)},
		)
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	if s.Record != nil {
		b.WriteString(dimStyle.Render("saved as " + s.Record.ID.String()))
	} else {
		b.WriteString(dimStyle.Render("not saved"))
	}
	return b.String()
}

func renderRecords(records []domain.TravelRecord) string {
	if len(records) == 0 {
		return dimStyle.Render("no records")
	}
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s, %s  %s",
			dimStyle.Render(r.StoredAt.Format("2006-01-02 15:04:05")),
			titleStyle.Render(r.Country),
			r.Capital,
			orNA(r.Population, formatCount),
			orNA(r.Temperature, func(t float64) string { return fmt.Sprintf("%.1f°C", t) }),
		)
		if r.WeatherDescription != "" {
			b.WriteString(" " + r.WeatherDescription)
		}
	}
	return b.String()
}

// orNA formats a stored measurement, which is nil when the client sent null.
func orNA(f *float64, format func(float64) string) string {
	if f == nil {
		return "N/A"
	}
	return format(*f)
}

// formatCount renders an integral count with thousands separators.
func formatCount(f float64) string {
	s := fmt.Sprintf("%.0f", f)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func detailRegion(details map[string]any) string {
	if region, ok := details["region"].(string); ok && region != "" {
		return region
	}
	return "N/A"
}

// detailElevation treats a missing or zero elevation as unknown.
func detailElevation(details map[string]any) string {
	if m, ok := details["elevationMeters"].(float64); ok && m != 0 {
		return strconv.FormatFloat(m, 'f', -1, 64) + "m"
	}
	return "N/A"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
