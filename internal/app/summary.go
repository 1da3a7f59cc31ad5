package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/okian/contactreport/internal/domain/aggregate"
)

const summaryTitle = "Average time between contacts by age (seconds)"

// WriteSummary renders the age/gap rows as a bordered console table.
func WriteSummary(w io.Writer, gaps []aggregate.AgeAverageGap) error {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers("age", "avg_time_between_contacts")
	for _, g := range gaps {
		t.Row(strconv.Itoa(g.Age), formatMean(g))
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", summaryTitle, t.Render())
	return err
}

func formatMean(g aggregate.AgeAverageGap) string {
	if !g.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(g.Mean, 'f', 1, 64)
}
