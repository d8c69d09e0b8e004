package shopping

import (
	"fmt"
	"sort"
	"strings"

	"foodgram/domain"
)

const (
	ReportHeader      = "Список покупок:"
	ReportFilename    = "shopping_list.txt"
	ReportContentType = "text/plain; charset=utf-8"
)

type groupKey struct {
	name string
	unit string
}

// Aggregate merges lines that share both ingredient name and measurement
// unit and sums their quantities. The result is sorted by name, then unit.
func Aggregate(lines []CartLine) []domain.ReportLine {
	totals := make(map[groupKey]int64, len(lines))
	for _, l := range lines {
		totals[groupKey{name: l.Name, unit: l.MeasurementUnit}] += int64(l.Quantity)
	}

	report := make([]domain.ReportLine, 0, len(totals))
	for k, total := range totals {
		report = append(report, domain.ReportLine{
			Name:            k.name,
			Quantity:        total,
			MeasurementUnit: k.unit,
		})
	}
	sort.Slice(report, func(i, j int) bool {
		if report[i].Name != report[j].Name {
			return report[i].Name < report[j].Name
		}
		return report[i].MeasurementUnit < report[j].MeasurementUnit
	})
	return report
}

// Render keeps the order of lines as given.
func Render(lines []domain.ReportLine) string {
	entries := make([]string, len(lines))
	for i, l := range lines {
		entries[i] = fmt.Sprintf("%s - %d %s", l.Name, l.Quantity, l.MeasurementUnit)
	}
	return ReportHeader + "\n" + strings.Join(entries, ",\n")
}
