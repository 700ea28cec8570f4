package services

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"hygiene-analyzer/models"
)

// AuthorityExporter writes the authority insights table somewhere and
// returns where it went.
type AuthorityExporter interface {
	ExportAuthorities(r *models.Report) (string, error)
}

const menuText = `
🍽 Food Hygiene Analyzer 🍽

Choose an option:
  1. Show total number of businesses
  2. Show average rating
  3. Show ratings distribution
  4. Show top business types
  5. Show top five-star businesses
  6. Show authority-wise insights
  7. Show most improved authority
  8. Export authority insights to CSV
  0. Exit
> `

// Menu is the interactive text front end over a finished report.
type Menu struct {
	report   *models.Report
	exporter AuthorityExporter
	in       *bufio.Scanner
	out      io.Writer
}

func NewMenu(report *models.Report, exporter AuthorityExporter, in io.Reader, out io.Writer) *Menu {
	return &Menu{report: report, exporter: exporter, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user picks 0 or input ends.
func (m *Menu) Run() error {
	for {
		fmt.Fprint(m.out, menuText)
		if !m.in.Scan() {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}
		if exit := m.Handle(strings.TrimSpace(m.in.Text())); exit {
			return nil
		}
	}
}

// Handle executes one menu choice and reports whether to exit.
func (m *Menu) Handle(choice string) bool {
	r := m.report
	w := m.out

	switch choice {
	case "1":
		fmt.Fprintf(w, "Total businesses: %d\n", r.TotalBusinesses)
	case "2":
		fmt.Fprintf(w, "Average rating: %s\n", r.AverageRating)
	case "3":
		fmt.Fprintln(w, "Ratings Distribution:")
		for _, k := range r.RatingsDistribution.Keys() {
			n, _ := r.RatingsDistribution.Get(k)
			fmt.Fprintf(w, "%s: %d\n", k, n)
		}
	case "4":
		fmt.Fprintf(w, "Top %d Business Types:\n", len(r.TopBusinessTypes))
		for _, item := range r.TopBusinessTypes {
			fmt.Fprintf(w, "%s: %d\n", item.Type, item.Count)
		}
	case "5":
		fmt.Fprintf(w, "Top %d Five-Star Businesses:\n", len(r.TopRatedBusinesses))
		for i, b := range r.TopRatedBusinesses {
			fmt.Fprintf(w, "%d. %s (%s) - %s\n", i+1, b.Name, b.Authority, b.RatingDate)
		}
	case "6":
		for _, in := range r.AuthorityInsights {
			fmt.Fprintf(w, "%s: Avg %s, 5-Star: %g%%\n", in.Authority, in.AverageRating, in.FiveStarPercentage)
		}
	case "7":
		most := r.MostImprovedAuthority
		if !most.HasData() {
			fmt.Fprintln(w, "Most Improved Authority: no data")
			break
		}
		fmt.Fprintf(w, "Most Improved Authority: %s\n5-Star Rating Increase: %d\n",
			most.Name, most.IncreaseInFiveStarCount)
	case "8":
		if m.exporter == nil {
			fmt.Fprintln(w, "CSV export is not configured")
			break
		}
		path, err := m.exporter.ExportAuthorities(r)
		if err != nil {
			fmt.Fprintf(w, "CSV export failed: %v\n", err)
			break
		}
		fmt.Fprintf(w, "CSV written to %s\n", path)
	case "0":
		return true
	default:
		fmt.Fprintln(w, "Invalid choice. Try again.")
	}
	return false
}
