package services

import (
	"fmt"
	"io"
	"strings"

	"hygiene-analyzer/models"
	"hygiene-analyzer/utils"
)

// Printer renders a report as a coloured console summary.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Print(r *models.Report) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)
	w := p.out

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🍽  FOOD HYGIENE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total businesses : \033[1m%s\033[0m\n", utils.FormatInt(r.TotalBusinesses))
	fmt.Fprintf(w, "  Average rating   : \033[1;32m%s\033[0m\n", r.AverageRating)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Ratings Distribution\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.RatingsDistribution.Len() == 0 {
		fmt.Fprintf(w, "  No rating data available\n")
	}
	for _, k := range r.RatingsDistribution.Keys() {
		n, _ := r.RatingsDistribution.Get(k)
		fmt.Fprintf(w, "  %-8s %s\n", k, utils.FormatInt(n))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top %d Business Types\033[0m\n", len(r.TopBusinessTypes))
	fmt.Fprintf(w, "  %s\n", thin)
	for i, item := range r.TopBusinessTypes {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-44s %s\n", i+1, utils.Truncate(item.Type, 42), utils.FormatInt(item.Count))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Most Recent Five-Star Businesses\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRatedBusinesses) == 0 {
		fmt.Fprintf(w, "  No five-star businesses found\n")
	}
	for i, b := range r.TopRatedBusinesses {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-36s %s\n", i+1, utils.Truncate(b.Name, 34), b.RatingDate)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Authorities\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, in := range r.AuthorityInsights {
		fmt.Fprintf(w, "  %-30s avg %-5s  5★ %5.1f%%  (%s)\n",
			utils.Truncate(in.Authority, 28), in.AverageRating, in.FiveStarPercentage, utils.FormatInt(in.TotalBusinesses))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Most Improved Authority\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.MostImprovedAuthority.HasData() {
		fmt.Fprintf(w, "  %s (%+d five-star)\n", r.MostImprovedAuthority.Name, r.MostImprovedAuthority.IncreaseInFiveStarCount)
	} else {
		fmt.Fprintf(w, "  No data\n")
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}
