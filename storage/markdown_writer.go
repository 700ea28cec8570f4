package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"

	"hygiene-analyzer/models"
)

// MarkdownWriter renders a run as a Markdown document.
type MarkdownWriter struct {
	path string
}

func NewMarkdownWriter(path string) *MarkdownWriter {
	return &MarkdownWriter{path: path}
}

func (m *MarkdownWriter) WriteRun(run *models.Run) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("markdown: create output dir: %w", err)
	}
	f, err := os.Create(m.path)
	if err != nil {
		return fmt.Errorf("markdown: create file %q: %w", m.path, err)
	}
	if err := RenderMarkdown(f, run); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// RenderMarkdown writes the document to out.
func RenderMarkdown(out io.Writer, run *models.Run) error {
	r := run.Report
	if r == nil {
		r = &models.Report{}
	}
	md := markdown.NewMarkdown(out)

	md.H1("Food Hygiene Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + run.ID + "`"},
			{"Generated", run.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Total Businesses", strconv.Itoa(r.TotalBusinesses)},
			{"Average Rating", r.AverageRating.String()},
		},
	})
	md.PlainText("")

	if len(run.Sources) > 0 {
		md.H2("Sources")
		md.PlainText("")
		md.BulletList(run.Sources...)
		md.PlainText("")
	}

	md.H2("Ratings Distribution")
	md.PlainText("")
	dist := make([][]string, 0, r.RatingsDistribution.Len())
	for _, k := range r.RatingsDistribution.Keys() {
		dist = append(dist, []string{k, strconv.Itoa(countOf(r.RatingsDistribution, k))})
	}
	table(md, []string{"Rating", "Count"}, dist, "No ratings.")

	md.H2("Top Business Types")
	md.PlainText("")
	types := make([][]string, 0, len(r.TopBusinessTypes))
	for _, item := range r.TopBusinessTypes {
		types = append(types, []string{item.Type, strconv.Itoa(item.Count)})
	}
	table(md, []string{"Business Type", "Count"}, types, "No business types.")

	md.H2("Top Five-Star Businesses")
	md.PlainText("")
	top := make([][]string, 0, len(r.TopRatedBusinesses))
	for _, b := range r.TopRatedBusinesses {
		top = append(top, []string{b.Name, b.Address, b.RatingDate, b.Authority})
	}
	table(md, []string{"Name", "Address", "Rating Date", "Authority"}, top, "No five-star businesses.")

	md.H2("Authorities")
	md.PlainText("")
	auth := make([][]string, 0, len(r.AuthorityInsights))
	for _, in := range r.AuthorityInsights {
		auth = append(auth, []string{
			in.Authority,
			in.AverageRating.String(),
			strconv.Itoa(in.TotalBusinesses),
			strconv.FormatFloat(in.FiveStarPercentage, 'f', -1, 64) + "%",
		})
	}
	table(md, authorityHeader, auth, "No authorities.")

	md.H2("Most Improved Authority")
	md.PlainText("")
	if r.MostImprovedAuthority.HasData() {
		md.PlainText(fmt.Sprintf("**%s** (%+d five-star businesses)",
			r.MostImprovedAuthority.Name, r.MostImprovedAuthority.IncreaseInFiveStarCount))
	} else {
		md.PlainText("No authorities to compare.")
	}

	return md.Build()
}

func table(md *markdown.Markdown, header []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		md.PlainText(empty)
	} else {
		md.Table(markdown.TableSet{Header: header, Rows: rows})
	}
	md.PlainText("")
}
