package analyzer

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

// pageProfile is the handful of numbers competitor comparisons use.
type pageProfile struct {
	URL           string
	Title         string
	WordCount     int
	H2Count       int
	Images        int
	ImagesWithAlt int
	Schemas       int
}

func profile(url string, doc *extract.Document) pageProfile {
	total, withAlt := imageStats(doc)
	return pageProfile{
		URL:           url,
		Title:         doc.Meta().Title,
		WordCount:     extract.WordCount(doc.MainText()),
		H2Count:       len(doc.Headings(2)),
		Images:        total,
		ImagesWithAlt: withAlt,
		Schemas:       len(doc.StructuredData()),
	}
}

// Competitor compares the page with pre-fetched competitor pages, or
// scores competitive readiness when none were given or none loaded.
type Competitor struct{}

func (Competitor) Category() string { return CategoryCompetitor }

func (Competitor) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	if in.Doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	client := profile(in.Page.URL, in.Doc)
	var c checklist

	if len(in.Competitors) == 0 {
		c.add("Competitor URLs provided", false, 0.5, info,
			"No competitor URLs provided for comparison",
			"Provide 2-3 competitor URLs to enable head-to-head comparison. "+
				"Search your main keywords and pick the top-ranking local businesses.")
		readinessChecks(&c, client)
		return c.result(), nil
	}

	var rivals []pageProfile
	for i, r := range in.Competitors {
		var doc *extract.Document
		if i < len(in.CompetitorDocs) {
			doc = in.CompetitorDocs[i]
		}
		if r.Ok() && doc != nil {
			rivals = append(rivals, profile(r.URL, doc))
		}
	}
	if len(rivals) == 0 {
		c.add("Competitor pages accessible", false, 0.5, info,
			"Could not access any competitor pages",
			"Verify competitor URLs are accessible. Try different competitor pages.")
		readinessChecks(&c, client)
		return c.result(), nil
	}

	n := float64(len(rivals))
	var sumWords, sumSchemas, sumTitle, sumH2 float64
	var altRatios []float64
	for _, r := range rivals {
		sumWords += float64(r.WordCount)
		sumSchemas += float64(r.Schemas)
		sumTitle += float64(utf8.RuneCountInString(r.Title))
		sumH2 += float64(r.H2Count)
		if r.Images > 0 {
			altRatios = append(altRatios, float64(r.ImagesWithAlt)/float64(r.Images))
		}
	}

	avgWords := sumWords / n
	wordsOK := float64(client.WordCount) >= avgWords*0.8
	c.add("Content depth vs competitors", wordsOK, 0.8, warning,
		fmt.Sprintf("Your page: ~%d words | Competitor avg: ~%d words", client.WordCount, int(avgWords)),
		fmt.Sprintf("Competitors average ~%d words. Your page has ~%d. Add more comprehensive, helpful content.",
			int(avgWords), client.WordCount))

	avgSchemas := sumSchemas / n
	c.add("Schema markup vs competitors", float64(client.Schemas) >= avgSchemas, 0.7, warning,
		fmt.Sprintf("Your schemas: %d | Competitor avg: %.1f", client.Schemas, avgSchemas),
		"Competitors have more structured data. Add relevant schema types "+
			"to match or exceed their markup.")

	titleLen := utf8.RuneCountInString(client.Title)
	c.add("Title optimization vs competitors", titleLen >= 30 && titleLen <= 65, 0.6, warning,
		fmt.Sprintf("Your title: %d chars | Competitor avg: %d chars", titleLen, int(sumTitle/n)),
		"Optimize your title tag to 30-65 characters with primary keyword.")

	clientAlt := 1.0
	if client.Images > 0 {
		clientAlt = float64(client.ImagesWithAlt) / float64(client.Images)
	}
	avgAlt := 0.0
	if len(altRatios) > 0 {
		for _, r := range altRatios {
			avgAlt += r
		}
		avgAlt /= float64(len(altRatios))
	}
	c.add("Image optimization vs competitors", clientAlt >= avgAlt, 0.5, info,
		fmt.Sprintf("Your alt text coverage: %s | Competitor avg: %s", percent(clientAlt), percent(avgAlt)),
		"Competitors have better image alt text coverage. Add descriptive alt text to all images.")

	avgH2 := sumH2 / n
	c.add("Content structure vs competitors", float64(client.H2Count) >= avgH2*0.7, 0.5, info,
		fmt.Sprintf("Your H2 headings: %d | Competitor avg: %.1f", client.H2Count, avgH2),
		"Competitors use more structured headings. Add H2 sections to better "+
			"organize your content and target more keywords.")

	return c.result(), nil
}

func readinessChecks(c *checklist, p pageProfile) {
	c.add("Content depth competitive-ready", p.WordCount >= 600, 0.7, warning,
		fmt.Sprintf("~%d words (600+ recommended for competitive pages)", p.WordCount),
		"Aim for 600+ words of content to compete in local search results.")
	c.add("Schema markup present", p.Schemas >= 2, 0.6, warning,
		fmt.Sprintf("%d schema objects (2+ recommended)", p.Schemas),
		"Add at least LocalBusiness and WebSite schema to be competitive.")
	c.add("Heading structure depth", p.H2Count >= 3, 0.5, info,
		fmt.Sprintf("%d H2 headings (3+ recommended for competitive pages)", p.H2Count),
		"Use 3+ H2 headings to structure content by topic. Target different keyword variations.")
}
