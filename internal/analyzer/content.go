package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	authorSignals = []string{"written by", "author:", "by ", "posted by", "reviewed by"}
	trustKeywords = []string{
		"certified", "licensed", "insured", "years of experience",
		"award", "accredited", "bbb", "member of",
		"guarantee", "warranty", "trusted",
	}
	ctaKeywords = []string{
		"call", "book", "schedule", "get a quote", "free estimate",
		"contact us", "get started", "request", "sign up",
	}
	freshnessPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}\b`),
		regexp.MustCompile(`updated`),
		regexp.MustCompile(`modified`),
		regexp.MustCompile(`published`),
	}
)

// Content checks depth, structure and E-E-A-T signals of the main content.
type Content struct{}

func (Content) Category() string { return CategoryContent }

func (Content) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	text := doc.MainText("aside")
	words := strings.Fields(text)
	wc := len(words)
	lower := strings.ToLower(text)
	schemas := doc.StructuredData()

	var c checklist

	c.add("Content depth (500+ words)", wc >= 500, 0.8, warning,
		fmt.Sprintf("~%d words of content", wc),
		fmt.Sprintf("Page has only ~%d words. For competitive local keywords, "+
			"aim for 500-1500 words of helpful, original content.", wc))

	c.add("Not thin content", wc >= 200, 0.9, critical,
		pick(wc >= 200, fmt.Sprintf("~%d words", wc), fmt.Sprintf("Thin content detected: only ~%d words", wc)),
		"This page has very little content. Add substantial, helpful information for visitors.")

	density := 0.0
	if wc > 50 {
		density = topKeywordDensity(words)
	}
	c.add("No keyword stuffing", density < 4.0, 0.7, warning,
		fmt.Sprintf("Top keyword density: %.1f%%", density),
		fmt.Sprintf("Keyword density is high (%.1f%%). Write naturally; Google penalizes over-optimization.", density))

	substantial := 0
	for _, p := range doc.Paragraphs() {
		if utf8.RuneCountInString(p) > 40 {
			substantial++
		}
	}
	c.add("Well-structured paragraphs", substantial >= 3, 0.5, info,
		fmt.Sprintf("%d substantial paragraphs", substantial),
		"Break content into clear paragraphs with distinct topics for better readability.")

	lists := doc.Find("ul, ol").Length()
	c.add("Content formatting (lists/bullets)", lists > 0, 0.3, info,
		pick(lists > 0, fmt.Sprintf("%d lists found", lists), "No lists found in content"),
		"Use bullet points or numbered lists to make content scannable.")

	hasAuthor := containsAny(lower, authorSignals...)
	for _, s := range schemas {
		if truthy(s["author"]) {
			hasAuthor = true
			break
		}
	}
	c.add("E-E-A-T: Author attribution", hasAuthor, 0.5, info,
		pick(hasAuthor, "Author attribution found", "No author attribution detected"),
		"Add author names to content. Google's E-E-A-T guidelines value clear authorship.")

	hasAbout := hasAboutPage(in, doc)
	c.add("E-E-A-T: About page exists", hasAbout, 0.6, warning,
		pick(hasAbout, "About page found", "No About page detected"),
		"Create an About page showcasing your expertise, experience, "+
			"and credentials. This is a key E-E-A-T signal.")

	trust := countContained(lower, trustKeywords)
	c.add("E-E-A-T: Trust signals", trust >= 2, 0.6, warning,
		fmt.Sprintf("%d trust signals found", trust),
		"Add trust indicators: certifications, licenses, years in business, "+
			"industry memberships, guarantees, awards.")

	fresh := countMatching(lower, freshnessPatterns) > 0
	for _, s := range schemas {
		if truthy(s["dateModified"]) || truthy(s["datePublished"]) {
			fresh = true
			break
		}
	}
	c.add("Content freshness signals", fresh, 0.4, info,
		pick(fresh, "Freshness/date signals found", "No freshness indicators"),
		"Add 'last updated' dates to show content freshness. Keep content current.")

	ctas := countContained(lower, ctaKeywords)
	c.add("Clear call-to-action", ctas >= 1, 0.5, warning,
		pick(ctas >= 1, fmt.Sprintf("%d CTA(s) detected", ctas), "No clear call-to-action found"),
		"Add clear calls-to-action: 'Call Now', 'Get a Free Quote', "+
			"'Book an Appointment'. Guide visitors to convert.")

	return c.result(), nil
}

// topKeywordDensity returns the share, in percent, of the most frequent
// lowercased word longer than three characters.
func topKeywordDensity(words []string) float64 {
	counts := make(map[string]int)
	top := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		lw := strings.ToLower(w)
		counts[lw]++
		if counts[lw] > top {
			top = counts[lw]
		}
	}
	if top == 0 {
		return 0
	}
	return float64(top) / float64(len(words)) * 100
}

func hasAboutPage(in *Input, doc *extract.Document) bool {
	for _, p := range in.Pages {
		if strings.Contains(strings.ToLower(p.URL), "about") {
			return true
		}
	}
	for _, l := range doc.Links() {
		if strings.Contains(strings.ToLower(l.Href), "about") {
			return true
		}
	}
	return false
}
