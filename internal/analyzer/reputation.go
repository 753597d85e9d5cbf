package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	testimonialKeywords = []string{
		"testimonial", "review", "what our customers say",
		"what clients say", "customer stories", "client feedback",
		"hear from", "satisfied customers", "happy customer",
	}
	reviewPlatforms = []string{
		"google.com/maps", "yelp.com", "facebook.com/pg",
		"bbb.org", "trustpilot.com", "angi.com",
		"homeadvisor.com", "thumbtack.com", "houzz.com",
		"healthgrades.com", "avvo.com", "zocdoc.com",
	}
	socialProofPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+\+?\s*reviews?`),
		regexp.MustCompile(`\d+\+?\s*customers?`),
		regexp.MustCompile(`\d+\+?\s*clients?`),
		regexp.MustCompile(`\d+\+?\s*projects?`),
		regexp.MustCompile(`rated\s+\d`),
		regexp.MustCompile(`\d+\s*star`),
		regexp.MustCompile(`\d+\+?\s*years?\s*(of\s+)?experience`),
	}
	trustBadgeKeywords = []string{
		"certified", "licensed", "insured", "accredited",
		"bbb", "member", "association", "chamber of commerce",
		"award", "recognition", "bonded",
	}
)

// reputationPages is how many crawled pages contribute text and links.
const reputationPages = 5

// Reputation looks for ratings, reviews and social proof on the page and
// the first few crawled pages.
type Reputation struct{}

func (Reputation) Category() string { return CategoryReputation }

func (Reputation) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	schemas := doc.StructuredData()
	others := in.docs(reputationPages)

	texts := []string{strings.ToLower(doc.Text())}
	for _, d := range others {
		texts = append(texts, strings.ToLower(d.Text()))
	}
	allText := strings.Join(texts, " ")

	var c checklist

	hasRating := false
	var ratingValue, reviewCount any
	for _, s := range schemas {
		if str(s, "@type") == "AggregateRating" {
			hasRating = true
			ratingValue, reviewCount = s["ratingValue"], s["reviewCount"]
		} else if truthy(s["aggregateRating"]) {
			hasRating = true
			if ar, ok := s["aggregateRating"].(map[string]any); ok {
				ratingValue, reviewCount = ar["ratingValue"], ar["reviewCount"]
			}
		}
	}
	ratingMsg := "No aggregate rating schema found"
	if hasRating && truthy(ratingValue) {
		ratingMsg = fmt.Sprintf("Rating: %s/5 (%s reviews)", jsonScalar(ratingValue), jsonScalar(reviewCount))
	}
	c.add("AggregateRating schema", hasRating, 1.0, warning, ratingMsg,
		"Add AggregateRating schema to show star ratings in search results. "+
			"This dramatically improves click-through rates.")

	reviews := 0
	for _, s := range schemas {
		if str(s, "@type") == "Review" {
			reviews++
		}
	}
	c.add("Individual Review schema", reviews > 0, 0.6, info,
		pick(reviews > 0, fmt.Sprintf("%d Review schema(s) found", reviews), "No individual Review schemas"),
		"Mark up individual reviews with Review schema for rich snippet eligibility.")

	testimonials := containsAny(allText, testimonialKeywords...)
	c.add("Testimonial/review content", testimonials, 0.8, warning,
		pick(testimonials, "Testimonial/review content found", "No testimonial content detected"),
		"Add a testimonials or reviews section to your site. "+
			"Display real customer feedback to build trust and improve conversions.")

	platforms := linkedPlatforms(append([]*extract.Document{doc}, others...))
	c.add("Review platform links", len(platforms) > 0, 0.6, info,
		pick(len(platforms) > 0, "Links to: "+strings.Join(platforms, ", "), "No links to review platforms found"),
		"Link to your Google Business, Yelp, or industry-specific review profiles. "+
			"This shows transparency and makes it easy for customers to leave reviews.")

	proof := countMatching(allText, socialProofPatterns)
	c.add("Social proof indicators", proof >= 2, 0.7, warning,
		fmt.Sprintf("%d social proof indicators found", proof),
		"Add specific social proof: '500+ satisfied customers', "+
			"'Rated 4.9 stars', '15+ years experience'. Numbers build credibility.")

	profiles := 0
	for _, s := range schemas {
		switch v := s["sameAs"].(type) {
		case string:
			profiles++
		case []any:
			profiles += len(v)
		}
	}
	c.add("Social profile schema links", profiles > 0, 0.4, info,
		pick(profiles > 0, fmt.Sprintf("%d social profiles in schema", profiles), "No sameAs social links in schema"),
		"Add sameAs array to your Organization schema with links to all social media profiles.")

	trust := countContained(allText, trustBadgeKeywords)
	c.add("Trust badges / certifications", trust >= 2, 0.5, info,
		fmt.Sprintf("%d trust/certification signals found", trust),
		"Display industry certifications, licenses, BBB membership, "+
			"and professional association badges prominently on your site.")

	return c.result(), nil
}

// linkedPlatforms returns the review platforms linked from docs, by short
// name, in first-seen order.
func linkedPlatforms(docs []*extract.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range docs {
		for _, l := range d.Links() {
			href := strings.ToLower(l.Href)
			for _, p := range reviewPlatforms {
				if !strings.Contains(href, p) {
					continue
				}
				name := strings.SplitN(p, ".", 2)[0]
				if !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
				break
			}
		}
	}
	return out
}

func jsonScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "?"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
