package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	directAnswerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\w+\s+is\s+(a|an|the)\s+`),
		regexp.MustCompile(`\bthe\s+\w+\s+(of|for)\s+`),
		regexp.MustCompile(`\bhow\s+to\s+\w+`),
		regexp.MustCompile(`\bsteps?\s+(to|for)\s+`),
		regexp.MustCompile(`\btips?\s+(for|on|to)\s+`),
	}
	statisticPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+%`),
		regexp.MustCompile(`\$[\d,]+`),
		regexp.MustCompile(`\d+\s+(years?|months?)`),
		regexp.MustCompile(`\d+\+?\s+(customers?|clients?|projects?|reviews?)`),
	}
	questionWords     = []string{"what", "how", "why", "when", "where", "who", "can", "does", "is"}
	experienceSignals = []string{
		"in our experience", "we've found", "our team",
		"we recommend", "we offer", "our process",
		"when we", "our approach", "we specialize",
	}
)

// GEO scores how easily generative search engines can extract and cite
// the page.
type GEO struct{}

func (GEO) Category() string { return CategoryGEO }

func (GEO) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	meta := doc.Meta()
	schemas := doc.StructuredData()
	text := doc.Text("nav", "footer")
	lower := strings.ToLower(text)

	var c checklist

	direct := countMatching(lower, directAnswerPatterns)
	c.add("Direct answer patterns", direct >= 2, 0.9, warning,
		fmt.Sprintf("%d direct-answer patterns detected", direct),
		"Structure content with direct answers: 'X is...', 'The best way to...', "+
			"'Steps to...'. AI engines extract these for featured answers.")

	questions := 0
	for level := 2; level <= 4; level++ {
		for _, h := range doc.Headings(level) {
			if isQuestion(h) {
				questions++
			}
		}
	}
	c.add("Q&A formatted headings", questions >= 2, 0.8, warning,
		fmt.Sprintf("%d question-format headings found", questions),
		"Use question-based headings (H2/H3): 'How much does [service] cost?', "+
			"'What are the signs of [problem]?'. AI engines match these to user queries.")

	hasFAQ := false
	for _, s := range schemas {
		if t := str(s, "@type"); t == "FAQPage" || t == "Question" {
			hasFAQ = true
			break
		}
	}
	c.add("FAQ structured data", hasFAQ, 0.7, warning,
		pick(hasFAQ, "FAQPage schema found", "No FAQ schema"),
		"Add FAQPage schema markup to your Q&A content. "+
			"AI engines heavily weight structured FAQ data.")

	stats := countMatching(text, statisticPatterns)
	c.add("Specific statistics / data points", stats >= 2, 0.6, info,
		fmt.Sprintf("%d statistical claims found", stats),
		"Include specific numbers: '15+ years experience', '500+ happy customers', "+
			"'rated 4.9/5 stars'. AI engines cite specific data over vague claims.")

	locations := 0
	if meta.Title != "" {
		locations++
	}
	if len(doc.Headings(1)) > 0 {
		locations++
	}
	for _, s := range schemas {
		if str(s, "name") != "" {
			locations++
			break
		}
	}
	c.add("Entity clarity (brand prominence)", locations >= 2, 0.7, warning,
		fmt.Sprintf("Business identity present in %d/3 key locations (title, H1, schema)", locations),
		"Ensure your business name appears in the page title, H1, and schema markup. "+
			"AI engines need clear entity identification to cite your business.")

	wc := len(strings.Fields(text))
	c.add("Topical depth for AI citation", wc >= 800, 0.6, info,
		fmt.Sprintf("~%d words of content", wc),
		"For AI engines to cite your content, aim for 800+ words of comprehensive, "+
			"authoritative content on your core topics.")

	exp := countContained(lower, experienceSignals)
	c.add("First-hand experience signals", exp >= 2, 0.7, warning,
		fmt.Sprintf("%d first-hand experience signals", exp),
		"Include first-person experience: 'In our 10 years serving [city]...', "+
			"'We've found that...'. AI engines prioritize first-hand expertise (E-E-A-T).")

	citable := meta.Title != "" && meta.Description != "" && len(schemas) > 0
	c.add("AI source citability", citable, 0.8, warning,
		pick(citable, "Page is well-structured for AI citation", "Page may not be easily citable by AI engines"),
		"Ensure your page has clear meta tags and schema markup. "+
			"AI engines use these to attribute and cite sources.")

	paras := doc.Paragraphs()
	if len(paras) > 3 {
		paras = paras[:3]
	}
	bluf := len(strings.Fields(strings.Join(paras, " "))) >= 40
	c.add("Key information early (BLUF)", bluf, 0.5, info,
		pick(bluf, "Substantial content in opening paragraphs", "Opening content is thin"),
		"Put your most important information in the first 2-3 paragraphs. "+
			"AI engines weight early content more heavily.")

	return c.result(), nil
}

func isQuestion(heading string) bool {
	if strings.Contains(heading, "?") {
		return true
	}
	lower := strings.ToLower(heading)
	for _, w := range questionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}
