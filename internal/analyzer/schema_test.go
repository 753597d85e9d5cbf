package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/scoring"
)

func schemaPage(jsonLD, body string) *analyzer.Input {
	html := `<html><head><script type="application/ld+json">` + jsonLD + `</script></head><body>` + body + `</body></html>`
	return analyzer.NewInput(htmlPage("https://biz.example/", html), nil, "", "", nil)
}

func TestSchema_LocalBusinessFixture(t *testing.T) {
	t.Parallel()
	in := analyzer.NewInput(htmlPage(siteURL, fixture(t, "local_business.html")), nil, "", "", nil)
	r := run(t, analyzer.Schema{}, in)

	require.Len(t, r.Checks, 6)
	assert.Equal(t, []string{"Breadcrumb schema"}, failedNames(r))
	assert.Equal(t, "Found 2 schema object(s)", findCheck(t, r, "Structured data present").Message)
	assert.Equal(t, "Business types found: FAQPage, Plumber", findCheck(t, r, "Organization/Business identity").Message)
	assert.Equal(t, "FAQPage schema found", findCheck(t, r, "FAQ schema").Message)
	// 3.0 of 3.4
	assert.Equal(t, 88, r.Score)
}

func TestSchema_NoStructuredData(t *testing.T) {
	t.Parallel()
	in := analyzer.NewInput(htmlPage(siteURL, `<html><body><p>hi</p></body></html>`), nil, "", "", nil)
	r := run(t, analyzer.Schema{}, in)

	require.Len(t, r.Checks, 3)
	assert.Equal(t, "LocalBusiness schema", r.Checks[1].Name)
	assert.Equal(t, scoring.SeverityCritical, r.Checks[1].Severity)
	assert.Equal(t, "WebSite schema with SearchAction", r.Checks[2].Name)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "F", r.Grade)
	assert.Equal(t, 2, r.Counts().CriticalIssues)
}

func TestSchema_LocalBusinessCompleteness(t *testing.T) {
	t.Parallel()
	in := schemaPage(`{"@type":"LocalBusiness","name":"Acme","address":"1 Main St","telephone":"555"}`, "")
	r := run(t, analyzer.Schema{}, in)

	c := findCheck(t, r, "LocalBusiness schema completeness")
	assert.False(t, c.Passed)
	assert.Equal(t, scoring.SeverityWarning, c.Severity)
	assert.Equal(t, "LocalBusiness is 25% complete (9 recommended fields missing)", c.Message)
	assert.Equal(t, "Add these fields to your LocalBusiness schema: openingHoursSpecification, geo, image, url, priceRange", c.Recommendation)
}

func TestSchema_CompleteBusinessPassesAsInfo(t *testing.T) {
	t.Parallel()
	in := schemaPage(`{"@type":"LocalBusiness","name":"Acme","address":"x","telephone":"555",
"openingHoursSpecification":[1],"geo":{"latitude":1},"image":"i.png","url":"https://biz.example/",
"priceRange":"$","aggregateRating":{"ratingValue":5},"areaServed":"Austin"}`, "")
	r := run(t, analyzer.Schema{}, in)

	c := findCheck(t, r, "LocalBusiness schema completeness")
	assert.True(t, c.Passed)
	assert.Equal(t, scoring.SeverityInfo, c.Severity)
	assert.Equal(t, "LocalBusiness is 83% complete (2 recommended fields missing)", c.Message)
	assert.Empty(t, c.Recommendation)
}

func TestSchema_RequiredFieldsAndUnknownTypes(t *testing.T) {
	t.Parallel()
	in := schemaPage(`[{"@type":"Organization","name":"Acme"},{"@type":"Recipe","name":"Pie"},{"name":"typeless"}]`, "")
	r := run(t, analyzer.Schema{}, in)

	org := findCheck(t, r, "Organization required fields")
	assert.False(t, org.Passed)
	assert.Equal(t, "Organization missing: url", org.Message)
	assert.Equal(t, "Add missing fields to Organization: url", org.Recommendation)

	assert.False(t, hasCheck(r, "Recipe required fields"))
	assert.False(t, hasCheck(r, "Unknown required fields"))
	assert.Equal(t, "Business types found: Organization, Recipe, Unknown", findCheck(t, r, "Organization/Business identity").Message)
}

func TestSchema_FAQContentWithoutMarkupEscalates(t *testing.T) {
	t.Parallel()
	in := schemaPage(`{"@type":"WebSite","name":"Acme","url":"https://biz.example/"}`, `<h2>Frequently Asked Questions</h2>`)
	r := run(t, analyzer.Schema{}, in)

	faq := findCheck(t, r, "FAQ schema")
	assert.False(t, faq.Passed)
	assert.Equal(t, scoring.SeverityWarning, faq.Severity)
	assert.Equal(t, "FAQ content detected but no FAQ schema", faq.Message)

	in = schemaPage(`{"@type":"WebSite","name":"Acme","url":"https://biz.example/"}`, `<p>nothing here</p>`)
	faq = findCheck(t, run(t, analyzer.Schema{}, in), "FAQ schema")
	assert.Equal(t, scoring.SeverityInfo, faq.Severity)
	assert.Equal(t, "No FAQ schema (consider adding)", faq.Message)
}

func TestSchema_GraphMembersValidated(t *testing.T) {
	t.Parallel()
	in := schemaPage(`{"@context":"https://schema.org","@graph":[{"@type":"BreadcrumbList","itemListElement":[{"position":1}]},{"@type":"WebPage","name":"Home"}]}`, "")
	r := run(t, analyzer.Schema{}, in)

	assert.True(t, findCheck(t, r, "Breadcrumb schema").Passed)
	assert.Equal(t, "WebPage missing: url", findCheck(t, r, "WebPage required fields").Message)
}
