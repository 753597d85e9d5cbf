package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

// requiredFields lists, per schema.org type, the properties Google needs
// before it will use the markup.
var requiredFields = map[string][]string{
	"LocalBusiness":   {"name", "address", "telephone"},
	"Organization":    {"name", "url"},
	"WebSite":         {"url", "name"},
	"WebPage":         {"name", "url"},
	"BreadcrumbList":  {"itemListElement"},
	"FAQPage":         {"mainEntity"},
	"Product":         {"name", "offers"},
	"Service":         {"name", "provider"},
	"Review":          {"reviewRating", "author"},
	"AggregateRating": {"ratingValue", "reviewCount"},
	"Article":         {"headline", "author", "datePublished"},
	"Event":           {"name", "startDate", "location"},
	"VideoObject":     {"name", "uploadDate", "thumbnailUrl"},
}

var localBusinessRecommended = []string{
	"name", "address", "telephone", "openingHoursSpecification",
	"geo", "image", "url", "priceRange", "aggregateRating",
	"areaServed", "description", "sameAs",
}

var faqContentKeywords = []string{"faq", "frequently asked", "common questions", "q&a"}

// Schema validates JSON-LD markup: presence, required fields per type and
// the types that drive rich results.
type Schema struct{}

func (Schema) Category() string { return CategorySchema }

func (Schema) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	schemas := doc.StructuredData()
	var c checklist

	c.add("Structured data present", len(schemas) > 0, 1.0, critical,
		pick(len(schemas) > 0, fmt.Sprintf("Found %d schema object(s)", len(schemas)), "No JSON-LD structured data found"),
		"Add JSON-LD structured data to help search engines understand your content.")

	if len(schemas) == 0 {
		c.add("LocalBusiness schema", false, 0.9, critical,
			"Missing: essential for local businesses",
			"Add LocalBusiness schema with name, address, phone, hours, and coordinates.")
		c.add("WebSite schema with SearchAction", false, 0.5, warning,
			"Missing: helps with sitelinks search box",
			"Add WebSite schema with potentialAction SearchAction for sitelinks search.")
		return c.result(), nil
	}

	found := make(map[string]bool)
	for _, s := range schemas {
		types := extract.Types(s)
		if len(types) == 0 {
			types = []string{"Unknown"}
		}
		for _, t := range types {
			found[t] = true
			validateSchema(&c, s, t)
		}
	}

	c.add("Uses JSON-LD format", true, 0.5, info,
		"Structured data is in JSON-LD format (recommended by Google)", "")

	foundList := make([]string, 0, len(found))
	hasIdentity := false
	for t := range found {
		foundList = append(foundList, t)
		if _, known := requiredFields[t]; known || t == "Organization" || strings.Contains(t, "Business") {
			hasIdentity = true
		}
	}
	sort.Strings(foundList)
	c.add("Organization/Business identity", hasIdentity, 0.7, warning,
		pick(hasIdentity, "Business types found: "+strings.Join(foundList, ", "), "No Organization or Business schema"),
		"Add Organization or LocalBusiness schema to establish your business identity.")

	c.add("Breadcrumb schema", found["BreadcrumbList"], 0.4, info,
		pick(found["BreadcrumbList"], "BreadcrumbList schema found", "No breadcrumb schema"),
		"Add BreadcrumbList schema for better SERP appearance and site navigation.")

	hasFAQ := found["FAQPage"]
	faqContent := containsAny(strings.ToLower(doc.Text()), faqContentKeywords...)
	faqMsg := "No FAQ schema (consider adding)"
	switch {
	case hasFAQ:
		faqMsg = "FAQPage schema found"
	case faqContent:
		faqMsg = "FAQ content detected but no FAQ schema"
	}
	c.add("FAQ schema", hasFAQ, 0.5, severityIf(faqContent, warning, info), faqMsg,
		"Add FAQPage schema to your FAQ content for rich snippet eligibility.")

	sameAs := false
	for _, s := range schemas {
		if truthy(s["sameAs"]) {
			sameAs = true
			break
		}
	}
	c.add("Social profile links (sameAs)", sameAs, 0.3, info,
		pick(sameAs, "sameAs social links found", "No sameAs social profile links in schema"),
		"Add sameAs array with links to your social media profiles in your Organization schema.")

	return c.result(), nil
}

// validateSchema adds a completeness check for business types and a
// required-fields check for other known types that are missing fields.
func validateSchema(c *checklist, schema map[string]any, schemaType string) {
	required, ok := requiredFields[schemaType]
	if !ok {
		return
	}

	if schemaType == "LocalBusiness" || strings.Contains(schemaType, "Business") {
		var missing []string
		for _, f := range localBusinessRecommended {
			if !truthy(schema[f]) {
				missing = append(missing, f)
			}
		}
		total := len(localBusinessRecommended)
		completeness := float64(total-len(missing)) / float64(total) * 100
		rec := ""
		if len(missing) > 0 {
			shown := missing
			if len(shown) > 5 {
				shown = shown[:5]
			}
			rec = fmt.Sprintf("Add these fields to your %s schema: %s", schemaType, strings.Join(shown, ", "))
		}
		c.add(schemaType+" schema completeness", completeness >= 70, 0.8,
			severityIf(completeness < 70, warning, info),
			fmt.Sprintf("%s is %.0f%% complete (%d recommended fields missing)", schemaType, completeness, len(missing)),
			rec)
		return
	}

	var missing []string
	for _, f := range required {
		if !truthy(schema[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return
	}
	list := strings.Join(missing, ", ")
	c.add(schemaType+" required fields", false, 0.6, warning,
		fmt.Sprintf("%s missing: %s", schemaType, list),
		fmt.Sprintf("Add missing fields to %s: %s", schemaType, list))
}
