package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	phonePattern   = regexp.MustCompile(`(\+?1?\s*[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})`)
	addressPattern = regexp.MustCompile(`(?i)\d{1,5}\s+[\w\s]{2,40}(?:St|Street|Ave|Avenue|Blvd|Boulevard|Dr|Drive|Rd|Road|Ln|Lane|Way|Ct|Court|Pl|Place|Cir|Circle)\b`)
)

var localKeywords = []string{
	"near me", "in [city]", "local", "directions", "hours",
	"open now", "call us", "visit us", "our location",
	"service area", "we serve", "serving",
}

var reviewKeywords = []string{"review", "testimonial", "rating", "stars", "customer said", "what our clients say"}

var servicePathKeywords = []string{"service", "area", "location", "city", "neighborhood"}

// localBusinessTypes are LocalBusiness and the schema.org subtypes local
// sites commonly declare instead.
var localBusinessTypes = map[string]bool{
	"LocalBusiness": true, "Restaurant": true, "Dentist": true, "Plumber": true, "Attorney": true,
	"RealEstateAgent": true, "AutoRepair": true, "BeautySalon": true, "MedicalBusiness": true,
	"FinancialService": true, "HomeAndConstructionBusiness": true, "LegalService": true,
	"ProfessionalService": true, "Store": true, "FoodEstablishment": true, "HealthAndBeautyBusiness": true,
	"LodgingBusiness": true, "SportsActivityLocation": true, "EntertainmentBusiness": true,
	"AutomotiveBusiness": true, "ChildCare": true, "DryCleaningOrLaundry": true,
	"EmploymentAgency": true, "GovernmentOffice": true, "Library": true, "RecyclingCenter": true,
}

// LocalSEO checks the signals local pack rankings depend on: business
// schema, NAP, maps, hours, service-area pages and reviews.
type LocalSEO struct{}

func (LocalSEO) Category() string { return CategoryLocalSEO }

func (LocalSEO) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	text := doc.Text()
	lower := strings.ToLower(text)
	schemas := doc.StructuredData()
	local := localSchemas(schemas)

	var c checklist

	c.add("LocalBusiness schema markup", len(local) > 0, 1.0, critical,
		pick(len(local) > 0, fmt.Sprintf("Found %d LocalBusiness schema(s)", len(local)), "No LocalBusiness schema detected"),
		"Add LocalBusiness (or a specific subtype like Restaurant, Dentist, etc.) "+
			"structured data with name, address, phone, hours, and geo coordinates.")

	phones := findPhones(text)
	addresses := addressPattern.FindAllString(text, -1)
	hasNAP := len(phones) > 0 && len(addresses) > 0
	c.add("NAP (Name, Address, Phone) visible", hasNAP, 1.0, critical,
		pick(hasNAP, fmt.Sprintf("Found %d phone(s), %d address(es)", len(phones), len(addresses)), "NAP information incomplete or missing"),
		"Display your full business name, address, and phone number (NAP) "+
			"on every page, ideally in the footer or header. Keep it consistent across all pages.")

	if len(in.Pages) > 0 && hasNAP {
		consistent := napConsistent(phones[0], in.docs(10))
		c.add("NAP consistency across pages", consistent, 0.9, critical,
			pick(consistent, "NAP appears consistent", "Inconsistent phone numbers detected across pages"),
			"Ensure your NAP is identical on every page. Inconsistencies confuse search engines.")
	}

	hasMap := false
	doc.Find("iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.ToLower(extract.Attr(s, "src"))
		hasMap = containsAny(src, "google.com/maps", "maps.google")
		return !hasMap
	})
	c.add("Google Maps embed", hasMap, 0.6, warning,
		pick(hasMap, "Google Maps embed found", "No Google Maps embed detected"),
		"Embed a Google Map showing your business location on your contact or homepage.")

	hasHours := false
	hasGeo := false
	for _, s := range local {
		if truthy(s["openingHoursSpecification"]) || truthy(s["openingHours"]) {
			hasHours = true
		}
		if geo, ok := s["geo"].(map[string]any); ok {
			if truthy(geo["latitude"]) || str(geo, "@type") == "GeoCoordinates" {
				hasGeo = true
			}
		}
	}
	c.add("Business hours in schema", hasHours, 0.7, warning,
		pick(hasHours, "Opening hours found in schema", "No business hours in structured data"),
		"Add openingHoursSpecification to your LocalBusiness schema so Google can show your hours.")
	c.add("Geo coordinates in schema", hasGeo, 0.5, warning,
		pick(hasGeo, "Geo coordinates found", "No latitude/longitude in schema"),
		"Add geo coordinates (latitude/longitude) to your LocalBusiness schema for precise map placement.")

	servicePages := 0
	for _, p := range in.Pages {
		if containsAny(lowerPath(p.URL), servicePathKeywords...) {
			servicePages++
		}
	}
	c.add("Service area / location pages", servicePages > 0, 0.7, warning,
		pick(servicePages > 0, fmt.Sprintf("Found %d location/service-area pages", servicePages), "No dedicated service area pages detected"),
		"Create dedicated pages for each city/neighborhood you serve "+
			"(e.g., /plumber-austin-tx). This is critical for local pack rankings.")

	hasTel := hasTelLink(doc)
	c.add("Click-to-call link (tel:)", hasTel, 0.6, warning,
		pick(hasTel, "Click-to-call link found", "No tel: link detected"),
		"Add a clickable phone link: <a href='tel:+1XXXYYYZZZZ'>Call Us</a> for mobile users.")

	hasReviews := containsAny(lower, reviewKeywords...)
	c.add("Review/testimonial content", hasReviews, 0.6, warning,
		pick(hasReviews, "Review/testimonial content detected", "No review or testimonial content found"),
		"Add a reviews/testimonials section. Display Google reviews or client testimonials to build trust.")

	hasReviewSchema := false
	for _, s := range schemas {
		t := str(s, "@type")
		if t == "Review" || t == "AggregateRating" || truthy(s["aggregateRating"]) {
			hasReviewSchema = true
			break
		}
	}
	c.add("Review/rating schema", hasReviewSchema, 0.5, info,
		pick(hasReviewSchema, "Review schema found", "No review/rating schema detected"),
		"Add AggregateRating schema to display star ratings in search results.")

	signals := countContained(lower, localKeywords)
	c.add("Local keyword signals", signals >= 2, 0.5, info,
		fmt.Sprintf("%d local keyword signals found", signals),
		"Use local-intent keywords like 'near me', city names, 'serving [area]' naturally in your content.")

	hasContact := false
	for _, p := range in.Pages {
		if strings.Contains(lowerPath(p.URL), "contact") {
			hasContact = true
			break
		}
	}
	if !hasContact {
		for _, l := range doc.Links() {
			if strings.Contains(strings.ToLower(l.Href), "contact") || strings.Contains(strings.ToLower(l.Text), "contact") {
				hasContact = true
				break
			}
		}
	}
	c.add("Contact page accessible", hasContact, 0.5, warning,
		pick(hasContact, "Contact page found", "No contact page detected"),
		"Create a dedicated /contact page with your NAP, map, business hours, and a contact form.")

	return c.result(), nil
}

func localSchemas(schemas []map[string]any) []map[string]any {
	var out []map[string]any
	for _, s := range schemas {
		for _, t := range extract.Types(s) {
			if localBusinessTypes[t] {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func findPhones(text string) []string {
	matches := phonePattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}

// napConsistent reports whether every page that shows a phone number also
// shows the primary one.
func napConsistent(primary string, docs []*extract.Document) bool {
	if primary == "" {
		return true
	}
	for _, d := range docs {
		phones := findPhones(d.Text())
		if len(phones) == 0 {
			continue
		}
		found := false
		for _, p := range phones {
			if p == primary {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasTelLink(doc *extract.Document) bool {
	for _, l := range doc.Links() {
		if strings.HasPrefix(l.Href, "tel:") {
			return true
		}
	}
	return false
}

func lowerPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Path)
}
