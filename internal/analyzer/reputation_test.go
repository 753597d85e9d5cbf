package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/crawler"
)

func TestReputation_RatedBusiness(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, fixture(t, "local_business.html"))
	r := run(t, analyzer.Reputation{}, analyzer.NewInput(page, []*crawler.CrawlResult{page}, "", "", nil))

	require.Len(t, r.Checks, 7)
	assert.Equal(t, []string{"Individual Review schema"}, failedNames(r))
	assert.Equal(t, 87, r.Score)
	assert.Equal(t, "A-", r.Grade)

	assert.Equal(t, "Rating: 4.9/5 (212 reviews)", findCheck(t, r, "AggregateRating schema").Message)
	assert.Equal(t, "Links to: yelp", findCheck(t, r, "Review platform links").Message)
	assert.Equal(t, "2 social profiles in schema", findCheck(t, r, "Social profile schema links").Message)
	assert.Equal(t, "3 trust/certification signals found", findCheck(t, r, "Trust badges / certifications").Message)
}

func TestReputation_SignalsFromOtherPages(t *testing.T) {
	t.Parallel()
	home := htmlPage(siteURL, `<html><body><p>Plumbing in Austin.</p></body></html>`)
	reviews := htmlPage(siteURL+"reviews", `<html><body>
<h1>Testimonials</h1>
<p>Rated 5 stars by 300+ customers.</p>
<a href="https://www.google.com/maps/place/x">Google</a>
<a href="https://www.bbb.org/us/tx/austin">BBB</a>
<a href="https://www.google.com/maps/place/y">Google again</a>
</body></html>`)

	in := analyzer.NewInput(home, []*crawler.CrawlResult{home, reviews}, "", "", nil)
	r := run(t, analyzer.Reputation{}, in)

	assert.True(t, findCheck(t, r, "Testimonial/review content").Passed)
	assert.Equal(t, "Links to: google, bbb", findCheck(t, r, "Review platform links").Message)
	assert.True(t, findCheck(t, r, "Social proof indicators").Passed)
	assert.Equal(t, "No aggregate rating schema found", findCheck(t, r, "AggregateRating schema").Message)
}

func TestReputation_StandaloneRatingAndReviews(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><head>
<script type="application/ld+json">{"@type":"AggregateRating","ratingValue":"4.5"}</script>
<script type="application/ld+json">{"@type":"Review","author":"Sam"}</script>
<script type="application/ld+json">{"@type":"Organization","sameAs":"https://www.facebook.com/acme"}</script>
</head><body><p>Hello.</p></body></html>`)
	r := run(t, analyzer.Reputation{}, analyzer.NewInput(page, nil, "", "", nil))

	assert.Equal(t, "Rating: 4.5/5 (? reviews)", findCheck(t, r, "AggregateRating schema").Message)
	assert.Equal(t, "1 Review schema(s) found", findCheck(t, r, "Individual Review schema").Message)
	assert.Equal(t, "1 social profiles in schema", findCheck(t, r, "Social profile schema links").Message)
}
