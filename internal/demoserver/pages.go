package demoserver

import "strings"

// originPlaceholder is replaced with the scheme and host of the request so
// absolute URLs point back at whichever address the server runs on.
const originPlaceholder = "{{origin}}"

// PageVersion represents a specific version of a page with its body and headers.
type PageVersion struct {
	Body        string
	ContentType string
	Headers     map[string]string
}

// PageDefinition holds all versions of a single path. A path without a
// version at or below the current one answers 404.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

// MaxVersion is the highest version any page defines.
func (p PageDefinition) MaxVersion() int {
	maxV := 0
	for v := range p.Versions {
		if v > maxV {
			maxV = v
		}
	}
	return maxV
}

// resolve returns the page for version, falling back to the closest lower
// version.
func (p PageDefinition) resolve(version int) (PageVersion, bool) {
	for v := version; v >= 1; v-- {
		if pv, ok := p.Versions[v]; ok {
			return pv, true
		}
	}
	return PageVersion{}, false
}

// GetAllPages returns all demo page definitions. Version 1 is a typical
// neglected small-business site; version 2 fixes most of its SEO issues.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		getHomePage(),
		getServicesPage(),
		getAboutPage(),
		getContactPage(),
		getBlogPage(),
		getRobots(),
		getSitemap(),
	}
}

const contentHTML = "text/html; charset=utf-8"

const navV1 = `<div class="nav">
    <a href="/">Home</a> | <a href="/services">Services</a> | <a href="/about">About</a> | <a href="/contact">Contact</a>
</div>`

const navV2 = `<nav>
    <a href="/">Home</a>
    <a href="/services">Plumbing Services</a>
    <a href="/about">About Joe's Plumbing</a>
    <a href="/contact">Contact Us</a>
    <a href="/blog/water-heater-tips">Water Heater Tips</a>
</nav>`

const footerV2 = `<footer>
    <p>Joe's Plumbing, 123 Main St, Springfield, IL 62701</p>
    <p>Call <a href="tel:+12175550100">(217) 555-0100</a> | <a href="mailto:office@joesplumbing.example">office@joesplumbing.example</a></p>
    <p><a href="https://www.facebook.com/joesplumbing">Facebook</a> <a href="https://www.google.com/maps?cid=123">Google Maps</a></p>
</footer>`

const localBusinessJSONLD = `<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Plumber",
  "name": "Joe's Plumbing",
  "url": "{{origin}}/",
  "telephone": "+1-217-555-0100",
  "priceRange": "$$",
  "address": {
    "@type": "PostalAddress",
    "streetAddress": "123 Main St",
    "addressLocality": "Springfield",
    "addressRegion": "IL",
    "postalCode": "62701"
  },
  "geo": {"@type": "GeoCoordinates", "latitude": 39.7817, "longitude": -89.6501},
  "openingHours": "Mo-Fr 07:00-19:00",
  "aggregateRating": {"@type": "AggregateRating", "ratingValue": "4.8", "reviewCount": "127"}
}
</script>`

// v2Head builds the head of a fixed page.
func v2Head(title, description, path string) string {
	return strings.Join([]string{
		`<meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		`<title>` + title + `</title>`,
		`<meta name="description" content="` + description + `">`,
		`<link rel="canonical" href="` + originPlaceholder + path + `">`,
		`<meta property="og:title" content="` + title + `">`,
		`<meta property="og:description" content="` + description + `">`,
		`<meta property="og:image" content="` + originPlaceholder + `/static/van.jpg">`,
		`<link rel="icon" href="/static/favicon.ico">`,
	}, "\n    ")
}

// ===== HOME PAGE =====
func getHomePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Home page",
		Versions: map[int]PageVersion{
			1: {
				Body: `<html>
<head>
    <title>Home</title>
    <script src="/static/jquery.js"></script>
    <script src="/static/slider.js"></script>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body>
    ` + navV1 + `
    <img src="/static/banner.jpg">
    <h2>Welcome!</h2>
    <p>We fix pipes.</p>
    <img src="/static/van.jpg">
</body>
</html>`,
				ContentType: contentHTML,
			},
			2: {
				Body: `<!DOCTYPE html>
<html lang="en">
<head>
    ` + v2Head("Joe's Plumbing | Emergency Plumber in Springfield, IL",
					"Licensed Springfield plumbers for leaks, drains and water heaters. Same-day service, upfront pricing and a 1-year warranty on every repair.", "/") + `
    ` + localBusinessJSONLD + `
</head>
<body>
    ` + navV2 + `
    <h1>Springfield's Trusted Emergency Plumbers</h1>
    <img src="/static/banner.webp" alt="Joe's Plumbing technician repairing a water heater in Springfield" width="1200" height="600" loading="lazy">
    <h2>Plumbing Services in Springfield, IL</h2>
    <p>Joe's Plumbing has served Springfield and the surrounding Sangamon County towns since 1998.
    Our licensed plumbers handle leaking pipes, clogged drains, sewer line repair and water heater
    installation. We answer the phone around the clock and most emergency calls are reached within
    the hour. Every job comes with upfront pricing and a one-year warranty on parts and labor.</p>
    <h2>What Our Customers Say</h2>
    <blockquote>"Joe came out at 2am when our basement flooded. Fair price and great work." - Maria T., Springfield</blockquote>
    <p>Rated 4.8 stars from 127 reviews. <a href="https://www.google.com/maps?cid=123">Read our reviews</a>.</p>
    <h2>Frequently Asked Questions</h2>
    <h3>Do you offer 24/7 emergency service?</h3>
    <p>Yes. Call (217) 555-0100 any time and a licensed plumber will be dispatched.</p>
    <p><a href="/contact">Request a free estimate</a></p>
    ` + footerV2 + `
</body>
</html>`,
				ContentType: contentHTML,
				Headers: map[string]string{
					"Cache-Control":             "public, max-age=600",
					"Strict-Transport-Security": "max-age=31536000",
				},
			},
		},
	}
}

// ===== SERVICES PAGE =====
func getServicesPage() PageDefinition {
	return PageDefinition{
		Path:        "/services",
		Description: "Services offered",
		Versions: map[int]PageVersion{
			1: {
				Body: `<html>
<head><title>Services</title></head>
<body>
    ` + navV1 + `
    <h1>Services</h1>
    <h1>Our Work</h1>
    <ul><li>Pipes</li><li>Drains</li><li>Heaters</li></ul>
    <a href="/old-specials">Specials</a>
</body>
</html>`,
				ContentType: contentHTML,
			},
			2: {
				Body: `<!DOCTYPE html>
<html lang="en">
<head>
    ` + v2Head("Plumbing Services in Springfield, IL | Joe's Plumbing",
					"Drain cleaning, leak detection, sewer repair and water heater installation across Springfield, IL. Licensed, insured and available 24/7.", "/services") + `
</head>
<body>
    ` + navV2 + `
    <h1>Plumbing Services in Springfield</h1>
    <h2>Drain Cleaning</h2>
    <p>Hydro jetting and camera inspection for kitchen, bath and main sewer lines.</p>
    <h2>Water Heater Installation</h2>
    <p>Tank and tankless water heaters installed the same day in most Springfield homes.</p>
    <h2>Leak Detection</h2>
    <p>Non-invasive leak detection that finds slab and wall leaks before they cause damage.</p>
    <img src="/static/drain.webp" alt="Drain cleaning equipment" width="800" height="500" loading="lazy">
    ` + footerV2 + `
</body>
</html>`,
				ContentType: contentHTML,
			},
		},
	}
}

// ===== ABOUT PAGE =====
func getAboutPage() PageDefinition {
	return PageDefinition{
		Path:        "/about",
		Description: "About the business",
		Versions: map[int]PageVersion{
			1: {
				Body: `<html>
<head><title>About</title></head>
<body>
    ` + navV1 + `
    <p>Family owned.</p>
</body>
</html>`,
				ContentType: contentHTML,
			},
			2: {
				Body: `<!DOCTYPE html>
<html lang="en">
<head>
    ` + v2Head("About Joe's Plumbing | Family-Owned Since 1998",
					"Meet the licensed Springfield plumbers behind Joe's Plumbing, a family-owned business serving central Illinois homeowners since 1998.", "/about") + `
</head>
<body>
    ` + navV2 + `
    <h1>About Joe's Plumbing</h1>
    <p>Joe Russo founded the company in 1998 after fifteen years as a union plumber. Today our team of
    eight licensed and insured technicians serves Springfield, Chatham and Rochester, Illinois.</p>
    <img src="/static/team.webp" alt="The Joe's Plumbing team in front of their service vans" width="900" height="600" loading="lazy">
    ` + footerV2 + `
</body>
</html>`,
				ContentType: contentHTML,
			},
		},
	}
}

// ===== CONTACT PAGE =====
func getContactPage() PageDefinition {
	return PageDefinition{
		Path:        "/contact",
		Description: "Contact details",
		Versions: map[int]PageVersion{
			1: {
				Body: `<html>
<head><title>Contact</title></head>
<body>
    ` + navV1 + `
    <p>Email us: joe@joesplumbing.example</p>
</body>
</html>`,
				ContentType: contentHTML,
			},
			2: {
				Body: `<!DOCTYPE html>
<html lang="en">
<head>
    ` + v2Head("Contact Joe's Plumbing | Springfield, IL Plumber",
					"Call (217) 555-0100 or request a free estimate online. Joe's Plumbing is at 123 Main St, Springfield, IL 62701 and open 7am to 7pm weekdays.", "/contact") + `
</head>
<body>
    ` + navV2 + `
    <h1>Contact Joe's Plumbing</h1>
    <p>Phone: <a href="tel:+12175550100">(217) 555-0100</a></p>
    <p>Address: 123 Main St, Springfield, IL 62701</p>
    <p>Hours: Monday to Friday 7am to 7pm, emergency service 24/7</p>
    <form action="/contact" method="post">
        <label for="name">Name</label> <input id="name" name="name">
        <label for="phone">Phone</label> <input id="phone" name="phone" type="tel">
        <button type="submit">Request an estimate</button>
    </form>
    <iframe src="https://www.google.com/maps/embed?pb=joesplumbing" title="Map to Joe's Plumbing" width="600" height="400"></iframe>
    ` + footerV2 + `
</body>
</html>`,
				ContentType: contentHTML,
			},
		},
	}
}

// ===== BLOG POST =====
func getBlogPage() PageDefinition {
	return PageDefinition{
		Path:        "/blog/water-heater-tips",
		Description: "Blog article, only present from version 2",
		Versions: map[int]PageVersion{
			2: {
				Body: `<!DOCTYPE html>
<html lang="en">
<head>
    ` + v2Head("5 Signs Your Water Heater Needs Replacing | Joe's Plumbing",
					"Rusty water, rumbling noises and rising bills are signs your water heater is failing. A Springfield plumber explains when to repair and when to replace.", "/blog/water-heater-tips") + `
    <script type="application/ld+json">
    {"@context": "https://schema.org", "@type": "Article", "headline": "5 Signs Your Water Heater Needs Replacing",
     "author": {"@type": "Person", "name": "Joe Russo"}, "datePublished": "2024-03-01"}
    </script>
</head>
<body>
    ` + navV2 + `
    <article>
    <h1>5 Signs Your Water Heater Needs Replacing</h1>
    <p>By Joe Russo, master plumber. Published March 1, 2024.</p>
    <h2>1. Rusty or discolored water</h2>
    <p>Corrosion inside the tank shows up first at the tap. If flushing the tank does not clear it, the tank lining has likely failed.</p>
    <h2>2. Rumbling and popping noises</h2>
    <p>Sediment settles at the bottom of the tank and hardens. The heater then works harder and makes noise as water boils under the crust.</p>
    <h2>3. Leaks around the base</h2>
    <p>Small puddles often mean a cracked tank. Shut off the water supply and call a plumber before the tank gives way.</p>
    <h2>4. Rising energy bills</h2>
    <p>An older unit loses efficiency every year. Most tank heaters last eight to twelve years.</p>
    <h2>5. Not enough hot water</h2>
    <p>If showers turn cold sooner than they used to, a heating element or the dip tube may be failing.</p>
    </article>
    ` + footerV2 + `
</body>
</html>`,
				ContentType: contentHTML,
			},
		},
	}
}

// ===== ROBOTS & SITEMAP =====
func getRobots() PageDefinition {
	return PageDefinition{
		Path:        "/robots.txt",
		Description: "robots.txt; version 2 adds the sitemap and AI crawler rules",
		Versions: map[int]PageVersion{
			1: {
				Body:        "User-agent: *\nDisallow: /cgi-bin/\n",
				ContentType: "text/plain; charset=utf-8",
			},
			2: {
				Body: "User-agent: *\nDisallow: /cgi-bin/\n\nUser-agent: GPTBot\nAllow: /\n\n" +
					"Sitemap: " + originPlaceholder + "/sitemap.xml\n",
				ContentType: "text/plain; charset=utf-8",
			},
		},
	}
}

func getSitemap() PageDefinition {
	return PageDefinition{
		Path:        "/sitemap.xml",
		Description: "XML sitemap, only present from version 2",
		Versions: map[int]PageVersion{
			2: {
				Body: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{origin}}/</loc><lastmod>2024-03-01</lastmod></url>
  <url><loc>{{origin}}/services</loc><lastmod>2024-03-01</lastmod></url>
  <url><loc>{{origin}}/about</loc><lastmod>2024-03-01</lastmod></url>
  <url><loc>{{origin}}/contact</loc><lastmod>2024-03-01</lastmod></url>
  <url><loc>{{origin}}/blog/water-heater-tips</loc><lastmod>2024-03-01</lastmod></url>
</urlset>`,
				ContentType: "application/xml",
			},
		},
	}
}
