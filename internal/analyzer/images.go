package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	genericAlts = map[string]bool{
		"image": true, "photo": true, "picture": true, "img": true,
		"icon": true, "logo": true, "banner": true, "untitled": true,
	}
	numericAlt      = regexp.MustCompile(`^[\d_\-.]+$`)
	genericFileName = regexp.MustCompile(`^(img|image|photo|dsc|screenshot)[\d_\-]*\.`)
	nextGenExts     = map[string]bool{".webp": true, ".avif": true, ".svg": true}
)

// Images checks alt text, file names, dimensions and delivery of <img> tags.
type Images struct{}

func (Images) Category() string { return CategoryImages }

func (Images) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	images := doc.Images()
	total := len(images)
	var c checklist

	if total == 0 {
		c.add("Images present", false, 0.5, info, "No images found on page",
			"Consider adding relevant images to improve engagement and visual appeal.")
		return c.result(), nil
	}

	var withAlt, badAlts, badNames, withDims, lazy, nextGen, srcset int
	for _, img := range images {
		if img.HasAlt {
			withAlt++
			if poorAlt(strings.ToLower(img.Alt)) {
				badAlts++
			}
		}
		if img.Src != "" {
			file := strings.ToLower(fileName(img.Src))
			if genericFileName.MatchString(file) {
				badNames++
			}
			if nextGenExts[strings.ToLower(path.Ext(file))] {
				nextGen++
			}
		}
		if img.Width != "" && img.Height != "" {
			withDims++
		}
		if img.Loading == "lazy" {
			lazy++
		}
		if img.Srcset != "" {
			srcset++
		}
	}

	altRatio := ratio(withAlt, total)
	c.add("Image alt text coverage", altRatio >= 0.9, 1.0, critical,
		fmt.Sprintf("%d/%d images have alt text (%s)", withAlt, total, percent(altRatio)),
		fmt.Sprintf("%d images are missing alt text. "+
			"Add descriptive alt text to every meaningful image for accessibility and SEO.", total-withAlt))

	c.add("Alt text quality", badAlts == 0, 0.7, warning,
		pick(badAlts > 0, fmt.Sprintf("%d images have poor alt text", badAlts), "All alt texts appear descriptive"),
		"Replace generic alt text like 'image' or 'photo' with "+
			"descriptive text that includes relevant keywords naturally.")

	c.add("Descriptive file names", badNames <= 1, 0.5, info,
		pick(badNames > 0, fmt.Sprintf("%d images have generic file names", badNames), "Image file names appear descriptive"),
		"Rename images with descriptive, keyword-rich names: "+
			"'plumber-fixing-kitchen-sink.jpg' instead of 'IMG_1234.jpg'.")

	c.add("Explicit width/height attributes", ratio(withDims, total) >= 0.7, 0.6, warning,
		fmt.Sprintf("%d/%d images have explicit dimensions", withDims, total),
		"Add width and height attributes to images to prevent layout shift (CLS). "+
			"This is a Core Web Vitals factor.")

	// Small pages may keep every image eager.
	c.add("Lazy loading implemented", total <= 2 || lazy > 0, 0.6, warning,
		fmt.Sprintf("%d/%d images use lazy loading", lazy, total),
		"Add loading='lazy' to below-the-fold images. "+
			"Keep above-the-fold images eager for fast LCP.")

	ngRatio := ratio(nextGen, total)
	c.add("Next-gen image formats (WebP/AVIF)", ngRatio >= 0.3, 0.5, info,
		fmt.Sprintf("%d/%d images use next-gen formats (%s)", nextGen, total, percent(ngRatio)),
		"Convert images to WebP or AVIF format for 25-50% smaller file sizes "+
			"with identical quality. Serve with <picture> fallbacks.")

	c.add("Responsive images (srcset)", total <= 1 || srcset > 0, 0.4, info,
		fmt.Sprintf("%d/%d images use srcset", srcset, total),
		"Use srcset and sizes attributes to serve appropriately sized images "+
			"for different screen widths. Saves bandwidth on mobile.")

	c.add("Reasonable image count", total <= 50, 0.3, severityIf(total > 50, warning, info),
		fmt.Sprintf("%d images on page", total),
		fmt.Sprintf("%d images is excessive. Reduce to essential images "+
			"and use CSS for decorative elements.", total))

	return c.result(), nil
}

func poorAlt(alt string) bool {
	return genericAlts[alt] ||
		utf8.RuneCountInString(alt) < 5 ||
		strings.HasPrefix(alt, "img_") ||
		strings.HasPrefix(alt, "dsc_") ||
		numericAlt.MatchString(alt)
}

func fileName(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	p := u.Path
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// imageStats is shared with the competitor comparison.
func imageStats(doc *extract.Document) (total, withAlt int) {
	for _, img := range doc.Images() {
		total++
		if img.HasAlt {
			withAlt++
		}
	}
	return total, withAlt
}
