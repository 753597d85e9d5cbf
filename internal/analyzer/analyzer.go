// Package analyzer holds the twelve category analyzers of an audit and the
// registry the auditor iterates. An analyzer reads an Input and returns one
// scored category; it never mutates the crawl results it is given.
package analyzer

import (
	"context"
	"fmt"

	"github.com/raysh454/sitegrade/internal/scoring"
)

// Category names, in the order reports list them.
const (
	CategoryTechnical  = "technical"
	CategoryOnPage     = "onpage"
	CategoryLocalSEO   = "local_seo"
	CategorySchema     = "schema"
	CategoryContent    = "content"
	CategoryImages     = "images"
	CategorySitemap    = "sitemap"
	CategoryGEO        = "geo"
	CategoryCompetitor = "competitor"
	CategoryPageSpeed  = "pagespeed"
	CategoryMobile     = "mobile"
	CategoryReputation = "reputation"
)

// Order is the canonical category order.
var Order = []string{
	CategoryTechnical,
	CategoryOnPage,
	CategoryLocalSEO,
	CategorySchema,
	CategoryContent,
	CategoryImages,
	CategorySitemap,
	CategoryGEO,
	CategoryCompetitor,
	CategoryPageSpeed,
	CategoryMobile,
	CategoryReputation,
}

// Analyzer evaluates one category. Analyze returns an error only when ctx
// is done; missing page data produces a result, usually the N/A one.
type Analyzer interface {
	Category() string
	Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error)
}

// Config selects which categories run. An empty Enabled list runs all of them.
type Config struct {
	Enabled []string `yaml:"enabled"`
}

// Registry is an ordered set of analyzers keyed by category.
type Registry struct {
	analyzers []Analyzer
	index     map[string]int
}

func NewRegistry(analyzers ...Analyzer) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(analyzers))}
	for _, a := range analyzers {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a. Categories must be unique.
func (r *Registry) Register(a Analyzer) error {
	if a == nil {
		return fmt.Errorf("register analyzer: nil analyzer")
	}
	cat := a.Category()
	if cat == "" {
		return fmt.Errorf("register analyzer: empty category")
	}
	if _, dup := r.index[cat]; dup {
		return fmt.Errorf("register analyzer: category %q already registered", cat)
	}
	r.index[cat] = len(r.analyzers)
	r.analyzers = append(r.analyzers, a)
	return nil
}

// Analyzers returns the registered analyzers in registration order.
func (r *Registry) Analyzers() []Analyzer {
	return append([]Analyzer(nil), r.analyzers...)
}

func (r *Registry) Get(category string) (Analyzer, bool) {
	i, ok := r.index[category]
	if !ok {
		return nil, false
	}
	return r.analyzers[i], true
}

func (r *Registry) Categories() []string {
	out := make([]string, len(r.analyzers))
	for i, a := range r.analyzers {
		out[i] = a.Category()
	}
	return out
}

func (r *Registry) Len() int { return len(r.analyzers) }

// Known reports whether category names one of the built-in analyzers.
func Known(category string) bool {
	for _, c := range Order {
		if c == category {
			return true
		}
	}
	return false
}

// All returns one instance of every built-in analyzer in canonical order.
func All() []Analyzer {
	return []Analyzer{
		Technical{},
		OnPage{},
		LocalSEO{},
		Schema{},
		Content{},
		Images{},
		Sitemap{},
		GEO{},
		Competitor{},
		PageSpeed{},
		Mobile{},
		Reputation{},
	}
}

// Default builds the registry of built-in analyzers, keeping canonical order
// and dropping categories not listed in cfg.Enabled. Unknown names are ignored.
func Default(cfg Config) *Registry {
	enabled := make(map[string]bool, len(cfg.Enabled))
	for _, c := range cfg.Enabled {
		enabled[c] = true
	}
	r := &Registry{index: make(map[string]int, len(Order))}
	for _, a := range All() {
		if len(enabled) > 0 && !enabled[a.Category()] {
			continue
		}
		// Built-in categories are unique.
		_ = r.Register(a)
	}
	return r
}
