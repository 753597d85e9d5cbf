package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/scoring"
	"github.com/raysh454/sitegrade/internal/store"
	"github.com/raysh454/sitegrade/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "audits.db"),
	}, &testutil.DummyLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newAudit(url string, at time.Time, checks map[string][]scoring.Check) *report.Audit {
	results := map[string]scoring.CategoryResult{}
	for k, cs := range checks {
		results[k] = scoring.ScoreCategory(cs)
	}
	a := report.NewAudit(url, "Joe's Plumbing", scoring.OverallScore(results, scoring.DefaultWeights()))
	a.CreatedAt = at
	a.PagesCrawled = 3
	return a
}

func chk(name string, passed bool) scoring.Check {
	c := scoring.Check{Name: name, Passed: passed, Weight: 1, Severity: scoring.SeverityWarning, Message: name}
	if !passed {
		c.Recommendation = "fix it"
	}
	return c
}

// ─── Open ──────────────────────────────────────────────────────────────

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := store.Open(context.Background(), store.Config{Driver: "postgres"}, &testutil.DummyLogger{})
	assert.Error(t, err)
}

func TestOpen_MySQLNeedsDSN(t *testing.T) {
	t.Parallel()
	_, err := store.Open(context.Background(), store.Config{Driver: "mysql"}, &testutil.DummyLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestOpen_ReopenKeepsAudits(t *testing.T) {
	t.Parallel()
	dsn := filepath.Join(t.TempDir(), "audits.db")
	ctx := context.Background()

	s, err := store.Open(ctx, store.Config{DSN: dsn}, &testutil.DummyLogger{})
	require.NoError(t, err)
	id, err := s.Save(ctx, newAudit("https://a.example/", time.Now().UTC(), nil))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(ctx, store.Config{DSN: dsn}, &testutil.DummyLogger{})
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Get(ctx, id)
	assert.NoError(t, err)
}

// ─── Save / Get / List ─────────────────────────────────────────────────

func TestSaveGet_RoundTrip(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	a := newAudit("https://joesplumbing.example/", time.Now().UTC(), map[string][]scoring.Check{
		"technical": {chk("HTTPS enabled", true), chk("Canonical tag present", false)},
	})
	id, err := s.Save(ctx, a)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, a.ID)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, a.URL, got.URL)
	assert.Equal(t, a.OverallScore, got.OverallScore)
	assert.Equal(t, a.Categories["technical"].Checks, got.Categories["technical"].Checks)
	assert.Equal(t, a.Recommendations, got.Recommendations)
	assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
}

func TestSave_KeepsGivenID(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	a := newAudit("https://a.example/", time.Now().UTC(), nil)
	a.ID = "fixed-id"

	id, err := s.Save(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = s.Save(context.Background(), a)
	assert.Error(t, err, "duplicate ids are rejected")
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	_, err := openStore(t).Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestList_NewestFirstAndFiltered(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, url := range []string{"https://a.example/", "https://b.example/", "https://a.example/"} {
		_, err := s.Save(ctx, newAudit(url, base.Add(time.Duration(i)*time.Hour), nil))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Hour)))
	assert.True(t, all[2].CreatedAt.Equal(base))
	assert.Equal(t, "Joe's Plumbing", all[0].ClientName)
	assert.Equal(t, 3, all[0].PagesCrawled)

	onlyA, err := s.List(ctx, "https://a.example/", 10)
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	for _, sum := range onlyA {
		assert.Equal(t, "https://a.example/", sum.URL)
	}

	limited, err := s.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	t.Parallel()
	got, err := openStore(t).List(context.Background(), "", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ─── Compare ───────────────────────────────────────────────────────────

func TestCompare_FixedAndRegressed(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	before := newAudit("https://a.example/", now.Add(-time.Hour), map[string][]scoring.Check{
		"technical": {chk("HTTPS enabled", false), chk("Canonical tag present", true)},
		"images":    {chk("Images present", true)},
	})
	after := newAudit("https://a.example/", now, map[string][]scoring.Check{
		"technical": {chk("HTTPS enabled", true), chk("Canonical tag present", false)},
		"mobile":    {chk("Viewport meta tag configured", true)},
	})
	baseID, err := s.Save(ctx, before)
	require.NoError(t, err)
	headID, err := s.Save(ctx, after)
	require.NoError(t, err)

	cmp, err := s.Compare(ctx, baseID, headID)
	require.NoError(t, err)

	assert.Equal(t, baseID, cmp.Base.ID)
	assert.Equal(t, headID, cmp.Head.ID)
	assert.Equal(t, after.OverallScore-before.OverallScore, cmp.ScoreDelta)
	assert.Equal(t, []string{"technical: HTTPS enabled"}, cmp.Fixed)
	assert.Equal(t, []string{"technical: Canonical tag present"}, cmp.Regressed)

	byCat := map[string]store.CategoryDelta{}
	for _, d := range cmp.Categories {
		byCat[d.Category] = d
	}
	require.Len(t, byCat, 3)
	assert.Equal(t, 0, byCat["technical"].Delta)
	assert.Nil(t, byCat["mobile"].BaseScore)
	require.NotNil(t, byCat["mobile"].HeadScore)
	assert.Equal(t, 100, *byCat["mobile"].HeadScore)
	assert.Nil(t, byCat["images"].HeadScore)

	var added, removed []string
	for _, c := range cmp.Changes {
		switch c.Type {
		case "added":
			added = append(added, c.Content)
		case "removed":
			removed = append(removed, c.Content)
		}
	}
	assert.True(t, strings.Contains(strings.Join(added, ""), "[PASS] technical: HTTPS enabled"))
	assert.True(t, strings.Contains(strings.Join(removed, ""), "[FAIL] technical: HTTPS enabled"))
	assert.True(t, strings.Contains(strings.Join(removed, ""), "[PASS] images: Images present"))
}

func TestCompare_MissingAudit(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	id, err := s.Save(context.Background(), newAudit("https://a.example/", time.Now().UTC(), nil))
	require.NoError(t, err)

	_, err = s.Compare(context.Background(), id, "nope")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestDiff_IdenticalAuditsHaveNoChanges(t *testing.T) {
	t.Parallel()
	a := newAudit("https://a.example/", time.Now().UTC(), map[string][]scoring.Check{
		"onpage": {chk("Title tag present", true)},
	})
	cmp := store.Diff(a, a)

	assert.Zero(t, cmp.ScoreDelta)
	assert.Empty(t, cmp.Fixed)
	assert.Empty(t, cmp.Regressed)
	assert.Empty(t, cmp.Changes)
}
