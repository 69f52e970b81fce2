// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cinehub/cinehub/internal/media"
	"github.com/cinehub/cinehub/internal/metrics"
	"github.com/cinehub/cinehub/internal/taste"
)

// Discoverer provides paginated discovery queries against the external
// metadata API. A failed page returns an error; the engine degrades
// rather than propagating it.
type Discoverer interface {
	DiscoverMedia(ctx context.Context, mediaType media.Type, filters map[string]string, page int) (*media.DiscoverPage, error)
}

// DetailFetcher provides the full per-item payload including credits.
type DetailFetcher interface {
	GetMediaDetails(ctx context.Context, mediaType media.Type, id int) (*media.Details, error)
}

// ProfileSource supplies the taste profile and explicit preferences for
// a user. Satisfied by taste.Manager.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) *taste.Profile
	ExplicitPreferences(ctx context.Context, userID string) *taste.ExplicitPreferences
}

// SeenLister reports the library membership keys ("movie:550") of a
// user's current list, used to exclude already-tracked items.
type SeenLister interface {
	SeenKeys(ctx context.Context, userID string) (map[string]struct{}, error)
}

// ScoredItem is one recommendation: the full detail payload plus the
// inferred media type and the final score it ranked with.
type ScoredItem struct {
	media.Details
	MediaType media.Type `json:"media_type"`
	Score     float64    `json:"score"`
}

// Page is one page of ranked recommendations.
type Page struct {
	Results    []ScoredItem `json:"results"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// Engine assembles ranked recommendation pages from discovery queries,
// the user's taste profile and their library membership.
type Engine struct {
	cfg      *Config
	profiles ProfileSource
	seen     SeenLister
	discover Discoverer
	details  DetailFetcher
	logger   zerolog.Logger
}

// NewEngine validates the configuration and wires the engine's
// collaborators.
func NewEngine(cfg *Config, profiles ProfileSource, seen SeenLister, discover Discoverer, details DetailFetcher, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}
	if profiles == nil || seen == nil || discover == nil || details == nil {
		return nil, fmt.Errorf("recommend engine: all collaborators are required")
	}
	return &Engine{
		cfg:      cfg.Clone(),
		profiles: profiles,
		seen:     seen,
		discover: discover,
		details:  details,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// GetRecommendations produces one ranked page of recommendations for a
// user. pageSize <= 0 selects the configured default; page numbers start
// at 1. A user with no taste signal gets an empty page without any
// network traffic.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, mediaType media.Type, pageSize, page int) (*Page, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("get recommendations: invalid media type %q", mediaType)
	}
	if pageSize <= 0 {
		pageSize = e.cfg.DefaultPageSize
	}
	if pageSize > e.cfg.MaxPageSize {
		pageSize = e.cfg.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	start := time.Now()
	defer func() {
		metrics.RecommendationDuration.WithLabelValues(string(mediaType)).Observe(time.Since(start).Seconds())
	}()
	metrics.RecommendationRequests.WithLabelValues(string(mediaType)).Inc()

	profile := e.profiles.Profile(ctx, userID)
	if !profile.HasSignal() {
		// Nothing to rank against; skip all network work. The page
		// number resets to 1 since there is nothing to paginate.
		return &Page{Results: []ScoredItem{}, Page: 1, TotalPages: 0}, nil
	}
	prefs := e.profiles.ExplicitPreferences(ctx, userID)

	seen, err := e.seen.SeenKeys(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("seen-set lookup failed, recommending without exclusions")
		seen = map[string]struct{}{}
	}

	pool, totalDiscoverPages := e.fetchCandidatePool(ctx, mediaType, prefs, page)

	scorer := NewScorer(profile, prefs)
	shallow := e.shallowPass(scorer, pool, mediaType, seen)

	promising := int(math.Ceil(float64(pageSize) * e.cfg.PromisingFactor))
	if len(shallow) > promising {
		shallow = shallow[:promising]
	}

	results := e.detailedPass(ctx, scorer, shallow)
	if len(results) > pageSize {
		results = results[:pageSize]
	}

	return &Page{
		Results:    results,
		Page:       page,
		TotalPages: totalDiscoverPages / e.cfg.PagesPerRequest,
	}, nil
}

// buildDiscoverFilters translates explicit preferences into discovery
// query parameters so the candidate pool is pre-biased before scoring.
// Liked genres and preferred languages OR together; disliked genres are
// an AND exclusion.
func buildDiscoverFilters(prefs *taste.ExplicitPreferences) map[string]string {
	filters := map[string]string{"sort_by": "popularity.desc"}
	if prefs == nil {
		return filters
	}
	if len(prefs.Genres.Liked) > 0 {
		filters["with_genres"] = joinIDs(prefs.Genres.Liked, "|")
	}
	if len(prefs.Genres.Disliked) > 0 {
		filters["without_genres"] = joinIDs(prefs.Genres.Disliked, ",")
	}
	if len(prefs.Languages) > 0 {
		filters["with_original_language"] = strings.Join(prefs.Languages, "|")
	}
	return filters
}

func joinIDs(ids []int, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, sep)
}

// fetchCandidatePool fetches the discovery pages backing one
// recommendation page concurrently and returns the combined rows plus
// the capped total-pages figure from the first requested page. Page
// failures leave a hole in the pool instead of failing the request; a
// failed first page reports zero total pages even when later pages
// responded.
func (e *Engine) fetchCandidatePool(ctx context.Context, mediaType media.Type, prefs *taste.ExplicitPreferences, page int) ([]media.Item, int) {
	filters := buildDiscoverFilters(prefs)
	startPage := (page-1)*e.cfg.PagesPerRequest + 1

	pages := make([]*media.DiscoverPage, e.cfg.PagesPerRequest)
	var g errgroup.Group
	for i := 0; i < e.cfg.PagesPerRequest; i++ {
		g.Go(func() error {
			result, err := e.discover.DiscoverMedia(ctx, mediaType, filters, startPage+i)
			if err != nil {
				e.logger.Warn().Err(err).Int("page", startPage+i).Msg("discover page fetch failed")
				metrics.RecommendationDiscoverErrors.WithLabelValues(string(mediaType)).Inc()
				return nil
			}
			pages[i] = result
			return nil
		})
	}
	_ = g.Wait()

	totalPages := 0
	if first := pages[0]; first != nil {
		totalPages = first.TotalPages
		if totalPages > e.cfg.MaxDiscoverPages {
			totalPages = e.cfg.MaxDiscoverPages
		}
	}

	var pool []media.Item
	for _, p := range pages {
		if p == nil {
			continue
		}
		pool = append(pool, p.Results...)
	}
	return pool, totalPages
}

type shallowCandidate struct {
	item  media.Item
	score float64
}

// shallowPass deduplicates the pool by id (last row wins), drops
// already-tracked items, scores the rest from list-level fields and
// returns the positive scorers in descending order.
func (e *Engine) shallowPass(scorer *Scorer, pool []media.Item, mediaType media.Type, seen map[string]struct{}) []shallowCandidate {
	unique := make(map[int]media.Item, len(pool))
	order := make([]int, 0, len(pool))
	for _, item := range pool {
		if _, dup := unique[item.ID]; !dup {
			order = append(order, item.ID)
		}
		unique[item.ID] = item
	}

	candidates := make([]shallowCandidate, 0, len(order))
	for _, id := range order {
		item := unique[id]
		itemType := item.MediaType
		if itemType == "" {
			itemType = mediaType
		}
		if _, tracked := seen[media.Key(itemType, item.ID)]; tracked {
			continue
		}
		score := scorer.ScoreShallow(&item)
		if score <= 0 {
			continue
		}
		item.MediaType = itemType
		candidates = append(candidates, shallowCandidate{item: item, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

// detailedPass fetches full details for the promising candidates
// concurrently, rescores with credits and returns the positive scorers
// in descending order. Individual fetch failures drop that candidate.
func (e *Engine) detailedPass(ctx context.Context, scorer *Scorer, promising []shallowCandidate) []ScoredItem {
	fetched := make([]*media.Details, len(promising))
	var g errgroup.Group
	g.SetLimit(e.cfg.DetailConcurrency)
	for i, c := range promising {
		g.Go(func() error {
			d, err := e.details.GetMediaDetails(ctx, c.item.MediaType, c.item.ID)
			if err != nil {
				e.logger.Debug().Err(err).Str("key", media.Key(c.item.MediaType, c.item.ID)).Msg("detail fetch failed, dropping candidate")
				return nil
			}
			fetched[i] = d
			return nil
		})
	}
	_ = g.Wait()

	results := make([]ScoredItem, 0, len(promising))
	for _, d := range fetched {
		if d == nil {
			continue
		}
		score := scorer.ScoreDetailed(d)
		if score <= 0 {
			continue
		}
		results = append(results, ScoredItem{
			Details:   *d,
			MediaType: d.MediaType(),
			Score:     score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
