// Package match implements the Match Engine (spec §4.G): drives one
// InputTrack through its synthesized queries, fetching and scoring
// candidates with a bounded worker pool per query, and decides when to
// stop early. Grounded on original_source/matcher.py's
// best_beatport_match loop, with the candidate fetch pool modeled on
// services/duration_worker.go's bounded-goroutine pattern and the
// cancellation check on sync/context.go's IsCancelled idiom.
package match

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
	"catalogmatch/internal/mixparse"
	"catalogmatch/internal/pageparser"
	"catalogmatch/internal/query"
	"catalogmatch/internal/score"
)

// Searcher is the Search Adapter capability the engine depends on.
// Satisfied by *internal/search.Adapter; an interface here so tests
// can inject a fake instead of hitting the network.
type Searcher interface {
	Search(query string, urlsSeenSoFar int) []string
}

// Fetcher is the HTTP capability the engine depends on. Satisfied by
// *internal/httpfetch.Client.
type Fetcher interface {
	GetHTML(url string) (string, bool)
}

// Engine is the Match Engine capability.
type Engine struct {
	adapter Searcher
	fetch   Fetcher
	cfg     config.Settings
}

func New(adapter Searcher, fetch Fetcher, cfg config.Settings) *Engine {
	return &Engine{adapter: adapter, fetch: fetch, cfg: cfg}
}

// WithSettings returns a new Engine sharing this one's Search Adapter
// and Fetcher but evaluating every query under cfg instead, used to
// build the Playlist Driver's auto-research engine (a relaxed settings
// snapshot rerun over a shared HTTP session).
func (e *Engine) WithSettings(cfg config.Settings) *Engine {
	return &Engine{adapter: e.adapter, fetch: e.fetch, cfg: cfg}
}

// BestMatch runs the full query loop for one track and returns its
// MatchResult. ctx cancellation (from the Playlist Driver) and the
// per-track time budget both end the loop early with Cancelled set
// accordingly.
func (e *Engine) BestMatch(ctx context.Context, track catalog.InputTrack) catalog.MatchResult {
	budget := time.Duration(e.cfg.PerTrackTimeBudgetSec) * time.Second
	trackCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	queries := query.Synthesize(track.Title, track.Artists, track.OriginalTitle, e.cfg)
	if e.cfg.ReverseOrderQueries {
		reverseQueries(queries)
	}

	trackFlags := mixparse.ParseFlags(track.OriginalTitle)
	minQueries := e.cfg.EarlyExitMinQueries
	switch {
	case trackFlags.IsRemix:
		minQueries = e.cfg.EarlyExitMinQueriesRemix
	case trackFlags.IsOriginal:
		minQueries = e.cfg.EarlyExitMinQueriesOriginal
	}

	result := catalog.MatchResult{Track: track}
	seenURLs := make(map[catalog.CandidateURL]bool)
	seenGenericMatch := false

	for qi, q := range queries {
		select {
		case <-trackCtx.Done():
			result.Cancelled = true
			result.LastQueryIndex = qi - 1
			return e.finish(result)
		default:
		}

		start := time.Now()
		urls := e.adapter.Search(q.Text, len(seenURLs))
		var fresh []catalog.CandidateURL
		for _, u := range urls {
			cu := catalog.CandidateURL(u)
			if seenURLs[cu] {
				continue
			}
			seenURLs[cu] = true
			fresh = append(fresh, cu)
		}

		scored := e.fetchAndScore(trackCtx, track, q, qi, fresh, &seenGenericMatch)
		result.Candidates = append(result.Candidates, scored...)

		queryBest, queryBestIdx := bestOf(scored, e.cfg.MinAcceptScore)
		improved := false
		if queryBest != nil && (result.Winner == nil || betterCandidate(*queryBest, *result.Winner)) {
			result.Winner = queryBest
			improved = true
		}

		entry := catalog.QueryAuditEntry{
			QueryIndex:     qi,
			QueryText:      q.Text,
			CandidateCount: len(fresh),
			ElapsedMS:      time.Since(start).Milliseconds(),
			IsWinner:       improved,
		}
		if improved {
			entry.WinnerCandidateIndex = queryBestIdx
		}
		result.LastQueryIndex = qi

		stop := e.shouldStopPrimary(result.Winner, qi, minQueries, track) ||
			e.shouldStopFamily(result.Winner, qi, trackFlags)
		entry.IsStop = stop
		result.Audit = append(result.Audit, entry)
		if stop {
			break
		}
	}

	if result.Winner != nil {
		result.Winner.IsWinner = true
	}
	return e.finish(result)
}

func (e *Engine) finish(result catalog.MatchResult) catalog.MatchResult {
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		if result.Candidates[i].QueryIndex != result.Candidates[j].QueryIndex {
			return result.Candidates[i].QueryIndex < result.Candidates[j].QueryIndex
		}
		return result.Candidates[i].CandidateIndex < result.Candidates[j].CandidateIndex
	})
	if result.Winner != nil {
		for i := range result.Candidates {
			if result.Candidates[i].QueryIndex == result.Winner.QueryIndex &&
				result.Candidates[i].CandidateIndex == result.Winner.CandidateIndex {
				result.Candidates[i].IsWinner = true
				result.Winner = &result.Candidates[i]
				break
			}
		}
	}
	return result
}

// fetchAndScore runs a bounded pool of CandidateWorkers over urls,
// joined with a timeout (spec §4.G "max(6s, 3s*url_count) unless
// RUN_ALL_QUERIES"), and returns every scored candidate, winner or not.
func (e *Engine) fetchAndScore(ctx context.Context, track catalog.InputTrack, q catalog.Query, queryIndex int, urls []catalog.CandidateURL, seenGenericMatch *bool) []catalog.ScoredCandidate {
	if len(urls) == 0 {
		return nil
	}

	joinCtx := ctx
	var joinCancel context.CancelFunc
	if !e.cfg.RunAllQueries {
		timeout := 6 * time.Second
		if scaled := 3 * time.Second * time.Duration(len(urls)); scaled > timeout {
			timeout = scaled
		}
		joinCtx, joinCancel = context.WithTimeout(ctx, timeout)
		defer joinCancel()
	}

	results := make([]catalog.ScoredCandidate, len(urls))
	ok := make([]bool, len(urls))

	sem := make(chan struct{}, e.cfg.CandidateWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, u := range urls {
		i, u := i, u
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-joinCtx.Done():
				return
			}
			defer func() { <-sem }()

			html, fetched := e.fetch.GetHTML(string(u))
			if !fetched {
				return
			}
			parsed := pageparser.ParseTrackPage(html, u)

			mu.Lock()
			in := score.Input{
				TrackTitle:         track.Title,
				TrackOriginalTitle: track.OriginalTitle,
				TrackArtists:       track.Artists,
				QueryShape:         q.Shape,
				SeenGenericMatch:   *seenGenericMatch,
			}
			sc := score.Score(in, parsed, e.cfg)
			sc.QueryIndex = queryIndex
			sc.QueryText = q.Text
			sc.QueryShape = q.Shape
			sc.CandidateIndex = i
			if sc.BonusGenericPhrase > 0 {
				*seenGenericMatch = true
			}
			mu.Unlock()

			results[i] = sc
			ok[i] = true
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-joinCtx.Done():
	}

	var out []catalog.ScoredCandidate
	for i, present := range ok {
		if present {
			out = append(out, results[i])
		}
	}
	return out
}

func bestOf(scored []catalog.ScoredCandidate, minAccept float64) (*catalog.ScoredCandidate, int) {
	var best *catalog.ScoredCandidate
	bestIdx := -1
	for i := range scored {
		if !scored[i].GuardOK || scored[i].FinalScore < minAccept {
			continue
		}
		if best == nil || betterCandidate(scored[i], *best) {
			best = &scored[i]
			bestIdx = scored[i].CandidateIndex
		}
	}
	return best, bestIdx
}

// betterCandidate breaks ties deterministically by (query_index,
// candidate_index), spec §4.G's tie-break rule.
func betterCandidate(a, b catalog.ScoredCandidate) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if a.QueryIndex != b.QueryIndex {
		return a.QueryIndex < b.QueryIndex
	}
	return a.CandidateIndex < b.CandidateIndex
}

// shouldStopPrimary implements spec §4.G point 6: stop once a
// guard-passing winner clears EarlyExitScore, at least minQueries
// queries have run, its mix classification is compatible with the
// track's own (same original/extended/remix shape, or a permissible
// remixer identity match), and any requested generic decoration phrase
// is actually satisfied by the winning title.
func (e *Engine) shouldStopPrimary(winner *catalog.ScoredCandidate, queryIndex, minQueries int, track catalog.InputTrack) bool {
	if winner == nil {
		return false
	}
	if winner.FinalScore < e.cfg.EarlyExitScore {
		return false
	}
	if queryIndex+1 < minQueries {
		return false
	}
	if e.cfg.EarlyExitRequireMixOK {
		trackFlags := mixparse.ParseFlags(track.OriginalTitle)
		winnerFlags := mixparse.ParseFlags(winner.Title)
		if !mixCompatible(trackFlags, winnerFlags) {
			return false
		}
	}
	if !genericPhraseSatisfied(track, winner.Title) {
		return false
	}
	return true
}

// mixCompatible reports whether a candidate's mix classification is
// close enough to the track's own to stop searching for a better
// match: either the original/extended/remix shape matches exactly, or
// both are remixes credited to the same remixer.
func mixCompatible(track, cand mixparse.Flags) bool {
	if track.IsOriginal == cand.IsOriginal && track.IsExtended == cand.IsExtended && track.IsRemix == cand.IsRemix {
		return true
	}
	if track.IsRemix && cand.IsRemix && track.RemixerName != "" && cand.RemixerName != "" {
		return strings.EqualFold(track.RemixerName, cand.RemixerName)
	}
	return false
}

// genericPhraseSatisfied reports whether a decoration phrase the track
// title asked for (e.g. "(Ivory Re-fire)") is actually present in the
// candidate title, when one was requested at all.
func genericPhraseSatisfied(track catalog.InputTrack, candTitle string) bool {
	phrases := mixparse.GenericParentheticalPhrases(track.OriginalTitle)
	if len(phrases) == 0 {
		return true
	}
	for _, phrase := range phrases {
		if mixparse.PhraseTokenSetInTitle(phrase, candTitle) {
			return true
		}
	}
	return false
}

// shouldStopFamily implements spec §4.G point 7, the family-consensus
// exit: a single winning query shaped as a full-title-plus-one-artist
// search that clears EarlyExitFamilyScore is itself sufficient once at
// least EarlyExitFamilyAfter(Original) queries have run, without
// waiting for EarlyExitScore or any streak of same-shape queries.
func (e *Engine) shouldStopFamily(winner *catalog.ScoredCandidate, queryIndex int, trackFlags mixparse.Flags) bool {
	if winner == nil {
		return false
	}
	if winner.QueryShape != catalog.ShapeFullTitleOneArtist {
		return false
	}
	if winner.FinalScore <= e.cfg.EarlyExitFamilyScore {
		return false
	}
	after := e.cfg.EarlyExitFamilyAfter
	if trackFlags.IsOriginal {
		after = e.cfg.EarlyExitFamilyAfterOriginal
	}
	return queryIndex+1 >= after
}

func reverseQueries(qs []catalog.Query) {
	for i, j := 0, len(qs)-1; i < j; i, j = i+1, j-1 {
		qs[i], qs[j] = qs[j], qs[i]
	}
}
