// Package driver implements the Playlist Driver (spec §4.H): fans a
// track list out across a bounded pool of TRACK_WORKERS, collects
// results back into input order, and reports progress. Grounded on
// services/duration_worker.go's panic-recovered worker shape and
// sync/context.go's cooperative-cancellation idiom, generalized from
// a single serial worker into a bounded concurrent pool per spec §5.
package driver

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
)

// MatchRunner is the Match Engine capability the driver depends on.
// Satisfied by *internal/match.Engine.
type MatchRunner interface {
	BestMatch(ctx context.Context, track catalog.InputTrack) catalog.MatchResult
}

// Driver is the Playlist Driver capability.
type Driver struct {
	engine   MatchRunner
	research MatchRunner
	cfg      config.Settings

	cancelled int32
}

func New(engine MatchRunner, cfg config.Settings) *Driver {
	return &Driver{engine: engine, cfg: cfg}
}

// WithAutoResearch attaches the engine used for spec §4.H's optional
// auto-research pass (typically the same Search Adapter/Fetcher bound
// to an enhanced config.Settings snapshot via Settings.ForAutoResearch).
// Run skips the pass entirely if this is never called or research is
// nil, or if cfg.AutoResearchEnabled is false.
func (d *Driver) WithAutoResearch(research MatchRunner) *Driver {
	d.research = research
	return d
}

// Cancel requests that any in-flight or not-yet-started Run stop
// processing further tracks. Safe to call from any goroutine.
func (d *Driver) Cancel() {
	atomic.StoreInt32(&d.cancelled, 1)
}

func (d *Driver) isCancelled() bool {
	return atomic.LoadInt32(&d.cancelled) == 1
}

// Run matches every track in tracks against the catalog, using up to
// TrackWorkers goroutines, and returns results in the same order as
// tracks regardless of completion order. progress may be nil; if
// provided it is invoked after each track completes and any panic it
// raises is recovered and logged rather than propagated (spec §4.H
// "a failing progress callback must not abort the run").
func (d *Driver) Run(ctx context.Context, tracks []catalog.InputTrack, progress catalog.ProgressFunc) []catalog.MatchResult {
	results := make([]catalog.MatchResult, len(tracks))
	start := time.Now()

	var completed, matched, unmatched int32
	var mu sync.Mutex

	workers := d.cfg.TrackWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				track := tracks[idx]

				if d.isCancelled() || ctx.Err() != nil {
					results[idx] = catalog.MatchResult{Track: track, Cancelled: true}
				} else {
					results[idx] = d.engine.BestMatch(ctx, track)
				}

				n := atomic.AddInt32(&completed, 1)
				if results[idx].Winner != nil {
					atomic.AddInt32(&matched, 1)
				} else {
					atomic.AddInt32(&unmatched, 1)
				}

				d.reportProgress(progress, &mu, track, int(n), len(tracks), int(atomic.LoadInt32(&matched)), int(atomic.LoadInt32(&unmatched)), start)
			}
		}()
	}

	for i := range tracks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if d.cfg.AutoResearchEnabled && d.research != nil && !d.isCancelled() && ctx.Err() == nil {
		d.runAutoResearch(ctx, tracks, results)
	}

	return results
}

// runAutoResearch implements spec §4.H's optional auto-research pass:
// for every track the primary pass left unmatched, rerun BestMatch
// once on d.research (bound to an enhanced settings snapshot) and
// replace the original MatchResult only if the rerun finds a winner.
// Reruns share the same TrackWorkers pool sizing and cancellation
// checks as the primary pass.
func (d *Driver) runAutoResearch(ctx context.Context, tracks []catalog.InputTrack, results []catalog.MatchResult) {
	var unmatched []int
	for i, r := range results {
		if r.Winner == nil && !r.Cancelled {
			unmatched = append(unmatched, i)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	workers := d.cfg.TrackWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if d.isCancelled() || ctx.Err() != nil {
					return
				}
				rerun := d.research.BestMatch(ctx, tracks[idx])
				if rerun.Winner != nil {
					results[idx] = rerun
				}
			}
		}()
	}
	for _, idx := range unmatched {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
}

func (d *Driver) reportProgress(progress catalog.ProgressFunc, mu *sync.Mutex, track catalog.InputTrack, completed, total, matched, unmatched int, start time.Time) {
	if progress == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("driver: progress callback panicked: %v", r)
		}
	}()

	info := catalog.ProgressInfo{
		CompletedTracks: completed,
		TotalTracks:     total,
		MatchedCount:    matched,
		UnmatchedCount:  unmatched,
		ElapsedSeconds:  time.Since(start).Seconds(),
		At:              time.Now(),
	}
	info.CurrentTrack.Title = track.Title
	info.CurrentTrack.Artists = track.Artists
	progress(info)
}
