// Package catalog defines the data model shared across the matcher
// pipeline: the input contract, the intermediate candidate forms, and
// the final per-track result.
package catalog

import "time"

// InputTrack is one row supplied by the upstream library parser.
// Immutable once constructed.
type InputTrack struct {
	Index         int    `json:"index"`
	Title         string `json:"title"`
	Artists       string `json:"artists"`
	OriginalTitle string `json:"original_title"`
}

// QueryShape classifies a synthesized query for the Match Engine's
// early-exit and family-consensus predicates.
type QueryShape string

const (
	ShapeFullTitleOneArtist  QueryShape = "full_title_one_artist"
	ShapeFullTitleTwoArtists QueryShape = "full_title_two_artists"
	ShapeTitlePrefix         QueryShape = "title_prefix"
	ShapeGrammed             QueryShape = "grammed"
	ShapeRemixHint           QueryShape = "remix_hint"
	ShapePhraseDecorated     QueryShape = "phrase_decorated"
	ShapeReversed            QueryShape = "reversed"
)

// Query is a synthesized search query string tagged with its shape.
type Query struct {
	Text  string
	Shape QueryShape
}

// CandidateURL is an absolute URL matching the catalog's track-page
// pattern, deduplicated across all queries within one InputTrack.
type CandidateURL string

// ParsedCandidate is the structured result of parsing one CandidateURL.
// A failed parse is represented by an empty Title; it is still logged
// but is not scorable beyond a guard-failing ScoredCandidate.
type ParsedCandidate struct {
	URL         CandidateURL `json:"url"`
	Title       string       `json:"title"`
	Artists     string       `json:"artists"`
	Key         string       `json:"key,omitempty"`
	CamelotKey  string       `json:"camelot_key,omitempty"`
	ReleaseYear *int         `json:"release_year,omitempty"`
	BPM         string       `json:"bpm,omitempty"`
	Label       string       `json:"label,omitempty"`
	Genres      string       `json:"genres,omitempty"`
	ReleaseName string       `json:"release_name,omitempty"`
	ReleaseDate string       `json:"release_date,omitempty"`
}

// ScoredCandidate is a ParsedCandidate augmented with the Scorer's
// output and provenance within the Match Engine's query loop.
type ScoredCandidate struct {
	ParsedCandidate

	TitleSim           int     `json:"title_sim"`
	ArtistSim          int     `json:"artist_sim"`
	BaseScore          float64 `json:"base_score"`
	BonusYear          int     `json:"bonus_year"`
	BonusKey           int     `json:"bonus_key"`
	BonusMix           int     `json:"bonus_mix"`
	BonusGenericPhrase int     `json:"bonus_generic_phrase"`
	SpecialBonus       int     `json:"special_bonus"`
	BonusArtistMatch   int     `json:"bonus_artist_match"`
	PenaltyWrongArtist int     `json:"penalty_wrong_artist"`
	FinalScore         float64 `json:"final_score"`
	GuardOK            bool    `json:"guard_ok"`
	RejectReason       string  `json:"reject_reason,omitempty"`
	Confidence         string  `json:"confidence,omitempty"`

	QueryIndex     int        `json:"query_index"`
	QueryText      string     `json:"query_text"`
	QueryShape     QueryShape `json:"query_shape,omitempty"`
	CandidateIndex int        `json:"candidate_index"`
	ElapsedMS      int64      `json:"elapsed_ms"`
	IsWinner       bool       `json:"is_winner"`
}

// QueryAuditEntry records one executed query's outcome.
type QueryAuditEntry struct {
	QueryIndex           int    `json:"query_index"`
	QueryText            string `json:"query_text"`
	CandidateCount       int    `json:"candidate_count"`
	ElapsedMS            int64  `json:"elapsed_ms"`
	IsWinner             bool   `json:"is_winner"`
	WinnerCandidateIndex int    `json:"winner_candidate_index,omitempty"`
	IsStop               bool   `json:"is_stop"`
}

// MatchResult is the complete outcome of matching one InputTrack.
type MatchResult struct {
	Track           InputTrack        `json:"track"`
	Winner          *ScoredCandidate  `json:"winner,omitempty"`
	Candidates      []ScoredCandidate `json:"candidates"`
	Audit           []QueryAuditEntry `json:"audit"`
	LastQueryIndex  int               `json:"last_query_index"`
	Cancelled       bool              `json:"cancelled,omitempty"`
}

// ProgressInfo is delivered to a Playlist Driver progress callback.
// Callers must treat it as possibly invoked from any goroutine.
type ProgressInfo struct {
	CompletedTracks int
	TotalTracks     int
	MatchedCount    int
	UnmatchedCount  int
	CurrentTrack    struct {
		Title   string
		Artists string
	}
	ElapsedSeconds float64
	At             time.Time
}

// ProgressFunc is the progress callback contract. Implementations that
// panic are recovered and ignored by the driver.
type ProgressFunc func(ProgressInfo)
