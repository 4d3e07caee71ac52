// Package config loads the matcher's flat settings table from the
// environment (with .env support), following config/http.go's
// godotenv-in-init plus manual-override pattern.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// Settings is the flat key-value snapshot described in spec §6. A
// value is copied (not pointed to) into the Playlist Driver once per
// run so every engine observes the same settings for that run.
type Settings struct {
	TrackWorkers            int `env:"TRACK_WORKERS" envDefault:"12"`
	CandidateWorkers        int `env:"CANDIDATE_WORKERS" envDefault:"8"`
	PerTrackTimeBudgetSec   int `env:"PER_TRACK_TIME_BUDGET_SEC" envDefault:"25"`
	MaxQueriesPerTrack      int `env:"MAX_QUERIES_PER_TRACK" envDefault:"200"`
	MaxSearchResults        int `env:"MAX_SEARCH_RESULTS" envDefault:"50"`

	AdaptiveMaxResults bool `env:"ADAPTIVE_MAX_RESULTS" envDefault:"true"`
	MRLow              int  `env:"MR_LOW" envDefault:"15"`
	MRMed              int  `env:"MR_MED" envDefault:"40"`
	MRHigh             int  `env:"MR_HIGH" envDefault:"100"`

	TitleWeight  float64 `env:"TITLE_WEIGHT" envDefault:"0.55"`
	ArtistWeight float64 `env:"ARTIST_WEIGHT" envDefault:"0.45"`
	MinAcceptScore float64 `env:"MIN_ACCEPT_SCORE" envDefault:"55"`

	EarlyExitScore              float64 `env:"EARLY_EXIT_SCORE" envDefault:"95"`
	EarlyExitMinQueries         int     `env:"EARLY_EXIT_MIN_QUERIES" envDefault:"12"`
	EarlyExitMinQueriesOriginal int     `env:"EARLY_EXIT_MIN_QUERIES_ORIGINAL" envDefault:"8"`
	EarlyExitMinQueriesRemix    int     `env:"EARLY_EXIT_MIN_QUERIES_REMIX" envDefault:"6"`
	EarlyExitRequireMixOK       bool    `env:"EARLY_EXIT_REQUIRE_MIX_OK" envDefault:"true"`

	EarlyExitFamilyScore         float64 `env:"EARLY_EXIT_FAMILY_SCORE" envDefault:"93"`
	EarlyExitFamilyAfter         int     `env:"EARLY_EXIT_FAMILY_AFTER" envDefault:"8"`
	EarlyExitFamilyAfterOriginal int     `env:"EARLY_EXIT_FAMILY_AFTER_ORIGINAL" envDefault:"6"`

	TitleGramMax                    int  `env:"TITLE_GRAM_MAX" envDefault:"3"`
	FullTitleWithArtistOnly         bool `env:"FULL_TITLE_WITH_ARTIST_ONLY" envDefault:"true"`
	CrossTitleGramsWithArtists      bool `env:"CROSS_TITLE_GRAMS_WITH_ARTISTS" envDefault:"true"`
	CrossSmallOnly                  bool `env:"CROSS_SMALL_ONLY" envDefault:"true"`
	ReverseOrderQueries              bool `env:"REVERSE_ORDER_QUERIES" envDefault:"false"`
	PriorityReverseStage             bool `env:"PRIORITY_REVERSE_STAGE" envDefault:"true"`
	ReverseRemixHints                bool `env:"REVERSE_REMIX_HINTS" envDefault:"true"`
	AllowGenericArtistRemixHints     bool `env:"ALLOW_GENERIC_ARTIST_REMIX_HINTS" envDefault:"false"`

	RunAllQueries bool `env:"RUN_ALL_QUERIES" envDefault:"false"`

	EnableCache     bool   `env:"ENABLE_CACHE" envDefault:"false"`
	CacheDBDriver   string `env:"CACHE_DB_DRIVER" envDefault:"sqlite"`
	CacheTTLHours   int    `env:"CACHE_TTL_HOURS" envDefault:"24"`

	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`

	Seed int `env:"SEED" envDefault:"0"`

	GenericPhraseMatchBonus      int `env:"GENERIC_PHRASE_MATCH_BONUS" envDefault:"24"`
	GenericPhrasePlainPenalty    int `env:"GENERIC_PHRASE_PLAIN_PENALTY" envDefault:"14"`
	GenericPhraseOrigPenalty     int `env:"GENERIC_PHRASE_ORIG_PENALTY" envDefault:"18"`
	GenericPhraseExtPenalty      int `env:"GENERIC_PHRASE_EXT_PENALTY" envDefault:"8"`
	GenericPhraseStrictRejectSim int `env:"GENERIC_PHRASE_STRICT_REJECT_TSIM" envDefault:"96"`

	Verbose bool `env:"VERBOSE" envDefault:"false"`
	Trace   bool `env:"TRACE" envDefault:"false"`

	HTTPAPIEnabled bool   `env:"HTTP_API_ENABLED" envDefault:"false"`
	HTTPAPIAddr    string `env:"HTTP_API_ADDR" envDefault:":8088"`

	AutoResearchEnabled           bool    `env:"AUTO_RESEARCH_ENABLED" envDefault:"true"`
	AutoResearchTimeBudgetSec     int     `env:"AUTO_RESEARCH_TIME_BUDGET_SEC" envDefault:"45"`
	AutoResearchMaxSearchResults  int     `env:"AUTO_RESEARCH_MAX_SEARCH_RESULTS" envDefault:"100"`
	AutoResearchMaxQueriesPerTrack int    `env:"AUTO_RESEARCH_MAX_QUERIES_PER_TRACK" envDefault:"400"`
	AutoResearchMinAcceptScore    float64 `env:"AUTO_RESEARCH_MIN_ACCEPT_SCORE" envDefault:"45"`
}

// ForAutoResearch returns a copy of Settings with the per-track time
// budget, search breadth, and acceptance floor all relaxed for the
// Playlist Driver's auto-research rerun (spec §4.H), leaving every
// other setting (including the Scorer's weights and guard
// thresholds) untouched.
func (s Settings) ForAutoResearch() Settings {
	out := s
	out.PerTrackTimeBudgetSec = s.AutoResearchTimeBudgetSec
	out.MaxSearchResults = s.AutoResearchMaxSearchResults
	out.MaxQueriesPerTrack = s.AutoResearchMaxQueriesPerTrack
	out.MinAcceptScore = s.AutoResearchMinAcceptScore
	return out
}

// Default returns the settings table of spec §6 at its stated
// defaults (the Open Question decisions in DESIGN.md record where this
// module's defaults diverge from original_source/config.py).
func Default() Settings {
	return Settings{
		TrackWorkers:          12,
		CandidateWorkers:      8,
		PerTrackTimeBudgetSec: 25,
		MaxQueriesPerTrack:    200,
		MaxSearchResults:      50,

		AdaptiveMaxResults: true,
		MRLow:              15,
		MRMed:              40,
		MRHigh:             100,

		TitleWeight:    0.55,
		ArtistWeight:   0.45,
		MinAcceptScore: 55,

		EarlyExitScore:              95,
		EarlyExitMinQueries:         12,
		EarlyExitMinQueriesOriginal: 8,
		EarlyExitMinQueriesRemix:    6,
		EarlyExitRequireMixOK:       true,

		EarlyExitFamilyScore:         93,
		EarlyExitFamilyAfter:         8,
		EarlyExitFamilyAfterOriginal: 6,

		TitleGramMax:                 3,
		FullTitleWithArtistOnly:      true,
		CrossTitleGramsWithArtists:   true,
		CrossSmallOnly:               true,
		ReverseOrderQueries:          false,
		PriorityReverseStage:         true,
		ReverseRemixHints:            true,
		AllowGenericArtistRemixHints: false,

		RunAllQueries: false,

		EnableCache:   false,
		CacheDBDriver: "sqlite",
		CacheTTLHours: 24,

		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    10 * time.Second,

		Seed: 0,

		GenericPhraseMatchBonus:      24,
		GenericPhrasePlainPenalty:    14,
		GenericPhraseOrigPenalty:     18,
		GenericPhraseExtPenalty:      8,
		GenericPhraseStrictRejectSim: 96,

		HTTPAPIAddr: ":8088",

		AutoResearchEnabled:            true,
		AutoResearchTimeBudgetSec:      45,
		AutoResearchMaxSearchResults:   100,
		AutoResearchMaxQueriesPerTrack: 400,
		AutoResearchMinAcceptScore:     45,
	}
}

// Load returns Default() overridden by any recognized environment
// variables, mirroring config/http.go's loadHTTPConfig.
func Load() Settings {
	cfg := Default()

	getInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	getFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	getBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}
	getDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	getString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	getInt("TRACK_WORKERS", &cfg.TrackWorkers)
	getInt("CANDIDATE_WORKERS", &cfg.CandidateWorkers)
	getInt("PER_TRACK_TIME_BUDGET_SEC", &cfg.PerTrackTimeBudgetSec)
	getInt("MAX_QUERIES_PER_TRACK", &cfg.MaxQueriesPerTrack)
	getInt("MAX_SEARCH_RESULTS", &cfg.MaxSearchResults)
	getBool("ADAPTIVE_MAX_RESULTS", &cfg.AdaptiveMaxResults)
	getInt("MR_LOW", &cfg.MRLow)
	getInt("MR_MED", &cfg.MRMed)
	getInt("MR_HIGH", &cfg.MRHigh)
	getFloat("TITLE_WEIGHT", &cfg.TitleWeight)
	getFloat("ARTIST_WEIGHT", &cfg.ArtistWeight)
	getFloat("MIN_ACCEPT_SCORE", &cfg.MinAcceptScore)
	getFloat("EARLY_EXIT_SCORE", &cfg.EarlyExitScore)
	getInt("EARLY_EXIT_MIN_QUERIES", &cfg.EarlyExitMinQueries)
	getInt("EARLY_EXIT_MIN_QUERIES_ORIGINAL", &cfg.EarlyExitMinQueriesOriginal)
	getInt("EARLY_EXIT_MIN_QUERIES_REMIX", &cfg.EarlyExitMinQueriesRemix)
	getBool("EARLY_EXIT_REQUIRE_MIX_OK", &cfg.EarlyExitRequireMixOK)
	getFloat("EARLY_EXIT_FAMILY_SCORE", &cfg.EarlyExitFamilyScore)
	getInt("EARLY_EXIT_FAMILY_AFTER", &cfg.EarlyExitFamilyAfter)
	getInt("EARLY_EXIT_FAMILY_AFTER_ORIGINAL", &cfg.EarlyExitFamilyAfterOriginal)
	getInt("TITLE_GRAM_MAX", &cfg.TitleGramMax)
	getBool("FULL_TITLE_WITH_ARTIST_ONLY", &cfg.FullTitleWithArtistOnly)
	getBool("CROSS_TITLE_GRAMS_WITH_ARTISTS", &cfg.CrossTitleGramsWithArtists)
	getBool("CROSS_SMALL_ONLY", &cfg.CrossSmallOnly)
	getBool("REVERSE_ORDER_QUERIES", &cfg.ReverseOrderQueries)
	getBool("PRIORITY_REVERSE_STAGE", &cfg.PriorityReverseStage)
	getBool("REVERSE_REMIX_HINTS", &cfg.ReverseRemixHints)
	getBool("ALLOW_GENERIC_ARTIST_REMIX_HINTS", &cfg.AllowGenericArtistRemixHints)
	getBool("RUN_ALL_QUERIES", &cfg.RunAllQueries)
	getBool("ENABLE_CACHE", &cfg.EnableCache)
	getString("CACHE_DB_DRIVER", &cfg.CacheDBDriver)
	getInt("CACHE_TTL_HOURS", &cfg.CacheTTLHours)
	getDuration("CONNECT_TIMEOUT", &cfg.ConnectTimeout)
	getDuration("READ_TIMEOUT", &cfg.ReadTimeout)
	getInt("SEED", &cfg.Seed)
	getInt("GENERIC_PHRASE_MATCH_BONUS", &cfg.GenericPhraseMatchBonus)
	getInt("GENERIC_PHRASE_PLAIN_PENALTY", &cfg.GenericPhrasePlainPenalty)
	getInt("GENERIC_PHRASE_ORIG_PENALTY", &cfg.GenericPhraseOrigPenalty)
	getInt("GENERIC_PHRASE_EXT_PENALTY", &cfg.GenericPhraseExtPenalty)
	getInt("GENERIC_PHRASE_STRICT_REJECT_TSIM", &cfg.GenericPhraseStrictRejectSim)
	getBool("VERBOSE", &cfg.Verbose)
	getBool("TRACE", &cfg.Trace)
	getBool("HTTP_API_ENABLED", &cfg.HTTPAPIEnabled)
	getString("HTTP_API_ADDR", &cfg.HTTPAPIAddr)
	getBool("AUTO_RESEARCH_ENABLED", &cfg.AutoResearchEnabled)
	getInt("AUTO_RESEARCH_TIME_BUDGET_SEC", &cfg.AutoResearchTimeBudgetSec)
	getInt("AUTO_RESEARCH_MAX_SEARCH_RESULTS", &cfg.AutoResearchMaxSearchResults)
	getInt("AUTO_RESEARCH_MAX_QUERIES_PER_TRACK", &cfg.AutoResearchMaxQueriesPerTrack)
	getFloat("AUTO_RESEARCH_MIN_ACCEPT_SCORE", &cfg.AutoResearchMinAcceptScore)

	return cfg
}
