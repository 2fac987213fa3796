// Command matchctl runs the matching engine against JSON fixtures: a
// candidate profile, a posting pool, and optional embedding/comparison
// history. It is a demo and debugging surface, not a server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/job-match-engine/internal/adapter/cache/rediscache"
	"github.com/fairyhunter13/job-match-engine/internal/adapter/ratelimit"
	"github.com/fairyhunter13/job-match-engine/internal/adapter/repo/memory"
	qdrantcli "github.com/fairyhunter13/job-match-engine/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/job-match-engine/internal/config"
	"github.com/fairyhunter13/job-match-engine/internal/detect"
	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/gap"
	"github.com/fairyhunter13/job-match-engine/internal/observability"
	"github.com/fairyhunter13/job-match-engine/internal/scoring"
	"github.com/fairyhunter13/job-match-engine/internal/skills"
	"github.com/fairyhunter13/job-match-engine/internal/usecase"
)

// fixture mirrors the JSON shape matchctl consumes.
type fixture struct {
	Profile     *domain.CandidateProfile `json:"profile"`
	Postings    []domain.JobPosting      `json:"postings"`
	Embeddings  [][]float32              `json:"embeddings"`
	Comparisons []domain.Comparison      `json:"comparisons"`
	Seen        []string                 `json:"seen"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "matchctl:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		mode        = flag.String("mode", "recommend", "recommend | gaps | match")
		fixturePath = flag.String("fixture", "", "path to the JSON fixture file")
		userID      = flag.String("user", "local", "user id inside the fixture")
		limit       = flag.Int("limit", 0, "max recommendations (0 = default)")
		excludeSeen = flag.Bool("exclude-seen", false, "drop postings already acted on")
		industry    = flag.String("industry", "", "industry keyword filter for gap analysis")
		target      = flag.String("target", "", "target skill for -mode match")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.SetupLogger(cfg.LogLevel, cfg.IsDev())
	slog.SetDefault(logger)
	observability.Register(prometheus.NewRegistry())

	lex, err := config.LoadLexicons(cfg.LexiconDir)
	if err != nil {
		return err
	}
	synonyms := skills.NewSynonymTable(lex.SynonymGroups)
	matcher := skills.NewMatcher(synonyms, lex.EmphasisMarkers)

	fix, err := loadFixture(*fixturePath)
	if err != nil {
		return err
	}

	ctx := observability.ContextWithLogger(context.Background(), logger)
	ctx = observability.ContextWithRequestID(ctx, observability.NewRequestID())

	switch *mode {
	case "match":
		if *target == "" {
			return fmt.Errorf("%w: -target is required for -mode match", domain.ErrInvalidArgument)
		}
		profile := fix.Profile
		if profile == nil {
			return fmt.Errorf("%w: fixture has no profile", domain.ErrInvalidArgument)
		}
		rec, ok := usecase.MatchSkill(matcher, *target, profile.Skills)
		if !ok {
			fmt.Println("no match")
			return nil
		}
		return printJSON(rec)

	case "gaps":
		analyzer := gap.NewAnalyzer(synonyms, detect.NewDetector(lex.Industries), lex.Demand, lex.Learning)
		store := storeFromFixture(fix, *userID)
		svc, err := usecase.NewSkillGapService(store, analyzer)
		if err != nil {
			return err
		}
		entries, err := svc.AnalyzeGapsForUser(ctx, usecase.GapRequest{
			UserID:   *userID,
			Industry: *industry,
			Window:   cfg.ComparisonWindow(),
		})
		if err != nil {
			return err
		}
		return printJSON(entries)

	case "recommend":
		engine, err := scoring.NewEngine(scoring.DefaultWeights(), matcher)
		if err != nil {
			return err
		}
		store := storeFromFixture(fix, *userID)
		deps := usecase.RecommendationDeps{
			Profiles:   store,
			Pool:       store,
			Embeddings: embeddingSource(cfg, store),
			Seen:       store,
			Limiter:    ratelimit.NewPerUser(cfg.RateLimitPerMin, cfg.RateLimitBurst),
			Engine:     engine,
			Filter: scoring.Filter{
				FreshnessWindow: cfg.FreshnessWindow(),
				MaxPoolSize:     cfg.MaxPoolSize,
			},
			EmbeddingRefs: cfg.EmbeddingRefs,
			ScoreWorkers:  cfg.ScoreWorkers,
			CacheTTL:      cfg.ResultCacheTTL,
		}
		if cfg.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			deps.Cache = rediscache.New(client, "jobmatch")
			deps.Limiter = ratelimit.NewRedisPerUser(client, cfg.RateLimitPerMin, cfg.RateLimitBurst)
		}
		svc, err := usecase.NewRecommendationService(deps)
		if err != nil {
			return err
		}
		results, err := svc.GetRecommendations(ctx, usecase.RecommendationRequest{
			UserID:      *userID,
			Limit:       *limit,
			ExcludeSeen: *excludeSeen,
		})
		if err != nil {
			return err
		}
		return printJSON(results)

	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidArgument, *mode)
	}
}

func loadFixture(path string) (fixture, error) {
	if path == "" {
		return fixture{}, fmt.Errorf("%w: -fixture is required", domain.ErrInvalidArgument)
	}
	// #nosec G304 -- fixture path comes from the -fixture flag.
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, err
	}
	var fix fixture
	if err := json.Unmarshal(raw, &fix); err != nil {
		return fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return fix, nil
}

func storeFromFixture(fix fixture, userID string) *memory.Store {
	store := memory.NewStore(domain.SystemClock)
	if fix.Profile != nil {
		p := *fix.Profile
		p.UserID = userID
		store.PutProfile(p)
	}
	store.AddPostings(fix.Postings...)
	if len(fix.Embeddings) > 0 {
		store.PutEmbeddings(userID, fix.Embeddings)
	}
	store.AddComparisons(userID, fix.Comparisons...)
	if len(fix.Seen) > 0 {
		store.MarkSeen(userID, fix.Seen...)
	}
	return store
}

// embeddingSource prefers Qdrant when configured, else fixture embeddings.
func embeddingSource(cfg config.Config, store *memory.Store) domain.EmbeddingHistoryRepository {
	if cfg.QdrantURL != "" {
		return qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)
	}
	return store
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
