package gap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/job-match-engine/internal/detect"
	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/gap"
	"github.com/fairyhunter13/job-match-engine/internal/skills"
)

func newTestAnalyzer() *gap.Analyzer {
	synonyms := skills.NewSynonymTable([][]string{
		{"postgresql", "postgres"},
		{"kubernetes", "k8s"},
	})
	detector := detect.NewDetector(map[string][]string{
		"finance":    {"bank", "trading", "payments"},
		"technology": {"software", "cloud", "api"},
	})
	demand := map[string]float64{"kubernetes": 0.8}
	learning := map[string]gap.LearningEntry{
		"kubernetes": {Weeks: 6, Resources: []string{"CKA curriculum"}},
	}
	return gap.NewAnalyzer(synonyms, detector, demand, learning)
}

func comparison(title string, missing ...string) domain.Comparison {
	return domain.Comparison{
		JobTitle:      title,
		Company:       "Acme",
		MissingSkills: missing,
		MatchScore:    0.5,
		Timestamp:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzer_FrequencyAndSort(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	entries, err := a.Analyze([]domain.Comparison{
		comparison("Engineer", "kubernetes", "terraform"),
		comparison("Engineer", "kubernetes"),
		comparison("Engineer", "kubernetes", "aws"),
		comparison("Engineer", "terraform"),
	}, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "kubernetes", entries[0].Skill)
	assert.Equal(t, 3, entries[0].Frequency)
	assert.InDelta(t, 0.75, entries[0].FrequencyRatio, 1e-9)

	assert.Equal(t, "terraform", entries[1].Skill)
	assert.Equal(t, 2, entries[1].Frequency)

	// Equal frequency sorts by skill name.
	assert.Equal(t, "aws", entries[2].Skill)
}

func TestAnalyzer_PriorityBoundariesAreStrict(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// 10 comparisons: missing from exactly 7 is 70% and stays "high".
	var batch []domain.Comparison
	for i := 0; i < 7; i++ {
		batch = append(batch, comparison("Engineer", "terraform"))
	}
	for i := 0; i < 3; i++ {
		batch = append(batch, comparison("Engineer"))
	}

	entries, err := a.Analyze(batch, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.70, entries[0].FrequencyRatio, 1e-9)
	assert.Equal(t, domain.PriorityHigh, entries[0].Priority)
}

func TestAnalyzer_PriorityTiers(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// Over 10 comparisons: 8 -> critical, 5 -> high, 3 -> medium, 2 -> low.
	var batch []domain.Comparison
	counts := map[string]int{"aws": 8, "terraform": 5, "kafka": 3, "rust": 2}
	for i := 0; i < 10; i++ {
		var missing []string
		for skill, n := range counts {
			if i < n {
				missing = append(missing, skill)
			}
		}
		batch = append(batch, comparison("Engineer", missing...))
	}

	entries, err := a.Analyze(batch, gap.Options{})
	require.NoError(t, err)

	bySkill := make(map[string]domain.SkillGapEntry, len(entries))
	for _, e := range entries {
		bySkill[e.Skill] = e
	}
	assert.Equal(t, domain.PriorityCritical, bySkill["aws"].Priority)
	assert.Equal(t, domain.PriorityHigh, bySkill["terraform"].Priority)
	assert.Equal(t, domain.PriorityMedium, bySkill["kafka"].Priority)
	assert.Equal(t, domain.PriorityLow, bySkill["rust"].Priority)
}

func TestAnalyzer_SynonymsMergeCounts(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	entries, err := a.Analyze([]domain.Comparison{
		comparison("Engineer", "postgres"),
		comparison("Engineer", "PostgreSQL"),
		comparison("Engineer", "postgres", "postgresql"), // one comparison, one count
	}, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "postgresql", entries[0].Skill)
	assert.Equal(t, 3, entries[0].Frequency)
	assert.InDelta(t, 1.0, entries[0].FrequencyRatio, 1e-9)
}

func TestAnalyzer_LexiconDefaults(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	entries, err := a.Analyze([]domain.Comparison{
		comparison("Engineer", "kubernetes", "cobol"),
	}, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bySkill := map[string]domain.SkillGapEntry{
		entries[0].Skill: entries[0],
		entries[1].Skill: entries[1],
	}

	known := bySkill["kubernetes"]
	assert.Equal(t, 0.8, known.IndustryDemand)
	assert.Equal(t, 6, known.LearningWeeks)
	assert.Equal(t, []string{"CKA curriculum"}, known.Resources)

	unknown := bySkill["cobol"]
	assert.Equal(t, 0.5, unknown.IndustryDemand)
	assert.Equal(t, 4, unknown.LearningWeeks)
	assert.NotEmpty(t, unknown.Resources)
}

func TestAnalyzer_ImprovementPotential(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// 2 occurrences at avg score 0.5 with demand 0.8:
	// min(0.15, 2*0.02) * (1-0.5) * 0.8 = 0.016.
	entries, err := a.Analyze([]domain.Comparison{
		comparison("Engineer", "kubernetes"),
		comparison("Engineer", "kubernetes"),
	}, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.016, entries[0].ImprovementPotential, 1e-9)
}

func TestAnalyzer_ImprovementPotentialCaps(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	// 20 occurrences cap the base at 0.15.
	var batch []domain.Comparison
	for i := 0; i < 20; i++ {
		batch = append(batch, comparison("Engineer", "kubernetes"))
	}
	entries, err := a.Analyze(batch, gap.Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 0.15*0.5*0.8, entries[0].ImprovementPotential, 1e-9)
}

func TestAnalyzer_IndustryFilter(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	finance := comparison("Trading Systems Engineer", "kdb")
	tech := comparison("Cloud Engineer", "kubernetes")
	tech.Company = "SoftwareWorks"

	t.Run("keyword narrows the batch", func(t *testing.T) {
		t.Parallel()
		entries, err := a.Analyze([]domain.Comparison{finance, tech}, gap.Options{Industry: "trading"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "kdb", entries[0].Skill)
	})

	t.Run("detector catches the industry without the literal keyword", func(t *testing.T) {
		t.Parallel()
		teller := comparison("Branch Teller Systems", "cobol")
		teller.JobText = "core banking payments processing"
		entries, err := a.Analyze([]domain.Comparison{teller, tech}, gap.Options{Industry: "finance"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "cobol", entries[0].Skill)
	})

	t.Run("nothing matches", func(t *testing.T) {
		t.Parallel()
		_, err := a.Analyze([]domain.Comparison{finance, tech}, gap.Options{Industry: "healthcare"})
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestAnalyzer_EmptyBatch(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()

	_, err := a.Analyze(nil, gap.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}
