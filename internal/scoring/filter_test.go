package scoring_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
	"github.com/fairyhunter13/job-match-engine/internal/scoring"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func posting(id string, age time.Duration) domain.JobPosting {
	at := testNow.Add(-age)
	return domain.JobPosting{
		ExternalID: id,
		Title:      "Backend Engineer",
		Company:    "Acme",
		URL:        "https://jobs.example.com/" + id,
		PostedAt:   &at,
	}
}

func TestFilter_MissingFieldsAndStale(t *testing.T) {
	t.Parallel()
	f := scoring.NewFilter()
	profile := domain.DefaultProfile("u1")

	noTitle := posting("p1", time.Hour)
	noTitle.Title = ""
	noURL := posting("p2", time.Hour)
	noURL.URL = ""
	stale := posting("p3", 31*24*time.Hour)
	fresh := posting("p4", 29*24*time.Hour)
	undated := posting("p5", 0)
	undated.PostedAt = nil

	kept, stats := f.Apply(profile, []domain.JobPosting{noTitle, noURL, stale, fresh, undated}, nil, testNow)

	require.Len(t, kept, 2)
	assert.Equal(t, "p4", kept[0].ExternalID)
	// An unknown posted date is not grounds for exclusion.
	assert.Equal(t, "p5", kept[1].ExternalID)
	assert.Equal(t, 2, stats.MissingFields)
	assert.Equal(t, 1, stats.Stale)
}

func TestFilter_BlockedCompanyIsAbsolute(t *testing.T) {
	t.Parallel()
	f := scoring.NewFilter()
	profile := domain.DefaultProfile("u1")
	profile.BlockedCompanies = []string{"spamcorp"}

	blocked := posting("p1", time.Hour)
	blocked.Company = "SpamCorp International"
	blocked.SalaryMax = ptr(1e6)
	ok := posting("p2", time.Hour)

	kept, stats := f.Apply(profile, []domain.JobPosting{blocked, ok}, nil, testNow)

	require.Len(t, kept, 1)
	assert.Equal(t, "p2", kept[0].ExternalID)
	assert.Equal(t, 1, stats.BlockedCompany)
}

func TestFilter_LocationPolicy(t *testing.T) {
	t.Parallel()
	f := scoring.NewFilter()

	local := posting("local", time.Hour)
	local.Location = "Berlin, Germany"
	remote := posting("remote", time.Hour)
	remote.Remote = true
	elsewhere := posting("elsewhere", time.Hour)
	elsewhere.Location = "Lisbon"

	pool := []domain.JobPosting{local, remote, elsewhere}

	t.Run("remote ok keeps matches and remote", func(t *testing.T) {
		t.Parallel()
		profile := domain.CandidateProfile{UserID: "u1", LocationPreference: "berlin", RemoteOK: true}
		kept, stats := f.Apply(profile, pool, nil, testNow)
		require.Len(t, kept, 2)
		assert.Equal(t, "local", kept[0].ExternalID)
		assert.Equal(t, "remote", kept[1].ExternalID)
		assert.Equal(t, 1, stats.Location)
	})

	t.Run("on-site only requires a match", func(t *testing.T) {
		t.Parallel()
		profile := domain.CandidateProfile{UserID: "u1", LocationPreference: "berlin", RemoteOK: false}
		kept, _ := f.Apply(profile, pool, nil, testNow)
		require.Len(t, kept, 1)
		assert.Equal(t, "local", kept[0].ExternalID)
	})

	t.Run("no preference filters nothing", func(t *testing.T) {
		t.Parallel()
		profile := domain.CandidateProfile{UserID: "u1", RemoteOK: false}
		kept, _ := f.Apply(profile, pool, nil, testNow)
		assert.Len(t, kept, 3)
	})
}

func TestFilter_SalaryFloor(t *testing.T) {
	t.Parallel()
	f := scoring.NewFilter()
	profile := domain.DefaultProfile("u1")
	profile.SalaryMin = ptr(80000.0)

	unknown := posting("unknown", time.Hour)
	above := posting("above", time.Hour)
	above.SalaryMin = ptr(70000.0)
	above.SalaryMax = ptr(90000.0)
	below := posting("below", time.Hour)
	below.SalaryMax = ptr(60000.0)

	kept, stats := f.Apply(profile, []domain.JobPosting{unknown, above, below}, nil, testNow)

	require.Len(t, kept, 2)
	// Unknown salary is never excluded; max-or-min must clear the floor.
	assert.Equal(t, "unknown", kept[0].ExternalID)
	assert.Equal(t, "above", kept[1].ExternalID)
	assert.Equal(t, 1, stats.Salary)
}

func TestFilter_SeenExclusion(t *testing.T) {
	t.Parallel()
	f := scoring.NewFilter()
	profile := domain.DefaultProfile("u1")
	seen := map[string]struct{}{"p1": {}, "p3": {}}

	kept, stats := f.Apply(profile, []domain.JobPosting{
		posting("p1", time.Hour), posting("p2", time.Hour), posting("p3", time.Hour),
	}, seen, testNow)

	require.Len(t, kept, 1)
	assert.Equal(t, "p2", kept[0].ExternalID)
	assert.Equal(t, 2, stats.Seen)
}

func TestFilter_CapsMostRecentFirst(t *testing.T) {
	t.Parallel()
	f := scoring.Filter{MaxPoolSize: 2}
	profile := domain.DefaultProfile("u1")

	undated := posting("undated", 0)
	undated.PostedAt = nil
	pool := []domain.JobPosting{
		posting("old", 20*24*time.Hour),
		undated,
		posting("new", time.Hour),
		posting("mid", 5*24*time.Hour),
	}

	kept, stats := f.Apply(profile, pool, nil, testNow)

	require.Len(t, kept, 2)
	assert.Equal(t, "new", kept[0].ExternalID)
	assert.Equal(t, "mid", kept[1].ExternalID)
	assert.Equal(t, 2, stats.Capped)
}

func TestFilter_ZeroValueUsesDefaults(t *testing.T) {
	t.Parallel()
	var f scoring.Filter
	profile := domain.DefaultProfile("u1")

	pool := make([]domain.JobPosting, 0, scoring.DefaultMaxPoolSize+5)
	for i := 0; i < scoring.DefaultMaxPoolSize+5; i++ {
		pool = append(pool, posting(fmt.Sprintf("p%04d", i), time.Hour))
	}

	kept, stats := f.Apply(profile, pool, nil, testNow)
	assert.Len(t, kept, scoring.DefaultMaxPoolSize)
	assert.Equal(t, 5, stats.Capped)
}
