package service_test

import (
	"sync"
	"testing"

	"github.com/smartintruesdell/CubeCobra/internal/carddb"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/logger"
	"github.com/smartintruesdell/CubeCobra/internal/recommend"
	"github.com/smartintruesdell/CubeCobra/internal/repository/postgres"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
)

func newTestServices(t *testing.T) (*testutil.TestDB, *service.Services) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	log := logger.Nop()
	recommender := recommend.NewClient("", cfg.RecommenderTimeout, cfg.RecommenderRPS, log)

	return testDB, service.NewServices(repos, carddb.NewRepoIndex(repos.Card), recommender, cfg, log)
}

func viewerOf(u *domain.User) *domain.Viewer {
	return &domain.Viewer{UserID: u.ID, DisplayName: u.DisplayName, IsAdmin: u.IsAdmin}
}

// recordingNotifier captures draft lifecycle events.
type recordingNotifier struct {
	mu        sync.Mutex
	started   []*domain.Draft
	submitted []int
	completed []*domain.Draft
}

func (n *recordingNotifier) DraftStarted(d *domain.Draft) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, d)
}

func (n *recordingNotifier) SeatSubmitted(d *domain.Draft, seat int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, seat)
}

func (n *recordingNotifier) DraftCompleted(d *domain.Draft) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, d)
}
