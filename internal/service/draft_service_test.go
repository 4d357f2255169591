package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"github.com/smartintruesdell/CubeCobra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestDraft creates a cube of 20 cards and starts a draft on it with the
// owner in seat 0.
func startTestDraft(t *testing.T, testDB *testutil.TestDB, services *service.Services, seats int) (*domain.Draft, *domain.Viewer) {
	t.Helper()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	cube := testutil.NewCubeBuilder().
		WithOwner(owner).
		WithCards(testutil.SeedCards(t, testDB.DB, 20)...).
		Build(t, testDB.DB)

	viewer := viewerOf(owner)
	d, err := services.Draft.StartDraft(context.Background(), viewer, cube.ID, service.StartDraftInput{Seats: seats})
	require.NoError(t, err)
	return d, viewer
}

// seatResult picks the first card of every pack the seat opened.
func seatResult(d *domain.Draft, seat int) service.SeatResult {
	var picks, trash []int
	for _, pack := range d.PacksForSeat(seat) {
		picks = append(picks, pack.CardIndices[0])
		trash = append(trash, pack.CardIndices[1:]...)
	}
	return service.SeatResult{Drafted: picks, PickOrder: picks, TrashOrder: trash}
}

func TestDraftService_StartDraft(t *testing.T) {
	testDB, services := newTestServices(t)
	notifier := &recordingNotifier{}
	services.Draft.SetNotifier(notifier)

	d, viewer := startTestDraft(t, testDB, services, 0)

	assert.Len(t, d.Seats, 4, "seat count defaults from config")
	assert.Len(t, d.Cards, 4*2*5)
	testutil.AssertPoolCovers(t, d)
	assert.Equal(t, viewer.DisplayName, d.Seats[0].Name)
	require.NotNil(t, d.OwnerID)
	assert.Equal(t, viewer.UserID, *d.OwnerID)
	require.Len(t, notifier.started, 1)

	stored, err := services.Draft.GetDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.InitialState.Data().Seeds(), stored.InitialState.Data().Seeds())

	drafts, err := services.Draft.ListDrafts(context.Background(), d.CubeID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestDraftService_StartDraft_Errors(t *testing.T) {
	testDB, services := newTestServices(t)
	ctx := context.Background()

	_, err := services.Draft.StartDraft(ctx, nil, uuid.New(), service.StartDraftInput{})
	assert.ErrorIs(t, err, service.ErrCubeNotFound)

	small := testutil.NewCubeBuilder().WithCards(testutil.SeedCards(t, testDB.DB, 3)...).Build(t, testDB.DB)
	_, err = services.Draft.StartDraft(ctx, nil, small.ID, service.StartDraftInput{Seats: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientCards)

	_, err = services.Draft.StartDraft(ctx, nil, small.ID, service.StartDraftInput{Seats: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = services.Draft.GetDraft(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrDraftNotFound)
}

func TestDraftService_SubmitSeat(t *testing.T) {
	testDB, services := newTestServices(t)
	ctx := context.Background()
	d, owner := startTestDraft(t, testDB, services, 2)

	stranger := &domain.Viewer{UserID: uuid.New(), DisplayName: "stranger"}

	tests := []struct {
		name    string
		viewer  *domain.Viewer
		seat    int
		result  service.SeatResult
		wantErr error
	}{
		{name: "seat out of range", viewer: owner, seat: 2, result: seatResult(d, 0), wantErr: domain.ErrValidation},
		{name: "someone else's seat", viewer: stranger, seat: 0, result: seatResult(d, 0), wantErr: service.ErrForbidden},
		{name: "anonymous on a claimed seat", viewer: nil, seat: 0, result: seatResult(d, 0), wantErr: service.ErrForbidden},
		{name: "index outside pool", viewer: owner, seat: 0, result: service.SeatResult{PickOrder: []int{len(d.Cards)}}, wantErr: domain.ErrValidation},
		{name: "own seat", viewer: owner, seat: 0, result: seatResult(d, 0)},
		{name: "same seat again", viewer: owner, seat: 0, result: seatResult(d, 0), wantErr: service.ErrSeatAlreadySubmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.Draft.SubmitSeat(ctx, tt.viewer, d.ID, tt.seat, tt.result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Seats[tt.seat].Submitted)
			assert.Equal(t, tt.result.PickOrder, got.Seats[tt.seat].PickOrder)
			assert.False(t, got.IsComplete())
		})
	}

	assert.ErrorIs(t, service.ErrSeatAlreadySubmitted, domain.ErrConflict)
}

func TestDraftService_CompletionFoldsAnalytics(t *testing.T) {
	testDB, services := newTestServices(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	services.Draft.SetNotifier(notifier)

	d, owner := startTestDraft(t, testDB, services, 3)

	// bot seats first, the human seat completes the draft
	for seat := 1; seat < 3; seat++ {
		got, err := services.Draft.SubmitSeat(ctx, nil, d.ID, seat, seatResult(d, seat))
		require.NoError(t, err)
		assert.False(t, got.IsComplete())
	}
	done, err := services.Draft.SubmitSeat(ctx, owner, d.ID, 0, seatResult(d, 0))
	require.NoError(t, err)
	assert.True(t, done.IsComplete())
	assert.NotNil(t, done.CompletedAt)

	analytic, err := services.Analytics.Get(ctx, d.CubeID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytic.Drafts)

	var picks int
	for _, stat := range analytic.Cards.Data() {
		picks += stat.Picks
	}
	assert.Equal(t, 3*2, picks, "one pick per seat per round")

	assert.Equal(t, []int{1, 2, 0}, notifier.submitted)
	assert.Len(t, notifier.completed, 1)

	_, err = services.Draft.SubmitSeat(ctx, owner, d.ID, 0, seatResult(d, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// cancelOnSubmit cancels the request context once the completing seat has been
// written, before the analytics fold runs.
type cancelOnSubmit struct {
	recordingNotifier
	cancel context.CancelFunc
}

func (n *cancelOnSubmit) SeatSubmitted(d *domain.Draft, seat int) {
	n.recordingNotifier.SeatSubmitted(d, seat)
	if d.IsComplete() {
		n.cancel()
	}
}

func TestDraftService_FoldSurvivesCancelledRequest(t *testing.T) {
	testDB, services := newTestServices(t)
	d, owner := startTestDraft(t, testDB, services, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier := &cancelOnSubmit{cancel: cancel}
	services.Draft.SetNotifier(notifier)

	_, err := services.Draft.SubmitSeat(ctx, nil, d.ID, 1, seatResult(d, 1))
	require.NoError(t, err)
	done, err := services.Draft.SubmitSeat(ctx, owner, d.ID, 0, seatResult(d, 0))
	require.NoError(t, err)
	require.True(t, done.IsComplete())
	require.Error(t, ctx.Err())

	analytic, err := services.Analytics.Get(context.Background(), d.CubeID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytic.Drafts)
	assert.Len(t, notifier.completed, 1)
}

func TestDraftService_ConcurrentSubmissionsFoldOnce(t *testing.T) {
	testDB, services := newTestServices(t)
	ctx := context.Background()
	d, owner := startTestDraft(t, testDB, services, 4)

	var wg sync.WaitGroup
	errs := make([]error, len(d.Seats))
	for seat := range d.Seats {
		viewer := owner
		if seat > 0 {
			viewer = nil
		}
		wg.Add(1)
		go func(seat int, viewer *domain.Viewer) {
			defer wg.Done()
			_, errs[seat] = services.Draft.SubmitSeat(ctx, viewer, d.ID, seat, seatResult(d, seat))
		}(seat, viewer)
	}
	wg.Wait()

	for seat, err := range errs {
		assert.NoError(t, err, "seat %d", seat)
	}

	stored, err := services.Draft.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsComplete())
	assert.Equal(t, 1+len(d.Seats), stored.Version)

	analytic, err := services.Analytics.Get(ctx, d.CubeID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytic.Drafts)
}

func TestDraftService_Redraft(t *testing.T) {
	testDB, services := newTestServices(t)
	ctx := context.Background()
	d, owner := startTestDraft(t, testDB, services, 4)

	_, err := services.Draft.Redraft(ctx, owner, d.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	ts := &testutil.TestServer{DB: testDB, Services: services}
	done := testutil.CompleteDraft(t, ts, d)
	require.True(t, done.IsComplete())

	_, err = services.Draft.Redraft(ctx, owner, d.ID, 4)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = services.Draft.Redraft(ctx, owner, uuid.New(), 0)
	assert.ErrorIs(t, err, service.ErrDraftNotFound)

	re, err := services.Draft.Redraft(ctx, owner, d.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, re.SourceDraftID)
	assert.Equal(t, d.ID, *re.SourceDraftID)
	assert.Equal(t, 2, re.SeatOffset)

	testutil.AssertSeatNames(t, re.Seats, owner.DisplayName, "Bot 2", "Bot 3", "Bot 4")

	stored, err := services.Draft.GetDraft(ctx, re.ID)
	require.NoError(t, err)
	assert.Equal(t, d.PacksForSeat(2), stored.PacksForSeat(0))
	testutil.AssertPoolCovers(t, stored)
	assert.False(t, stored.IsComplete())

	source, err := services.Draft.GetDraft(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, source.IsComplete())
	assert.Equal(t, 0, source.SeatOffset)
}
