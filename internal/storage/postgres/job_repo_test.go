package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joshu-sajeev/recolour/internal/config"
	"github.com/joshu-sajeev/recolour/internal/job"
	"github.com/joshu-sajeev/recolour/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func createTestTicket(t *testing.T, db *gorm.DB, partnerID string) *models.Ticket {
	t.Helper()
	tk, err := NewTicketRepository(db).Create(context.Background(), &models.Ticket{
		PhotoSetID: "Ticket 1",
		Priority:   config.PriorityHigh,
		PartnerID:  partnerID,
	}, []string{"/assets/Ticket 1/a.jpg"})
	require.NoError(t, err)
	return tk
}

// fixedClock lets a test move the repository's notion of now.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestJobRepo(db *gorm.DB, clock *fixedClock) *JobRepository {
	repo := NewJobRepository(db)
	repo.now = clock.Now
	return repo
}

func TestJobRepository_Enqueue(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	tk := createTestTicket(t, db, "p1")

	first, err := repo.Enqueue(ctx, tk.ID, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusQueued, first.Status)
	assert.Equal(t, 0, first.Attempts)
	assert.Equal(t, 3, first.MaxAttempts)
	assert.Nil(t, first.LastError)
	assert.True(t, first.RunAfter.Equal(testBase))

	clock.Set(testBase.Add(time.Minute))
	second, err := repo.Enqueue(ctx, tk.ID, "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.MaxAttempts, "existing job must be returned unchanged")
	assert.True(t, second.RunAfter.Equal(testBase))

	var count int64
	require.NoError(t, db.Model(&models.Job{}).Where("ticket_id = ?", tk.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestJobRepository_Enqueue_DefaultMaxAttempts(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewJobRepository(db)
	tk := createTestTicket(t, db, "p1")

	j, err := repo.Enqueue(context.Background(), tk.ID, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxAttempts, j.MaxAttempts)
}

func TestJobRepository_Enqueue_Concurrent(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewJobRepository(db)
	tk := createTestTicket(t, db, "p1")

	var wg sync.WaitGroup
	ids := make([]string, 10)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j, err := repo.Enqueue(context.Background(), tk.ID, "p1", 3)
			if assert.NoError(t, err) {
				ids[i] = j.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	jobs, err := repo.List(context.Background(), job.ListFilter{TicketID: tk.ID})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestJobRepository_ClaimNextForPartner(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		clock.Set(testBase.Add(time.Duration(i) * time.Second))
		j, err := repo.Enqueue(ctx, createTestTicket(t, db, "p1").ID, "p1", 3)
		require.NoError(t, err)
		ids = append(ids, j.ID)
	}
	other, err := repo.Enqueue(ctx, createTestTicket(t, db, "p2").ID, "p2", 3)
	require.NoError(t, err)

	// the oldest job is backing off
	future := testBase.Add(time.Hour)
	require.NoError(t, repo.SetStatus(ctx, ids[0], config.JobStatusQueued, job.Patch{RunAfter: &future}))

	clock.Set(testBase.Add(time.Minute))

	claimed, err := repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, ids[1], claimed.ID)
	assert.Equal(t, config.JobStatusRunning, claimed.Status)

	claimed, err = repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, ids[2], claimed.ID)

	claimed, err = repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, claimed, "backing-off job must not be claimable yet")

	clock.Set(future)
	claimed, err = repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, ids[0], claimed.ID)

	stored, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusQueued, stored.Status, "other partner's job untouched")

	running, err := repo.CountRunning(ctx, "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, running)
}

func TestJobRepository_ClaimNextForPartner_Exclusive(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Enqueue(ctx, createTestTicket(t, db, "p1").ID, "p1", 3)
		require.NoError(t, err)
	}

	var (
		mu      sync.Mutex
		claimed = map[string]int{}
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := repo.ClaimNextForPartner(ctx, "p1")
			if !assert.NoError(t, err) || j == nil {
				return
			}
			mu.Lock()
			claimed[j.ID]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, 5)
	for id, n := range claimed {
		assert.Equal(t, 1, n, "job %s claimed more than once", id)
	}
}

func TestJobRepository_SetStatus(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	j, err := repo.Enqueue(ctx, createTestTicket(t, db, "p1").ID, "p1", 3)
	require.NoError(t, err)

	attempts := 1
	msg := "Simulated partner failure"
	runAfter := testBase.Add(2 * time.Second)
	clock.Set(testBase.Add(time.Second))
	require.NoError(t, repo.SetStatus(ctx, j.ID, config.JobStatusQueued, job.Patch{
		Attempts:  &attempts,
		LastError: &msg,
		RunAfter:  &runAfter,
	}))

	got, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.LastError)
	assert.Equal(t, msg, *got.LastError)
	assert.True(t, got.RunAfter.Equal(runAfter))
	assert.True(t, got.UpdatedAt.Equal(testBase.Add(time.Second)))

	// absent fields stay as they are
	clock.Set(testBase.Add(3 * time.Second))
	require.NoError(t, repo.SetStatus(ctx, j.ID, config.JobStatusDone, job.Patch{
		ClearError: true,
		Result:     datatypes.JSON(`{"delivered":true}`),
	}))

	got, err = repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusDone, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Nil(t, got.LastError)
	assert.True(t, got.RunAfter.Equal(runAfter))
	assert.JSONEq(t, `{"delivered":true}`, string(got.Result))
	assert.True(t, got.UpdatedAt.Equal(testBase.Add(3*time.Second)))
}

func TestJobRepository_SetStatus_NotFound(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewJobRepository(db)

	err := repo.SetStatus(context.Background(), "j_missing", config.JobStatusDone, job.Patch{})
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestJobRepository_GetByTicketID(t *testing.T) {
	db := SetupTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	tk := createTestTicket(t, db, "p1")
	_, err := repo.GetByTicketID(ctx, tk.ID)
	assert.ErrorIs(t, err, job.ErrJobNotFound)

	j, err := repo.Enqueue(ctx, tk.ID, "p1", 3)
	require.NoError(t, err)

	got, err := repo.GetByTicketID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)
}

func TestJobRepository_ResetToQueued(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	tk := createTestTicket(t, db, "p1")
	j, err := repo.Enqueue(ctx, tk.ID, "p1", 3)
	require.NoError(t, err)

	attempts := 3
	msg := "Simulated partner failure"
	require.NoError(t, repo.SetStatus(ctx, j.ID, config.JobStatusFailed, job.Patch{Attempts: &attempts, LastError: &msg}))

	clock.Set(testBase.Add(time.Hour))
	reset, err := repo.ResetToQueued(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, reset.ID)
	assert.Equal(t, config.JobStatusQueued, reset.Status)
	assert.Equal(t, 3, reset.Attempts)
	assert.Equal(t, 6, reset.MaxAttempts)
	assert.Nil(t, reset.LastError)
	assert.True(t, reset.RunAfter.Equal(testBase.Add(time.Hour)))

	_, err = repo.ResetToQueued(ctx, "t_missing")
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestJobRepository_ResetToQueued_LeavesActiveJobAlone(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	tk := createTestTicket(t, db, "p1")
	j, err := repo.Enqueue(ctx, tk.ID, "p1", 3)
	require.NoError(t, err)

	// queued job: nothing to reopen
	got, err := repo.ResetToQueued(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusQueued, got.Status)
	assert.Equal(t, 3, got.MaxAttempts)

	claimed, err := repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, claimed)
	assert.Equal(t, j.ID, claimed.ID)

	clock.Set(testBase.Add(time.Minute))
	got, err = repo.ResetToQueued(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)
	assert.Equal(t, config.JobStatusRunning, got.Status)
	assert.Equal(t, 3, got.MaxAttempts)

	again, err := repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, again, "a running job must not become claimable again")
}

func TestJobRepository_List(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	var ids []string
	for i, partnerID := range []string{"p1", "p2", "p1"} {
		clock.Set(testBase.Add(time.Duration(i) * time.Second))
		j, err := repo.Enqueue(ctx, createTestTicket(t, db, partnerID).ID, partnerID, 3)
		require.NoError(t, err)
		ids = append(ids, j.ID)
	}

	all, err := repo.List(ctx, job.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	p1, err := repo.List(ctx, job.ListFilter{PartnerID: "p1", Status: config.JobStatusQueued})
	require.NoError(t, err)
	assert.Len(t, p1, 2)
}

func TestJobRepository_RequeueStale(t *testing.T) {
	db := SetupTestDB(t)
	clock := &fixedClock{t: testBase}
	repo := newTestJobRepo(db, clock)
	ctx := context.Background()

	stale, err := repo.Enqueue(ctx, createTestTicket(t, db, "p1").ID, "p1", 3)
	require.NoError(t, err)
	fresh, err := repo.Enqueue(ctx, createTestTicket(t, db, "p2").ID, "p2", 3)
	require.NoError(t, err)

	claimed, err := repo.ClaimNextForPartner(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, claimed)

	clock.Set(testBase.Add(9 * time.Minute))
	claimed, err = repo.ClaimNextForPartner(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, claimed)

	clock.Set(testBase.Add(15 * time.Minute))
	n, err := repo.RequeueStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusQueued, got.Status)
	assert.Zero(t, got.Attempts)
	assert.True(t, got.RunAfter.Equal(testBase.Add(15*time.Minute)))

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, config.JobStatusRunning, got.Status)
}
