package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkLogFixture(t *testing.T) (*SQLiteWorkLogRepo, []*domain.Employee) {
	t.Helper()
	database := testutil.NewTestDB(t)
	org := testutil.NewTestOrganization("Acme")
	emps := testutil.SeedRoster(t, NewSQLiteOrganizationRepo(database), NewSQLiteEmployeeRepo(database), org, "Ada", "Grace")
	return NewSQLiteWorkLogRepo(database), emps
}

func TestWorkLogRepo_UpsertAndGet(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()

	entry := testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted, testutil.WithNote("standup"))
	stored, err := repo.Upsert(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, "standup", stored.Note)
	assert.True(t, entry.UpdatedAt.Equal(stored.UpdatedAt))

	got, err := repo.Get(ctx, entry.Key())
	require.NoError(t, err)
	assert.Equal(t, entry.OrganizationID, got.OrganizationID)
	assert.Equal(t, entry.EmployeeID, got.EmployeeID)
	assert.True(t, testutil.TestDay.Equal(got.Date))
	assert.Equal(t, 9, got.Hour)
}

func TestWorkLogRepo_UpsertReplacesAtSameKey(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusInProgress, testutil.WithUpdatedAt(base)))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted,
		testutil.WithNote("done"), testutil.WithUpdatedAt(base.Add(time.Minute))))
	require.NoError(t, err)

	entries, err := repo.ListByEmployeeAndDate(ctx, emps[0].ID, testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one row per key")
	assert.Equal(t, domain.StatusCompleted, entries[0].Status)
	assert.Equal(t, "done", entries[0].Note)
}

func TestWorkLogRepo_UpsertSameValuesTwiceIsStable(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	e := testutil.NewTestEntry(emps[0], 14, domain.StatusBreak, testutil.WithUpdatedAt(at))
	first, err := repo.Upsert(ctx, e)
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWorkLogRepo_OlderWriteDoesNotOverwrite(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()
	newer := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted, testutil.WithUpdatedAt(newer)))
	require.NoError(t, err)

	stale := testutil.NewTestEntry(emps[0], 9, domain.StatusInProgress, testutil.WithUpdatedAt(newer.Add(-time.Hour)))
	winner, err := repo.Upsert(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, winner.Status, "stale write must lose")
	assert.True(t, newer.Equal(winner.UpdatedAt))

	got, err := repo.Get(ctx, stale.Key())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestWorkLogRepo_EqualTimestampLastWriterWins(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted, testutil.WithUpdatedAt(at)))
	require.NoError(t, err)
	winner, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusBreak, testutil.WithUpdatedAt(at)))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBreak, winner.Status)
}

func TestWorkLogRepo_GetAbsentHourIsNotFound(t *testing.T) {
	repo, emps := newWorkLogFixture(t)

	_, err := repo.Get(context.Background(), domain.WorkLogKey{
		OrganizationID: emps[0].OrganizationID,
		EmployeeID:     emps[0].ID,
		Date:           testutil.TestDay,
		Hour:           3,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWorkLogRepo_ListByEmployeeAndDate(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()

	for _, h := range []int{14, 9, 10} {
		_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], h, domain.StatusCompleted))
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted,
		testutil.WithDate(testutil.TestDay.AddDate(0, 0, 1))))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testutil.NewTestEntry(emps[1], 9, domain.StatusBreak))
	require.NoError(t, err)

	entries, err := repo.ListByEmployeeAndDate(ctx, emps[0].ID, testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, entries, 3, "other days and other employees excluded")
	assert.Equal(t, 9, entries[0].Hour)
	assert.Equal(t, 10, entries[1].Hour)
	assert.Equal(t, 14, entries[2].Hour)
}

func TestWorkLogRepo_ListByEmployeeAndDate_NothingLogged(t *testing.T) {
	repo, emps := newWorkLogFixture(t)

	entries, err := repo.ListByEmployeeAndDate(context.Background(), emps[0].ID, testutil.TestDay)
	require.NoError(t, err)
	assert.Empty(t, entries, "absent hours are not synthesized by the store")
}

func TestWorkLogRepo_ListByOrganizationAndDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	orgs := NewSQLiteOrganizationRepo(database)
	employees := NewSQLiteEmployeeRepo(database)
	repo := NewSQLiteWorkLogRepo(database)
	ctx := context.Background()

	acme := testutil.SeedRoster(t, orgs, employees, testutil.NewTestOrganization("Acme"), "Ada", "Grace")
	other := testutil.SeedRoster(t, orgs, employees, testutil.NewTestOrganization("Globex"), "Linus")

	_, err := repo.Upsert(ctx, testutil.NewTestEntry(acme[0], 9, domain.StatusCompleted))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testutil.NewTestEntry(acme[1], 14, domain.StatusBreak))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testutil.NewTestEntry(other[0], 9, domain.StatusCompleted))
	require.NoError(t, err)

	entries, err := repo.ListByOrganizationAndDate(ctx, acme[0].OrganizationID, testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, acme[0].OrganizationID, e.OrganizationID)
	}

	grouped := GroupByEmployee(entries)
	assert.Len(t, grouped[acme[0].ID], 1)
	assert.Len(t, grouped[acme[1].ID], 1)
}

func TestWorkLogRepo_SameHourIndependentPerEmployee(t *testing.T) {
	repo, emps := newWorkLogFixture(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testutil.NewTestEntry(emps[0], 9, domain.StatusCompleted))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testutil.NewTestEntry(emps[1], 9, domain.StatusBreak))
	require.NoError(t, err)

	a, err := repo.ListByEmployeeAndDate(ctx, emps[0].ID, testutil.TestDay)
	require.NoError(t, err)
	b, err := repo.ListByEmployeeAndDate(ctx, emps[1].ID, testutil.TestDay)
	require.NoError(t, err)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, domain.StatusCompleted, a[0].Status)
	assert.Equal(t, domain.StatusBreak, b[0].Status)
}

func TestWorkLogRepo_UnreadableRowIsStoreUnavailable(t *testing.T) {
	database := testutil.NewTestDB(t)
	org := testutil.NewTestOrganization("Acme")
	emps := testutil.SeedRoster(t, NewSQLiteOrganizationRepo(database), NewSQLiteEmployeeRepo(database), org, "Ada")
	repo := NewSQLiteWorkLogRepo(database)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO worklog_entries
		(organization_id, employee_id, work_date, hour, status, note, updated_at)
		VALUES (?, ?, ?, 9, 'completed', '', 'soon')`,
		org.ID, emps[0].ID, dateKey(testutil.TestDay))
	require.NoError(t, err)

	_, err = repo.ListByEmployeeAndDate(ctx, emps[0].ID, testutil.TestDay)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	var opErr *domain.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "scanning work log row", opErr.Op)

	_, err = repo.Get(ctx, domain.WorkLogKey{
		OrganizationID: org.ID, EmployeeID: emps[0].ID, Date: testutil.TestDay, Hour: 9,
	})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
