package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/repository"
	"github.com/alexanderramin/threadlog/internal/testutil"
)

const testDate = "2025-06-15"

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
	orgs   []string
}

func (n *recordingNotifier) Publish(_ context.Context, orgID string, ev domain.ChangeEvent) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orgs = append(n.orgs, orgID)
	n.events = append(n.events, ev)
	return 1
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type serviceFixture struct {
	store     *repository.SQLiteStore
	notifier  *recordingNotifier
	worklogs  WorkLogService
	dashboard DashboardService
	org       *domain.Organization
	employees []*domain.Employee
}

func newServiceFixture(t *testing.T, names ...string) *serviceFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStore(database, nil)
	org := testutil.NewTestOrganization("Acme", testutil.WithDepartments("Engineering", "Design"))
	emps := testutil.SeedRoster(t,
		repository.NewSQLiteOrganizationRepo(database),
		repository.NewSQLiteEmployeeRepo(database),
		org, names...)
	n := &recordingNotifier{}
	return &serviceFixture{
		store:     store,
		notifier:  n,
		worklogs:  NewWorkLogService(store, n),
		dashboard: NewDashboardService(store),
		org:       org,
		employees: emps,
	}
}

func (f *serviceFixture) employeeActor(i int) domain.Actor {
	return domain.Actor{OrganizationID: f.org.ID, EmployeeID: f.employees[i].ID, Role: domain.RoleEmployee}
}

func (f *serviceFixture) adminActor() domain.Actor {
	return domain.Actor{OrganizationID: f.org.ID, EmployeeID: "admin-1", Role: domain.RoleAdmin}
}

func TestWorkLogService_UpsertStoresAndNotifies(t *testing.T) {
	f := newServiceFixture(t, "Ada")
	ctx := context.Background()

	stored, err := f.worklogs.Upsert(ctx, f.employeeActor(0), UpsertRequest{
		Date: testDate, Hour: 9, Status: "completed", Note: "standup",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, f.employees[0].ID, stored.EmployeeID)
	assert.Equal(t, f.org.ID, stored.OrganizationID)

	require.Equal(t, 1, f.notifier.count())
	ev := f.notifier.events[0]
	assert.Equal(t, f.org.ID, f.notifier.orgs[0])
	assert.Equal(t, domain.EventWorkLogUpdated, ev.EventType)
	assert.Equal(t, testDate, ev.Date)
	assert.Equal(t, 9, ev.Hour)
	assert.Equal(t, domain.StatusCompleted, ev.Status)
}

func TestWorkLogService_UpsertValidation(t *testing.T) {
	f := newServiceFixture(t, "Ada")
	ctx := context.Background()

	tests := []struct {
		name  string
		req   UpsertRequest
		field string
	}{
		{"hour too high", UpsertRequest{Date: testDate, Hour: 24, Status: "completed"}, "hour"},
		{"negative hour", UpsertRequest{Date: testDate, Hour: -1, Status: "completed"}, "hour"},
		{"unknown status", UpsertRequest{Date: testDate, Hour: 9, Status: "sleeping"}, "status"},
		{"non-canonical status", UpsertRequest{Date: testDate, Hour: 9, Status: "COMPLETED"}, "status"},
		{"bad date", UpsertRequest{Date: "15/06/2025", Hour: 9, Status: "completed"}, "date"},
		{"missing date", UpsertRequest{Hour: 9, Status: "completed"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.worklogs.Upsert(ctx, f.employeeActor(0), tt.req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Equal(t, 0, f.notifier.count(), "rejected writes publish nothing")
}

func TestWorkLogService_EmployeeCannotWriteForOthers(t *testing.T) {
	f := newServiceFixture(t, "Ada", "Grace")

	_, err := f.worklogs.Upsert(context.Background(), f.employeeActor(0), UpsertRequest{
		EmployeeID: f.employees[1].ID, Date: testDate, Hour: 9, Status: "completed",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, 0, f.notifier.count())
}

func TestWorkLogService_AdminWritesForOwnOrganizationOnly(t *testing.T) {
	f := newServiceFixture(t, "Ada")
	ctx := context.Background()

	_, err := f.worklogs.Upsert(ctx, f.adminActor(), UpsertRequest{
		EmployeeID: f.employees[0].ID, Date: testDate, Hour: 10, Status: "break",
	})
	require.NoError(t, err)

	_, err = f.worklogs.Upsert(ctx, f.adminActor(), UpsertRequest{
		EmployeeID: "ghost", Date: testDate, Hour: 10, Status: "break",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	outsider := domain.Actor{OrganizationID: "other-org", EmployeeID: "x", Role: domain.RoleAdmin}
	_, err = f.worklogs.Upsert(ctx, outsider, UpsertRequest{
		EmployeeID: f.employees[0].ID, Date: testDate, Hour: 10, Status: "break",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestWorkLogService_StoreFailureIsStoreUnavailable(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailingUoW{DB: database, FailOn: 1, Err: errors.New("database is locked")}
	n := &recordingNotifier{}
	svc := NewWorkLogService(repository.NewSQLiteStore(database, uow), n)

	_, err := svc.Upsert(context.Background(),
		domain.Actor{OrganizationID: "org-1", EmployeeID: "emp-1", Role: domain.RoleEmployee},
		UpsertRequest{Date: testDate, Hour: 9, Status: "completed"})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	var opErr *domain.OpError
	require.True(t, errors.As(err, &opErr))
	assert.NotEmpty(t, opErr.Op)
	assert.Equal(t, 0, n.count(), "nothing announced when the write failed")
}

func TestWorkLogService_StaleWriteIsNotAnnounced(t *testing.T) {
	f := newServiceFixture(t, "Ada")
	ctx := context.Background()
	svc := f.worklogs.(*workLogService)

	future := time.Now().UTC().Add(time.Hour)
	_, err := f.store.Read().WorkLogs.Upsert(ctx, testutil.NewTestEntry(f.employees[0], 9, domain.StatusCompleted,
		testutil.WithUpdatedAt(future)))
	require.NoError(t, err)

	svc.now = func() time.Time { return future.Add(-time.Minute) }
	stored, err := svc.Upsert(ctx, f.employeeActor(0), UpsertRequest{Date: testDate, Hour: 9, Status: "break"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status, "newer stored entry wins")
	assert.Equal(t, 0, f.notifier.count())
}

func TestWorkLogService_DayFillsPendingAndCounts(t *testing.T) {
	f := newServiceFixture(t, "Ada")
	ctx := context.Background()
	actor := f.employeeActor(0)

	for _, u := range []UpsertRequest{
		{Date: testDate, Hour: 9, Status: "completed"},
		{Date: testDate, Hour: 10, Status: "in-progress"},
		{Date: testDate, Hour: 12, Status: "break"},
		{Date: "2025-06-16", Hour: 9, Status: "completed"},
	} {
		_, err := f.worklogs.Upsert(ctx, actor, u)
		require.NoError(t, err)
	}

	view, err := f.worklogs.Day(ctx, actor, DayRequest{Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Row.Employee.Name)
	for h, slot := range view.Row.Slots {
		assert.Equal(t, h, slot.Hour)
	}
	assert.Equal(t, domain.StatusCompleted, view.Row.Slots[9].Status)
	assert.Equal(t, domain.StatusPending, view.Row.Slots[3].Status)
	assert.Equal(t, "", view.Row.Slots[3].Note)
	assert.Equal(t, 1, view.Counts[domain.StatusCompleted])
	assert.Equal(t, 1, view.Counts[domain.StatusInProgress])
	assert.Equal(t, 1, view.Counts[domain.StatusBreak])
	assert.Equal(t, 21, view.Counts[domain.StatusPending])
}

func TestWorkLogService_DayNothingLogged(t *testing.T) {
	f := newServiceFixture(t, "Ada")

	view, err := f.worklogs.Day(context.Background(), f.employeeActor(0), DayRequest{Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, domain.HoursPerDay, view.Counts[domain.StatusPending])
	assert.False(t, view.Row.IsActive())
}

func TestWorkLogService_DayAccess(t *testing.T) {
	f := newServiceFixture(t, "Ada", "Grace")
	ctx := context.Background()

	_, err := f.worklogs.Day(ctx, f.employeeActor(0), DayRequest{EmployeeID: f.employees[1].ID, Date: testDate})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	view, err := f.worklogs.Day(ctx, f.adminActor(), DayRequest{EmployeeID: f.employees[1].ID, Date: testDate})
	require.NoError(t, err)
	assert.Equal(t, "Grace", view.Row.Employee.Name)
}
