package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/importer"
	"github.com/alexanderramin/threadlog/internal/repository"
	"github.com/alexanderramin/threadlog/internal/testutil"
)

const rosterYAML = `
organization:
  id: acme
  name: Acme
  departments: [Engineering]
employees:
  - id: ada
    name: Ada
    department: Engineering
  - id: grace
    name: Grace
`

func TestRosterService_ImportRoster(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStore(database, nil)
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rosterYAML), 0o644))

	result, err := NewRosterService(store).ImportRoster(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "acme", result.Organization.ID)
	assert.Equal(t, 2, result.EmployeeCount)

	roster, err := store.Read().Employees.ListByOrganization(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Ada", roster[0].Name)
}

func TestRosterService_ReimportUpdatesInPlace(t *testing.T) {
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStore(database, nil)
	svc := NewRosterService(store)
	ctx := context.Background()

	r, err := importer.ParseRoster([]byte(rosterYAML))
	require.NoError(t, err)
	_, err = svc.ImportRosterFromSchema(ctx, r)
	require.NoError(t, err)

	r.Employees[1].Name = "Grace Hopper"
	_, err = svc.ImportRosterFromSchema(ctx, r)
	require.NoError(t, err)

	emp, err := store.Read().Employees.GetByID(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", emp.Name)
}

func TestRosterService_InvalidRoster(t *testing.T) {
	store := repository.NewSQLiteStore(testutil.NewTestDB(t), nil)
	_, err := NewRosterService(store).ImportRosterFromSchema(context.Background(), &importer.Roster{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "organization.id is required")
}

func TestRosterService_RollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := &testutil.FailingUoW{DB: database, FailOn: 3, Err: errors.New("injected")}
	store := repository.NewSQLiteStore(database, uow)

	r, err := importer.ParseRoster([]byte(rosterYAML))
	require.NoError(t, err)
	_, err = NewRosterService(store).ImportRosterFromSchema(context.Background(), r)
	require.Error(t, err)

	_, err = store.Read().Organizations.GetByID(context.Background(), "acme")
	require.ErrorIs(t, err, repository.ErrNotFound, "organization write rolled back")
}
