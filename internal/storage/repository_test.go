package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kharcha/internal/core"
)

// RepositoryTestSuite exercises the SQLite repository against a real
// database file migrated from scratch.
type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	dbPath := filepath.Join(s.T().TempDir(), "test.db")
	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(s.T(), err, "failed to create test repository")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) mustCreateUser(username, email string) User {
	u, err := s.repo.CreateUser(s.ctx, username, email, "hashed-password")
	require.NoError(s.T(), err)
	return u
}

func (s *RepositoryTestSuite) TestCreateUser() {
	u := s.mustCreateUser("alice", "alice@example.com")

	assert.NotEmpty(s.T(), u.ID)
	assert.Equal(s.T(), "alice", u.Username)
	assert.Equal(s.T(), "alice@example.com", u.Email)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateUsername() {
	s.mustCreateUser("alice", "alice@example.com")

	_, err := s.repo.CreateUser(s.ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrDuplicateUser)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	s.mustCreateUser("alice", "alice@example.com")

	_, err := s.repo.CreateUser(s.ctx, "bob", "alice@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrDuplicateUser)
}

func (s *RepositoryTestSuite) TestGetUserByLogin() {
	created := s.mustCreateUser("alice", "alice@example.com")

	byUsername, err := s.repo.GetUserByLogin(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byUsername.ID)

	byEmail, err := s.repo.GetUserByLogin(s.ctx, "alice@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byEmail.ID)

	_, err = s.repo.GetUserByLogin(s.ctx, "nobody")
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestAppendEntriesAssignsIDs() {
	u := s.mustCreateUser("alice", "alice@example.com")

	stored, err := s.repo.AppendEntries(s.ctx, u.ID, []core.Entry{
		{
			ExpenseItem:   "groceries",
			ExpenseAmount: core.Money{Cents: 4550},
			ExpenseDate:   core.NewDate(2024, 6, 15),
		},
		{
			SavingOption: "emergency fund",
			SavingAmount: core.Money{Cents: 10000},
			SavingDate:   core.NewDate(2024, 6, 15),
		},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), stored, 2)

	for _, e := range stored {
		assert.NotEmpty(s.T(), e.ID)
		assert.Equal(s.T(), u.ID, e.OwnerID)
	}
	assert.NotEqual(s.T(), stored[0].ID, stored[1].ID)
}

func (s *RepositoryTestSuite) TestAppendEntriesUnknownOwner() {
	_, err := s.repo.AppendEntries(s.ctx, "no-such-user", []core.Entry{
		{ExpenseItem: "groceries", ExpenseAmount: core.Money{Cents: 100}},
	})
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListByOwnerRoundTrip() {
	u := s.mustCreateUser("alice", "alice@example.com")
	other := s.mustCreateUser("bob", "bob@example.com")

	_, err := s.repo.AppendEntries(s.ctx, u.ID, []core.Entry{
		{
			ExpenseItem:   "rent",
			ExpenseAmount: core.Money{Cents: 85000},
			ExpenseDate:   core.NewDate(2024, 6, 1),
		},
	})
	require.NoError(s.T(), err)

	_, err = s.repo.AppendEntries(s.ctx, other.ID, []core.Entry{
		{SavingOption: "stocks", SavingAmount: core.Money{Cents: 5000}, SavingDate: core.NewDate(2024, 6, 2)},
	})
	require.NoError(s.T(), err)

	entries, err := s.repo.ListByOwner(s.ctx, u.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 1)

	e := entries[0]
	assert.Equal(s.T(), "rent", e.ExpenseItem)
	assert.Equal(s.T(), int64(85000), e.ExpenseAmount.Cents)
	assert.Equal(s.T(), "2024-06-01", e.ExpenseDate.String())
	assert.Empty(s.T(), e.SavingOption)
	assert.True(s.T(), e.SavingDate.IsEmpty())
}

func (s *RepositoryTestSuite) TestListByOwnerEmpty() {
	u := s.mustCreateUser("alice", "alice@example.com")

	entries, err := s.repo.ListByOwner(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)
}

func (s *RepositoryTestSuite) TestGetEntry() {
	u := s.mustCreateUser("alice", "alice@example.com")

	stored, err := s.repo.AppendEntries(s.ctx, u.ID, []core.Entry{
		{ExpenseItem: "coffee", ExpenseAmount: core.Money{Cents: 350}, ExpenseDate: core.NewDate(2024, 6, 15)},
	})
	require.NoError(s.T(), err)

	got, err := s.repo.GetEntry(s.ctx, stored[0].ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "coffee", got.ExpenseItem)
	assert.Equal(s.T(), int64(350), got.ExpenseAmount.Cents)

	_, err = s.repo.GetEntry(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestSyncStatusLifecycle() {
	u := s.mustCreateUser("alice", "alice@example.com")

	stored, err := s.repo.AppendEntries(s.ctx, u.ID, []core.Entry{
		{ExpenseItem: "first", ExpenseAmount: core.Money{Cents: 100}, ExpenseDate: core.NewDate(2024, 6, 15)},
		{ExpenseItem: "second", ExpenseAmount: core.Money{Cents: 200}, ExpenseDate: core.NewDate(2024, 6, 15)},
	})
	require.NoError(s.T(), err)

	pending, err := s.repo.GetPendingSyncEntries(s.ctx, 10)
	require.NoError(s.T(), err)
	assert.Len(s.T(), pending, 2)

	require.NoError(s.T(), s.repo.MarkSynced(s.ctx, stored[0].ID))

	pending, err = s.repo.GetPendingSyncEntries(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), pending, 1)
	assert.Equal(s.T(), stored[1].ID, pending[0].ID)

	require.NoError(s.T(), s.repo.MarkSyncError(s.ctx, stored[1].ID))

	pending, err = s.repo.GetPendingSyncEntries(s.ctx, 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), pending)
}

func (s *RepositoryTestSuite) TestGetPendingSyncEntriesLimit() {
	u := s.mustCreateUser("alice", "alice@example.com")

	for i := 0; i < 5; i++ {
		_, err := s.repo.AppendEntries(s.ctx, u.ID, []core.Entry{
			{ExpenseItem: "item", ExpenseAmount: core.Money{Cents: 100}, ExpenseDate: core.NewDate(2024, 6, 15)},
		})
		require.NoError(s.T(), err)
	}

	pending, err := s.repo.GetPendingSyncEntries(s.ctx, 3)
	require.NoError(s.T(), err)
	assert.Len(s.T(), pending, 3)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
