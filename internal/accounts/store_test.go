package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewTestStore(DefaultSeed())
	require.NoError(t, err)
	return store
}

func TestFindByEmailAndPassword(t *testing.T) {
	store := newSeededStore(t)

	acc, err := store.FindByEmailAndPassword("admin@scro.com", "admin123")
	require.NoError(t, err)
	require.Equal(t, "1", acc.ID)
	require.Equal(t, RoleAdmin, acc.Role)

	_, err = store.FindByEmailAndPassword("admin@scro.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.FindByEmailAndPassword("nobody@scro.com", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFindByEmailIsCaseSensitive(t *testing.T) {
	store := newSeededStore(t)

	_, err := store.FindByEmailAndPassword("Admin@scro.com", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAddForcesViewerRole(t *testing.T) {
	store := newSeededStore(t)

	acc, err := store.Add("Bob", "bob@x.com", "Str0ng!pw")
	require.NoError(t, err)
	require.Equal(t, RoleViewer, acc.Role)
	require.Equal(t, "3", acc.ID)
	require.Equal(t, 3, store.Count())

	found, err := store.FindByEmailAndPassword("bob@x.com", "Str0ng!pw")
	require.NoError(t, err)
	require.Equal(t, acc.ID, found.ID)
}

func TestAddRejectsDuplicateEmail(t *testing.T) {
	store := newSeededStore(t)

	before := store.Count()
	_, err := store.Add("Bob", "viewer@scro.com", "x")
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Equal(t, before, store.Count())
}

func TestRoleSatisfies(t *testing.T) {
	require.True(t, RoleAdmin.Satisfies(RoleAdmin))
	require.True(t, RoleAdmin.Satisfies(RoleViewer))
	require.True(t, RoleViewer.Satisfies(RoleViewer))
	require.False(t, RoleViewer.Satisfies(RoleAdmin))
}
