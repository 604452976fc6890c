package repository

import (
	"errors"
	"testing"

	"github.com/linskybing/hpc-portal/internal/domain/user"
	"github.com/linskybing/hpc-portal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecTx_RollsBackOnError(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repos := NewRepositories(db)

	boom := errors.New("boom")
	err := repos.ExecTx(func(tx *Repos) error {
		require.NoError(t, tx.User.CreateUser(&user.User{Email: "a@x.ac.uk", Username: "a"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.User.GetUserByEmail("a@x.ac.uk")
	assert.Error(t, err)

	require.NoError(t, repos.ExecTx(func(tx *Repos) error {
		return tx.User.CreateUser(&user.User{Email: "b@x.ac.uk", Username: "b"})
	}))
	u, err := repos.User.GetUserByEmail("B@x.ac.uk")
	require.NoError(t, err)
	assert.Equal(t, "b", u.Username)
}

func TestUserRepo_Roles(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := NewUserRepo(db)

	u := &user.User{Email: "admin@x.ac.uk", Username: "admin"}
	require.NoError(t, repo.CreateUser(u))

	require.NoError(t, repo.GrantRole(u.ID, "allocation_admin"))
	require.NoError(t, repo.GrantRole(u.ID, "allocation_admin"))
	require.NoError(t, repo.GrantRole(u.ID, "auditor"))

	roles, err := repo.ListRoles(u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"allocation_admin", "auditor"}, roles)

	require.NoError(t, repo.RevokeRole(u.ID, "auditor"))
	roles, err = repo.ListRoles(u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"allocation_admin"}, roles)
}
