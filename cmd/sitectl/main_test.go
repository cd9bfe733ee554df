package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/user"
)

type fakeAccounts struct {
	username, hash, role string
}

func (f *fakeAccounts) Create(_ context.Context, username, hash, role string) (user.User, error) {
	f.username, f.hash, f.role = username, hash, role
	return user.User{ID: 1, Username: username, Role: role}, nil
}

func TestAddUser_HashesPassword(t *testing.T) {
	repo := &fakeAccounts{}
	u, err := addUser(context.Background(), repo, "admin", "long-enough", auth.RoleAdmin, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.NotEqual(t, "long-enough", repo.hash)

	ok, err := auth.VerifyPassword(repo.hash, "long-enough")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddUser_Rejects(t *testing.T) {
	cases := map[string][3]string{
		"empty username": {"", "long-enough", "admin"},
		"short password": {"admin", "short", "admin"},
		"bad role":       {"admin", "long-enough", "root"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &fakeAccounts{}
			_, err := addUser(context.Background(), repo, c[0], c[1], c[2], 4)
			assert.Error(t, err)
			assert.Empty(t, repo.username)
		})
	}
}

func TestCommandTree(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})
	require.NoError(t, rootCmd.Execute())
	for _, name := range []string{"migrate", "user", "config"} {
		assert.Contains(t, buf.String(), name)
	}

	cmd, _, err := rootCmd.Find([]string{"user", "add"})
	require.NoError(t, err)
	assert.Equal(t, "add", cmd.Name())
	assert.Equal(t, auth.RoleAdmin, cmd.Flags().Lookup("role").DefValue)
}
