package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/service"
)

func TestRegisterLoginAndUniqueness(t *testing.T) {
	e := newEnv(t)
	u, err := e.Users.Register(ctx, service.RegisterInput{Username: "ann", Email: "Ann@X.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, "ann@x.io", u.Email)

	_, err = e.Users.Register(ctx, service.RegisterInput{Username: "ANN", Email: "b@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = e.Users.Register(ctx, service.RegisterInput{Username: "bob", Email: "ann@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = e.Users.Register(ctx, service.RegisterInput{Username: "bob", Email: "bob@x.io", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	res, err := e.Users.Login(ctx, "ann@x.io", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	res, err = e.Users.Login(ctx, "ann", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	_, err = e.Users.Login(ctx, "ann", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = e.Users.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUserSoftDeleteRestore(t *testing.T) {
	e := newEnv(t)
	u, err := e.Users.Register(ctx, service.RegisterInput{Username: "ann", Email: "ann@x.io", Password: "secret1"})
	require.NoError(t, err)

	other := &auth.Principal{UserID: "someone", Role: "USER"}
	assert.ErrorIs(t, e.Users.SoftDelete(ctx, other, u.ID), domain.ErrForbidden)

	self := &auth.Principal{UserID: u.ID, Role: "USER"}
	require.NoError(t, e.Users.SoftDelete(ctx, self, u.ID))
	_, err = e.Users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// 账号删除后不能登录
	_, err = e.Users.Login(ctx, "ann", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	active, err := e.Users.List(ctx, pg(1, 10), "", false)
	require.NoError(t, err)
	assert.Zero(t, active.Total)
	all, err := e.Users.List(ctx, pg(1, 10), "", true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, all.Total)

	// 同名新账号占用后恢复失败
	_, err = e.Users.Register(ctx, service.RegisterInput{Username: "ann", Email: "other@x.io", Password: "secret1"})
	require.NoError(t, err)
	_, err = e.Users.Restore(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserUpdateAndRole(t *testing.T) {
	e := newEnv(t)
	a, err := e.Users.Register(ctx, service.RegisterInput{Username: "ann", Email: "ann@x.io", Password: "secret1"})
	require.NoError(t, err)
	_, err = e.Users.Register(ctx, service.RegisterInput{Username: "bob", Email: "bob@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = e.Users.Update(ctx, a.ID, service.UpdateUserInput{Username: ptr("bob")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	u, err := e.Users.Update(ctx, a.ID, service.UpdateUserInput{Username: ptr("ann"), Photo: ptr("me.png"), Password: ptr("newpass")})
	require.NoError(t, err)
	assert.Equal(t, "me.png", u.Photo)
	assert.Equal(t, "ann@x.io", u.Email)
	_, err = e.Users.Login(ctx, "ann", "newpass")
	require.NoError(t, err)

	u, err = e.Users.Promote(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	require.NoError(t, e.Users.HardDelete(ctx, a.ID))
	assert.ErrorIs(t, e.Users.HardDelete(ctx, a.ID), domain.ErrNotFound)
}

func TestUsernameRejectsAt(t *testing.T) {
	e := newEnv(t)
	_, err := e.Users.Register(ctx, service.RegisterInput{Username: "dj@night", Email: "dj@x.io", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	u, err := e.Users.Register(ctx, service.RegisterInput{Username: "dj", Email: "dj@x.io", Password: "secret1"})
	require.NoError(t, err)
	_, err = e.Users.Update(ctx, u.ID, service.UpdateUserInput{Username: ptr("dj@night")})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	res, err := e.Users.Login(ctx, "dj", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "dj", res.User.Username)
}
