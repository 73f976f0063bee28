package profile_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/service/profile"
	"github.com/oggyb/swipe-match/internal/testutil/apptest"
)

func ptr[T any](v T) *T { return &v }

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 1)
	svc := profile.NewService(env.App)

	user, _, err := svc.Update(ctx, 1, profile.UpdateInput{Location: ptr("  Paris "), Bio: ptr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "Paris", user.Location)
	assert.Equal(t, "user1", user.Name)
	require.NotNil(t, user.Bio)
	assert.Equal(t, "hello", *user.Bio)

	user, _, err = svc.Update(ctx, 1, profile.UpdateInput{Bio: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, user.Bio)
	assert.Equal(t, "Paris", user.Location)

	_, _, err = svc.Update(ctx, 1, profile.UpdateInput{Age: ptr(12), Name: ptr(" ")})
	var verr *svcErr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "age")
	assert.Contains(t, verr.Fields, "name")

	_, _, err = svc.Update(ctx, 1, profile.UpdateInput{Name: ptr("Eve\r\nBcc: victim@evil.test"), Location: ptr("Rome\x00")})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "location")

	user, _, err = svc.Update(ctx, 1, profile.UpdateInput{Bio: ptr("line one\nline two")})
	require.NoError(t, err)
	assert.Equal(t, "user1", user.Name)
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 3)
	svc := profile.NewService(env.App)

	url, err := env.Blobs.Put(ctx, "1/a.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	gdb := env.App.DB
	require.NoError(t, gdb.Omit("User").Create(&db.Picture{UserID: 1, URL: url, StorageKey: "1/a.jpg", IsPrimary: true, SortOrder: 1}).Error)
	require.NoError(t, gdb.Omit("FromUser", "ToUser").Create(&db.Like{FromUserID: 1, ToUserID: 2}).Error)
	require.NoError(t, gdb.Omit("FromUser", "ToUser").Create(&db.Like{FromUserID: 3, ToUserID: 1}).Error)
	require.NoError(t, gdb.Omit("FromUser", "ToUser").Create(&db.Dislike{FromUserID: 2, ToUserID: 1}).Error)

	require.NoError(t, svc.Delete(ctx, 1))

	var likes, dislikes, pics int64
	gdb.Model(&db.Like{}).Count(&likes)
	gdb.Model(&db.Dislike{}).Count(&dislikes)
	gdb.Model(&db.Picture{}).Count(&pics)
	assert.Zero(t, likes)
	assert.Zero(t, dislikes)
	assert.Zero(t, pics)
	assert.NoFileExists(t, env.Blobs.Dir()+"/1/a.jpg")

	assert.ErrorIs(t, svc.Delete(ctx, 1), svcErr.ErrNotFound)
}

func TestLikeCountIsCached(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 4)
	svc := profile.NewService(env.App)

	for _, from := range []uint64{2, 3} {
		require.NoError(t, env.App.DB.Omit("FromUser", "ToUser").Create(&db.Like{FromUserID: from, ToUserID: 1}).Error)
	}

	count, err := svc.LikeCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	cached, ok, err := env.App.RedisCache.GetLikeCount(ctx, 1, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), cached)

	// written behind the cache's back: the cached value still wins
	require.NoError(t, env.App.DB.Omit("FromUser", "ToUser").Create(&db.Like{FromUserID: 4, ToUserID: 1}).Error)
	count, _ = svc.LikeCount(ctx, 1)
	assert.Equal(t, int64(2), count)

	env.Redis.FastForward(2 * time.Hour)
	count, _ = svc.LikeCount(ctx, 1)
	assert.Equal(t, int64(3), count)
}

func TestProfileEndpoints(t *testing.T) {
	env := apptest.New(t, 2)
	h := env.Handler(profile.NewRegistrar(env.App))
	token := env.Token(t, 1)

	rec := apptest.Do(t, h, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email    string `json:"email"`
		Location string `json:"location"`
	}
	apptest.Decode(t, rec, &me)
	assert.Equal(t, "user1@test.local", me.Email)

	rec = apptest.Do(t, h, http.MethodPut, "/profile", token, map[string]any{"location": "Rome"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	apptest.Decode(t, rec, &me)
	assert.Equal(t, "Rome", me.Location)

	rec = apptest.Do(t, h, http.MethodPut, "/profile", token, map[string]any{"age": 200})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = apptest.Do(t, h, http.MethodGet, "/profile/likes/count", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int64 `json:"count"`
	}
	apptest.Decode(t, rec, &count)
	assert.Zero(t, count.Count)

	rec = apptest.Do(t, h, http.MethodDelete, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = apptest.Do(t, h, http.MethodGet, "/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
