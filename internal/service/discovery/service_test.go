package discovery_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/service/discovery"
	"github.com/oggyb/swipe-match/internal/testutil/apptest"
	"github.com/oggyb/swipe-match/internal/utils/pagination"
)

func like(t *testing.T, env *apptest.Env, from, to uint64) {
	t.Helper()
	require.NoError(t, env.App.DB.Omit("FromUser", "ToUser").Create(&db.Like{FromUserID: from, ToUserID: to}).Error)
}

func dislike(t *testing.T, env *apptest.Env, from, to uint64) {
	t.Helper()
	require.NoError(t, env.App.DB.Omit("FromUser", "ToUser").Create(&db.Dislike{FromUserID: from, ToUserID: to}).Error)
}

func TestRecommendedExcludesAndRanks(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 12)
	svc := discovery.NewService(env.App)

	// popularity: 7 has 3 likes, 9 has 2, 4 has 1
	for _, from := range []uint64{2, 3, 4} {
		like(t, env, from, 7)
	}
	like(t, env, 2, 9)
	like(t, env, 3, 9)
	like(t, env, 5, 4)

	// viewer 1 already decided on 2 and 3
	like(t, env, 1, 2)
	dislike(t, env, 1, 3)

	require.NoError(t, env.App.DB.Omit("User").Create(&db.Picture{UserID: 7, URL: "/p/7.jpg", IsPrimary: true, SortOrder: 1}).Error)

	page, pics, err := svc.Recommended(ctx, 1, pagination.New(1, 50, 10, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(9), page.Total)
	require.Len(t, page.Items, 9)

	var ids []uint64
	prev := int64(1 << 62)
	for _, u := range page.Items {
		ids = append(ids, u.ID)
		assert.LessOrEqual(t, u.LikedByCount, prev)
		prev = u.LikedByCount
	}
	assert.NotContains(t, ids, uint64(1))
	assert.NotContains(t, ids, uint64(2))
	assert.NotContains(t, ids, uint64(3))
	assert.Equal(t, []uint64{7, 9, 4, 5, 6, 8, 10, 11, 12}, ids)

	assert.Len(t, pics[7], 1)
	assert.Empty(t, pics[9])
}

func TestRecommendedPagination(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 8)
	svc := discovery.NewService(env.App)

	first, _, err := svc.Recommended(ctx, 1, pagination.New(1, 3, 10, 50))
	require.NoError(t, err)
	last, _, err := svc.Recommended(ctx, 1, pagination.New(3, 3, 10, 50))
	require.NoError(t, err)

	assert.Equal(t, int64(7), first.Total)
	assert.Equal(t, 3, first.Meta().LastPage)
	assert.Len(t, first.Items, 3)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, uint64(8), last.Items[0].ID)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	env := apptest.New(t, 2)
	svc := discovery.NewService(env.App)

	user, pics, err := svc.GetByID(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), user.ID)
	assert.Empty(t, pics)

	_, _, err = svc.GetByID(ctx, 1, 1)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
	_, _, err = svc.GetByID(ctx, 1, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestPeopleEndpoints(t *testing.T) {
	env := apptest.New(t, 4)
	h := env.Handler(discovery.NewRegistrar(env.App))
	token := env.Token(t, 1)
	like(t, env, 2, 4)

	rec := apptest.Do(t, h, http.MethodGet, "/people?per_page=500", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var people []struct {
		ID           uint64 `json:"id"`
		Email        string `json:"email"`
		LikedByCount int64  `json:"liked_by_count"`
	}
	body := apptest.Decode(t, rec, &people)
	assert.True(t, body.Success)
	require.Len(t, people, 3)
	assert.Equal(t, uint64(4), people[0].ID)
	assert.Equal(t, int64(1), people[0].LikedByCount)
	assert.Empty(t, people[0].Email)
	assert.Equal(t, int64(50), body.Pagination["per_page"])
	assert.Equal(t, int64(3), body.Pagination["total"])
	assert.Equal(t, int64(3), body.Pagination["count"])
	assert.Equal(t, int64(1), body.Pagination["current_page"])
	assert.Equal(t, int64(1), body.Pagination["last_page"])

	rec = apptest.Do(t, h, http.MethodGet, "/people/2", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = apptest.Do(t, h, http.MethodGet, "/people/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = apptest.Do(t, h, http.MethodGet, "/people/77", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = apptest.Do(t, h, http.MethodGet, "/people", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
