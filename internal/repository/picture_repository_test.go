package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-match/internal/db"
	svcErr "github.com/oggyb/swipe-match/internal/errors"
	"github.com/oggyb/swipe-match/internal/repository"
	"github.com/oggyb/swipe-match/internal/testutil"
)

func primaryCount(t *testing.T, pictures []db.Picture) int {
	t.Helper()
	n := 0
	for _, p := range pictures {
		if p.IsPrimary {
			n++
		}
	}
	return n
}

func TestPictureCreateAppendsAndKeepsSinglePrimary(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	testutil.CreateUsers(t, dbase, 1)
	repo := repository.NewPictureRepository(dbase, 3)

	a := &db.Picture{UserID: 1, URL: "/a.jpg", IsPrimary: true}
	b := &db.Picture{UserID: 1, URL: "/b.jpg"}
	c := &db.Picture{UserID: 1, URL: "/c.jpg", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, c))

	assert.Equal(t, 1, a.SortOrder)
	assert.Equal(t, 2, b.SortOrder)
	assert.Equal(t, 3, c.SortOrder)

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 1, primaryCount(t, list))
	assert.True(t, list[2].IsPrimary)
}

func TestPictureCreateUnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPictureRepository(testutil.NewDB(t), 3)

	err := repo.Create(ctx, &db.Picture{UserID: 42, URL: "/x.jpg"})
	assert.ErrorIs(t, err, svcErr.ErrInvalidUser)
}

func TestPictureSetPrimary(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	testutil.CreateUsers(t, dbase, 2)
	repo := repository.NewPictureRepository(dbase, 3)

	a := &db.Picture{UserID: 1, URL: "/a.jpg", IsPrimary: true}
	b := &db.Picture{UserID: 1, URL: "/b.jpg"}
	other := &db.Picture{UserID: 2, URL: "/o.jpg", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, other))

	p, err := repo.SetPrimary(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.True(t, p.IsPrimary)

	list, _ := repo.ListByUser(ctx, 1)
	assert.Equal(t, 1, primaryCount(t, list))
	assert.False(t, list[0].IsPrimary)

	// other users are untouched, and cannot be targeted
	list, _ = repo.ListByUser(ctx, 2)
	assert.True(t, list[0].IsPrimary)
	_, err = repo.SetPrimary(ctx, 1, other.ID)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestPictureConcurrentSetPrimaryKeepsOnePrimary(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	testutil.CreateUsers(t, dbase, 1)
	repo := repository.NewPictureRepository(dbase, 3)

	pics := make([]*db.Picture, 6)
	for i := range pics {
		pics[i] = &db.Picture{UserID: 1, URL: "/p.jpg", IsPrimary: i == 0}
		require.NoError(t, repo.Create(ctx, pics[i]))
	}

	var wg sync.WaitGroup
	for _, p := range pics[1:] {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_, err := repo.SetPrimary(ctx, 1, id)
			assert.NoError(t, err)
		}(p.ID)
	}
	wg.Wait()

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, primaryCount(t, list))
}

func TestPictureReorder(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	testutil.CreateUsers(t, dbase, 2)
	repo := repository.NewPictureRepository(dbase, 3)

	var ids []uint64
	for _, url := range []string{"/a.jpg", "/b.jpg", "/c.jpg"} {
		p := &db.Picture{UserID: 1, URL: url}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	foreign := &db.Picture{UserID: 2, URL: "/f.jpg"}
	require.NoError(t, repo.Create(ctx, foreign))

	require.NoError(t, repo.Reorder(ctx, 1, []uint64{ids[2], ids[0], ids[1]}))
	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/c.jpg", "/a.jpg", "/b.jpg"}, []string{list[0].URL, list[1].URL, list[2].URL})
	assert.Equal(t, 1, list[0].SortOrder)

	err = repo.Reorder(ctx, 1, []uint64{ids[0], foreign.ID})
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
	err = repo.Reorder(ctx, 1, []uint64{ids[0], ids[0]})
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
	err = repo.Reorder(ctx, 1, nil)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)

	// failed reorders leave the order intact
	list, _ = repo.ListByUser(ctx, 1)
	assert.Equal(t, "/c.jpg", list[0].URL)
}

func TestPictureDeleteAndBatchList(t *testing.T) {
	ctx := context.Background()
	dbase := testutil.NewDB(t)
	testutil.CreateUsers(t, dbase, 3)
	repo := repository.NewPictureRepository(dbase, 3)

	a := &db.Picture{UserID: 1, URL: "/a.jpg", StorageKey: "1/a.jpg"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, &db.Picture{UserID: 2, URL: "/b.jpg"}))

	_, err := repo.Delete(ctx, 2, a.ID)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	deleted, err := repo.Delete(ctx, 1, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "1/a.jpg", deleted.StorageKey)

	byUser, err := repo.ListByUsers(ctx, []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, byUser[1])
	assert.Len(t, byUser[2], 1)
	assert.Empty(t, byUser[3])
}
