package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinelog/internal/model"
)

type fakeWatchlistStore struct {
	items  map[int]bool // movieID -> present（单用户测试足够）
	addErr error
}

func (f *fakeWatchlistStore) ensure() {
	if f.items == nil {
		f.items = make(map[int]bool)
	}
}

func (f *fakeWatchlistStore) Add(userID, movieID int) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.ensure()
	f.items[movieID] = true
	return nil
}

func (f *fakeWatchlistStore) Remove(userID, movieID int) error {
	f.ensure()
	delete(f.items, movieID)
	return nil
}

func (f *fakeWatchlistStore) Contains(userID, movieID int) (bool, error) {
	return f.items[movieID], nil
}

func (f *fakeWatchlistStore) ListByUser(userID, limit, offset int) ([]*model.WatchlistItem, error) {
	var out []*model.WatchlistItem
	for id := range f.items {
		out = append(out, &model.WatchlistItem{UserID: userID, MovieID: id})
	}
	return out, nil
}

func (f *fakeWatchlistStore) CountByUser(userID int) (int, error) {
	return len(f.items), nil
}

type fakeWatchedStore struct {
	marks map[int]time.Time
}

func (f *fakeWatchedStore) ensure() {
	if f.marks == nil {
		f.marks = make(map[int]time.Time)
	}
}

func (f *fakeWatchedStore) Mark(userID, movieID int, watchedOn time.Time) error {
	f.ensure()
	f.marks[movieID] = watchedOn
	return nil
}

func (f *fakeWatchedStore) Unmark(userID, movieID int) error {
	f.ensure()
	delete(f.marks, movieID)
	return nil
}

func (f *fakeWatchedStore) Contains(userID, movieID int) (bool, error) {
	_, ok := f.marks[movieID]
	return ok, nil
}

func (f *fakeWatchedStore) ListByUser(userID, limit, offset int) ([]*model.WatchedMovie, error) {
	var out []*model.WatchedMovie
	for id, on := range f.marks {
		out = append(out, &model.WatchedMovie{UserID: userID, MovieID: id, WatchedOn: on})
	}
	return out, nil
}

func (f *fakeWatchedStore) CountByUser(userID int) (int, error) {
	return len(f.marks), nil
}

func newWatchService(wl *fakeWatchlistStore, wd *fakeWatchedStore, store *fakeActivityStore) *WatchService {
	return NewWatchService(wl, wd, NewActivityService(store))
}

func TestAddToWatchlistRecordsActivity(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newWatchService(&fakeWatchlistStore{}, &fakeWatchedStore{}, store)

	require.NoError(t, svc.AddToWatchlist(1, 2))

	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityAddedWatchlist, store.records[0].Type)
	assert.False(t, store.records[0].Removed)
}

func TestRemoveFromWatchlistRecordsRemoval(t *testing.T) {
	store := &fakeActivityStore{}
	wl := &fakeWatchlistStore{items: map[int]bool{2: true}}
	svc := newWatchService(wl, &fakeWatchedStore{}, store)

	require.NoError(t, svc.RemoveFromWatchlist(1, 2))

	assert.False(t, wl.items[2])
	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityAddedWatchlist, store.records[0].Type)
	assert.True(t, store.records[0].Removed)
}

func TestAddToWatchlistFailureNoActivity(t *testing.T) {
	store := &fakeActivityStore{}
	wl := &fakeWatchlistStore{addErr: errors.New("db down")}
	svc := newWatchService(wl, &fakeWatchedStore{}, store)

	assert.Error(t, svc.AddToWatchlist(1, 2))
	assert.Empty(t, store.records)
}

func TestMarkWatchedDefaultsToNow(t *testing.T) {
	store := &fakeActivityStore{}
	wd := &fakeWatchedStore{}
	svc := newWatchService(&fakeWatchlistStore{}, wd, store)

	before := time.Now()
	require.NoError(t, svc.MarkWatched(1, 2, time.Time{}))

	on := wd.marks[2]
	assert.False(t, on.Before(before))
	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityWatched, store.records[0].Type)
}

func TestMarkWatchedKeepsExplicitDate(t *testing.T) {
	wd := &fakeWatchedStore{}
	svc := newWatchService(&fakeWatchlistStore{}, wd, &fakeActivityStore{})

	on := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.MarkWatched(1, 2, on))

	assert.Equal(t, on, wd.marks[2])
}

func TestUnmarkWatchedRecordsRemoval(t *testing.T) {
	store := &fakeActivityStore{}
	wd := &fakeWatchedStore{marks: map[int]time.Time{2: time.Now()}}
	svc := newWatchService(&fakeWatchlistStore{}, wd, store)

	require.NoError(t, svc.UnmarkWatched(1, 2))

	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityWatched, store.records[0].Type)
	assert.True(t, store.records[0].Removed)
}

func TestCounts(t *testing.T) {
	wl := &fakeWatchlistStore{items: map[int]bool{1: true, 2: true}}
	wd := &fakeWatchedStore{marks: map[int]time.Time{3: time.Now()}}
	svc := newWatchService(wl, wd, &fakeActivityStore{})

	watchlist, watched := svc.Counts(1)

	assert.Equal(t, 2, watchlist)
	assert.Equal(t, 1, watched)
}
