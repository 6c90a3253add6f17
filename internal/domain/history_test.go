package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striebwj/coverage-checker/internal/adapter"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// fakeStore is an in-memory ObjectStore.
type fakeStore struct {
	objects map[string][]byte
	getErr  error

	puts    []string
	commits []string
	closed  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	data, ok := f.objects[key]
	if !ok {
		return nil, adapter.ErrObjectNotFound
	}

	return data, nil
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte) error {
	f.objects[key] = data
	f.puts = append(f.puts, key)

	return nil
}

func (f *fakeStore) CommitAndPush(_ context.Context, message string) error {
	f.commits = append(f.commits, message)
	return nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func TestLoadLedgerAbsentIsEmpty(t *testing.T) {
	ledger, err := LoadLedger(context.Background(), newFakeStore())
	require.NoError(t, err)

	assert.NotNil(t, ledger)
	assert.Empty(t, ledger)
}

func TestLoadLedger(t *testing.T) {
	store := newFakeStore()
	store.objects[HistoryKey] = []byte(`{"unit":[{"time":"2026-08-01T12:00:00Z","coverage":90.5}]}`)

	ledger, err := LoadLedger(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, ledger["unit"], 1)
	assert.InDelta(t, 90.5, ledger["unit"][0].Coverage, 1e-9)
}

func TestLoadLedgerNullIsAppendable(t *testing.T) {
	store := newFakeStore()
	store.objects[HistoryKey] = []byte("null")

	ledger, err := LoadLedger(context.Background(), store)
	require.NoError(t, err)
	require.NotNil(t, ledger)

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ledger.Append("unit", 90, at)

	require.Len(t, ledger["unit"], 1)
}

func TestLoadLedgerMalformedIsBaselineFetchError(t *testing.T) {
	store := newFakeStore()
	store.objects[HistoryKey] = []byte("not json")

	_, err := LoadLedger(context.Background(), store)
	require.ErrorIs(t, err, ErrBaselineFetch)
}

func TestLoadLedgerOtherFetchFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("auth failed")

	_, err := LoadLedger(context.Background(), store)
	require.ErrorIs(t, err, ErrBaselineFetch)
}

func TestPersistLedgerOverwritesWholeObject(t *testing.T) {
	store := newFakeStore()

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	ledger := m.Ledger{}
	ledger.Append("unit", 90, at)
	ledger.Append("integration", 80, at)

	require.NoError(t, PersistLedger(context.Background(), store, ledger))

	var persisted m.Ledger
	require.NoError(t, json.Unmarshal(store.objects[HistoryKey], &persisted))

	assert.Equal(t, ledger, persisted)
}

func TestLedgerRoundTripKeepsExistingEntries(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	first := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	ledger := m.Ledger{}
	ledger.Append("X", 90, first)
	require.NoError(t, PersistLedger(ctx, store, ledger))

	reloaded, err := LoadLedger(ctx, store)
	require.NoError(t, err)

	reloaded.Append("X", 92, second)
	require.NoError(t, PersistLedger(ctx, store, reloaded))

	final, err := LoadLedger(ctx, store)
	require.NoError(t, err)

	require.Len(t, final["X"], 2)
	assert.Equal(t, m.Measurement{Time: first, Coverage: 90}, final["X"][0], "original entry unchanged")
	assert.Equal(t, m.Measurement{Time: second, Coverage: 92}, final["X"][1], "new entry appended last")
}
