package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/striebwj/coverage-checker/internal/adapter"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// HistoryKey is the store key holding the full ledger.
const HistoryKey = "history.json"

// LoadLedger reads the ledger from the store. An absent object is the
// bootstrap case and yields an empty ledger; any other failure is fatal.
func LoadLedger(ctx context.Context, store adapter.ObjectGetter) (m.Ledger, error) {
	raw, err := store.Get(ctx, HistoryKey)
	if errors.Is(err, adapter.ErrObjectNotFound) {
		return m.Ledger{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBaselineFetch, err)
	}

	var ledger m.Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %s", ErrBaselineFetch, HistoryKey, err)
	}

	// A stored JSON null decodes to a nil map without error; hand callers an
	// appendable ledger instead.
	if ledger == nil {
		ledger = m.Ledger{}
	}

	return ledger, nil
}

// PersistLedger overwrites the stored ledger with the full current one. It
// runs exactly once per update run, after every append of that run.
func PersistLedger(ctx context.Context, store adapter.ObjectStore, ledger m.Ledger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode %s: %w", HistoryKey, err)
	}

	if err := store.Put(ctx, HistoryKey, raw); err != nil {
		return fmt.Errorf("%w: %s", ErrStoreWrite, err)
	}

	return nil
}
