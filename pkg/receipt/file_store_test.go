package receipt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmiller3/enact/pkg/contracts"
	"github.com/russellmiller3/enact/pkg/receipt"
)

func TestFileReceiptStore_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := receipt.NewFileReceiptStore(dir)
	require.NoError(t, err)

	runID := uuid.New().String()
	r := &contracts.Receipt{
		RunID:     runID,
		Workflow:  "pr_flow",
		UserEmail: "a@x.com",
		Decision:  contracts.DecisionPass,
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Signature: "deadbeef",
	}
	require.NoError(t, store.Save(context.Background(), r))

	loaded, err := store.Load(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, loaded.RunID)
	assert.Equal(t, r.Decision, loaded.Decision)
	assert.Equal(t, r.Signature, loaded.Signature)
}

func TestFileReceiptStore_LoadMissingRunIsError(t *testing.T) {
	dir := t.TempDir()
	store, err := receipt.NewFileReceiptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), uuid.New().String())
	assert.Error(t, err)
}

// Path-traversal defenses: a runID must be a UUIDv4, and even a
// syntactically valid-looking path must resolve inside the store's dir.
func TestFileReceiptStore_RejectsNonUUIDRunID(t *testing.T) {
	dir := t.TempDir()
	store, err := receipt.NewFileReceiptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../../../etc/passwd")
	require.Error(t, err)
	var pathErr *contracts.PathTraversalError
	assert.True(t, errors.As(err, &pathErr), "expected a *contracts.PathTraversalError, got %T", err)
}

func TestFileReceiptStore_RejectsNonV4UUID(t *testing.T) {
	dir := t.TempDir()
	store, err := receipt.NewFileReceiptStore(dir)
	require.NoError(t, err)

	// a well-formed UUIDv1 (not v4) must still be rejected.
	v1 := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	_, err = store.Load(context.Background(), v1)
	require.Error(t, err)
	var pathErr *contracts.PathTraversalError
	assert.True(t, errors.As(err, &pathErr), "expected a *contracts.PathTraversalError, got %T", err)
}

func TestFileReceiptStore_SaveSucceedsOnFreshDir(t *testing.T) {
	dir := t.TempDir() + "/nested/receipts"
	store, err := receipt.NewFileReceiptStore(dir)
	require.NoError(t, err)

	runID := uuid.New().String()
	require.NoError(t, store.Save(context.Background(), &contracts.Receipt{RunID: runID, Decision: contracts.DecisionPass}))
}
