package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/russellmiller3/enact/pkg/contracts"
)

// FileReceiptStore persists one append-only JSON file per run under dir,
// named "<runID>.json". RunID is the only thing that becomes part of a
// filesystem path, so every Save and Load validates it as a textual UUIDv4
// before doing anything else — and, as a second line of defense, checks
// that the resolved path still lives inside dir. Neither check trusts the
// other to have already run.
type FileReceiptStore struct {
	dir string
}

// NewFileReceiptStore builds a store rooted at dir. dir is created if it
// does not already exist.
func NewFileReceiptStore(dir string) (*FileReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("receipt: creating receipts dir %q: %w", dir, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("receipt: resolving receipts dir %q: %w", dir, err)
	}
	return &FileReceiptStore{dir: absDir}, nil
}

// Save writes r to "<dir>/<runID>.json". An existing file for the same
// runID is overwritten — callers are expected to mint a fresh runID per
// attempt, per spec, so a collision indicates a caller bug rather than a
// legitimate re-save.
func (s *FileReceiptStore) Save(ctx context.Context, r *contracts.Receipt) error {
	path, err := s.pathFor(r.RunID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("receipt: marshaling %s: %w", r.RunID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("receipt: writing %s: %w", path, err)
	}
	return nil
}

// Load reads and unmarshals the receipt for runID.
func (s *FileReceiptStore) Load(ctx context.Context, runID string) (*contracts.Receipt, error) {
	path, err := s.pathFor(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("receipt: no receipt for run %q: %w", runID, err)
		}
		return nil, fmt.Errorf("receipt: reading %s: %w", path, err)
	}
	var r contracts.Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("receipt: unmarshaling %s: %w", path, err)
	}
	return &r, nil
}

// pathFor validates runID as a UUIDv4 and resolves it to a path strictly
// inside s.dir. A runID that fails either check is rejected before any
// filesystem call is made with it.
func (s *FileReceiptStore) pathFor(runID string) (string, error) {
	parsed, err := uuid.Parse(runID)
	if err != nil {
		return "", &contracts.PathTraversalError{RunID: runID}
	}
	if parsed.Version() != 4 {
		return "", &contracts.PathTraversalError{RunID: runID}
	}

	path := filepath.Join(s.dir, parsed.String()+".json")
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("receipt: resolving path for runID %q: %w", runID, err)
	}
	if !isWithinDir(absPath, s.dir) {
		return "", &contracts.PathTraversalError{RunID: runID}
	}
	return absPath, nil
}

func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
