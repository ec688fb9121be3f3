package receipt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/russellmiller3/enact/pkg/canonicalize"
)

// AuditEntry is one tamper-evident record in an AuditLog: recording that a
// run happened is itself an action worth protecting from silent edits,
// independent of the receipt's own signature.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"runID"`
	Decision  string    `json:"decision"`

	// PreviousHash links this entry to the one before it.
	PreviousHash string `json:"previousHash"`
	// Hash is the SHA-256 digest of this entry, including PreviousHash.
	Hash string `json:"hash"`
}

// AuditLog is an in-memory, hash-chained supplement to the signed receipt
// store: where a Receipt proves one run happened as recorded, the chain
// across entries in an AuditLog proves no entry in the sequence was
// removed or reordered after the fact.
type AuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	clock   func() time.Time
}

// NewAuditLog builds an empty log using the real wall clock.
func NewAuditLog() *AuditLog {
	return &AuditLog{clock: time.Now}
}

// Append records that runID reached decision, linking the new entry to the
// hash of the previous one.
func (l *AuditLog) Append(runID, decision string) (AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevHash := ""
	if n := len(l.entries); n > 0 {
		prevHash = l.entries[n-1].Hash
	}

	now := l.clock().UTC()
	entry := AuditEntry{
		ID:           fmt.Sprintf("evt_%d", now.UnixNano()),
		Timestamp:    now,
		RunID:        runID,
		Decision:     decision,
		PreviousHash: prevHash,
	}
	hash, err := hashEntry(entry)
	if err != nil {
		return AuditEntry{}, fmt.Errorf("receipt: hashing audit entry: %w", err)
	}
	entry.Hash = hash

	l.entries = append(l.entries, entry)
	return entry, nil
}

// AppendRaw appends a previously-constructed entry verbatim, without
// recomputing its hash or relinking it — used to reconstruct a log from
// persisted entries before calling VerifyChain on them.
func (l *AuditLog) AppendRaw(e AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the log's entries in append order.
func (l *AuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// VerifyChain recomputes every entry's hash and checks the PreviousHash
// links, returning an error describing the first break it finds.
func (l *AuditLog) VerifyChain() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, entry := range l.entries {
		if i == 0 {
			if entry.PreviousHash != "" {
				return fmt.Errorf("receipt: genesis audit entry has non-empty previous hash")
			}
		} else if entry.PreviousHash != l.entries[i-1].Hash {
			return fmt.Errorf("receipt: audit chain broken at index %d: previous hash mismatch", i)
		}

		recomputed, err := hashEntry(entry)
		if err != nil {
			return fmt.Errorf("receipt: recomputing hash at index %d: %w", i, err)
		}
		if recomputed != entry.Hash {
			return fmt.Errorf("receipt: audit entry %d was tampered with: stored hash does not match content", i)
		}
	}
	return nil
}

func hashEntry(e AuditEntry) (string, error) {
	data := map[string]any{
		"id":           e.ID,
		"timestamp":    e.Timestamp,
		"runID":        e.RunID,
		"decision":     e.Decision,
		"previousHash": e.PreviousHash,
	}
	canonical, err := canonicalize.JCS(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
