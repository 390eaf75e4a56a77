package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/feltedge/tablehouse/pkg/money"
)

// loadSnapshot reads the journal file at path, returning a fresh empty
// snapshot if the file does not exist.
func loadSnapshot(path string) (*snapshot, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return emptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: reading journal: %w", err)
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("ledger: decoding journal: %w", err)
	}
	if s.Balances == nil {
		s.Balances = make(map[Wallet]money.Amount)
	}
	if s.Stats == nil {
		s.Stats = make(map[Wallet]*Stats)
	}
	return &s, nil
}

func emptySnapshot() *snapshot {
	return &snapshot{
		Balances: make(map[Wallet]money.Amount),
		Stats:    make(map[Wallet]*Stats),
	}
}

// writeSnapshot durably persists the full in-memory state by writing to a
// temp file in the same directory and renaming over the real path. The
// rename is atomic on POSIX filesystems, so a crash mid-write never
// corrupts the existing journal — readers see either the old file or the
// new one, never a partial one.
func writeSnapshot(path string, s *snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: encoding journal: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".journal-*.tmp")
	if err != nil {
		return fmt.Errorf("ledger: creating temp journal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: writing temp journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: syncing temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: closing temp journal: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: replacing journal: %w", err)
	}
	return nil
}
