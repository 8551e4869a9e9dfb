package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Store manages schedule documents on disk, partitioned by team across a
// pending and a done area. Moving a document between areas is the visible
// unit of state transition for the batch pipeline.
type Store struct {
	pendingDir string
	doneDir    string
}

// New ensures both area directories exist and returns a handle.
func New(pendingDir, doneDir string) (*Store, error) {
	if pendingDir == "" {
		pendingDir = "./schedules/pending"
	}
	if doneDir == "" {
		doneDir = "./schedules/done"
	}
	if err := os.MkdirAll(pendingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pending area: %w", err)
	}
	if err := os.MkdirAll(doneDir, 0o755); err != nil {
		return nil, fmt.Errorf("create done area: %w", err)
	}
	return &Store{pendingDir: pendingDir, doneDir: doneDir}, nil
}

// WritePending stores a document in the pending area for a team.
func (s *Store) WritePending(teamID, filename string, data []byte) error {
	return writeDoc(s.pendingDir, teamID, filename, data)
}

// WriteDone stores a document in the done area for a team.
func (s *Store) WriteDone(teamID, filename string, data []byte) error {
	return writeDoc(s.doneDir, teamID, filename, data)
}

// ReadPending loads a pending document.
func (s *Store) ReadPending(teamID, filename string) ([]byte, error) {
	return readDoc(s.pendingDir, teamID, filename)
}

// ReadDone loads a processed document.
func (s *Store) ReadDone(teamID, filename string) ([]byte, error) {
	return readDoc(s.doneDir, teamID, filename)
}

// PendingTeams lists team directories in the pending area in sorted order.
// Sorted iteration keeps batch processing deterministic.
func (s *Store) PendingTeams() ([]string, error) {
	return listDirs(s.pendingDir)
}

// DoneTeams lists team directories in the done area in sorted order.
func (s *Store) DoneTeams() ([]string, error) {
	return listDirs(s.doneDir)
}

// PendingDocuments lists a team's pending document filenames in sorted order.
func (s *Store) PendingDocuments(teamID string) ([]string, error) {
	return listFiles(filepath.Join(s.pendingDir, teamID))
}

// DoneDocuments lists a team's processed document filenames in sorted order.
func (s *Store) DoneDocuments(teamID string) ([]string, error) {
	return listFiles(filepath.Join(s.doneDir, teamID))
}

// MoveToDone writes the (possibly mutated) document into the done area and
// removes the pending original. The write happens first so a crash between
// the two steps leaves the document visible in both areas rather than lost.
func (s *Store) MoveToDone(teamID, filename string, data []byte) error {
	if err := writeDoc(s.doneDir, teamID, filename, data); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.pendingDir, teamID, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pending document: %w", err)
	}
	return nil
}

// RemoveTeam deletes a team's documents from both areas.
func (s *Store) RemoveTeam(teamID string) error {
	for _, base := range []string{s.pendingDir, s.doneDir} {
		if err := os.RemoveAll(filepath.Join(base, teamID)); err != nil {
			return fmt.Errorf("remove team documents: %w", err)
		}
	}
	return nil
}

// PendingPath exposes the absolute pending path (useful for logs).
func (s *Store) PendingPath(teamID, filename string) string {
	return filepath.Join(s.pendingDir, teamID, filename)
}

func writeDoc(base, teamID, filename string, data []byte) error {
	dir := filepath.Join(base, teamID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare team directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func readDoc(base, teamID, filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(base, teamID, filename))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return data, nil
}

func listDirs(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list area: %w", err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list documents: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
