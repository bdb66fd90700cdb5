package storage

import (
	"database/sql"
	"fmt"
)

// CreateFolder inserts a new folder. A non-nil parent must reference an
// existing folder; ErrNotFound is returned otherwise.
func (s *Store) CreateFolder(f Folder) error {
	if f.ParentID != nil {
		if _, err := s.GetFolder(*f.ParentID); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(
		"INSERT INTO folders (id, name, parent_id) VALUES (?, ?, ?)",
		f.ID, f.Name, f.ParentID,
	)
	return err
}

// GetFolder returns the folder with the given id.
func (s *Store) GetFolder(id string) (Folder, error) {
	var f Folder
	err := s.db.QueryRow(
		"SELECT id, name, parent_id FROM folders WHERE id = ?", id,
	).Scan(&f.ID, &f.Name, &f.ParentID)
	if err == sql.ErrNoRows {
		return Folder{}, ErrNotFound
	}
	if err != nil {
		return Folder{}, err
	}
	return f, nil
}

// ListFolders returns the full folder forest as a flat list. Nesting is the
// caller's read-side computation from parent_id.
func (s *Store) ListFolders() ([]Folder, error) {
	rows, err := s.db.Query("SELECT id, name, parent_id FROM folders ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.ParentID); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// UpdateFolder applies a partial update. Re-parenting walks the ancestors of
// the proposed parent and rejects with ErrFolderCycle if id appears among
// them; nothing is mutated on rejection.
func (s *Store) UpdateFolder(id string, upd FolderUpdate) (Folder, error) {
	f, err := s.GetFolder(id)
	if err != nil {
		return Folder{}, err
	}

	if upd.Name != nil {
		f.Name = *upd.Name
	}
	switch {
	case upd.ClearParent:
		f.ParentID = nil
	case upd.ParentID != nil:
		parent := *upd.ParentID
		if _, err := s.GetFolder(parent); err != nil {
			return Folder{}, err
		}
		cycle, err := s.reachesFolder(parent, id)
		if err != nil {
			return Folder{}, err
		}
		if cycle {
			return Folder{}, ErrFolderCycle
		}
		f.ParentID = &parent
	}

	_, err = s.db.Exec("UPDATE folders SET name = ?, parent_id = ? WHERE id = ?", f.Name, f.ParentID, f.ID)
	if err != nil {
		return Folder{}, err
	}
	return f, nil
}

// reachesFolder reports whether target appears on the ancestor chain that
// starts at from (inclusive). Visited tracking guards against walking a
// corrupted chain forever.
func (s *Store) reachesFolder(from, target string) (bool, error) {
	visited := make(map[string]bool)
	current := &from
	for current != nil {
		if *current == target {
			return true, nil
		}
		if visited[*current] {
			return false, fmt.Errorf("folder chain at %s already contains a cycle", *current)
		}
		visited[*current] = true

		f, err := s.GetFolder(*current)
		if err != nil {
			return false, err
		}
		current = f.ParentID
	}
	return false, nil
}

// DeleteFolder removes a folder. Direct child folders and chats are
// reassigned to root in the same transaction; descendants are never
// cascade-deleted.
func (s *Store) DeleteFolder(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	var exists string
	err = tx.QueryRow("SELECT id FROM folders WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec("UPDATE folders SET parent_id = NULL WHERE parent_id = ?", id); err != nil {
		return fmt.Errorf("reparenting child folders: %w", err)
	}
	if _, err := tx.Exec("UPDATE chats SET folder_id = NULL WHERE folder_id = ?", id); err != nil {
		return fmt.Errorf("reparenting chats: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM folders WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting folder: %w", err)
	}

	return tx.Commit()
}
