package storage

import (
	"errors"
	"testing"
)

func mustCreateFolder(t *testing.T, s *Store, id, name string, parent *string) {
	t.Helper()
	if err := s.CreateFolder(Folder{ID: id, Name: name, ParentID: parent}); err != nil {
		t.Fatalf("CreateFolder(%s) failed: %v", id, err)
	}
}

func strptr(v string) *string { return &v }

func TestCreateFolderMissingParent(t *testing.T) {
	s := openTestStore(t)
	err := s.CreateFolder(Folder{ID: "f1", Name: "x", ParentID: strptr("missing")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateFolder with missing parent = %v, want ErrNotFound", err)
	}
}

func TestListFoldersFlat(t *testing.T) {
	s := openTestStore(t)
	mustCreateFolder(t, s, "f1", "Work", nil)
	mustCreateFolder(t, s, "f2", "Projects", strptr("f1"))
	mustCreateFolder(t, s, "f3", "Archive", strptr("f2"))

	folders, err := s.ListFolders()
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 3 {
		t.Fatalf("len = %d, want 3", len(folders))
	}
	// Flat list: nesting is left to the caller, parent pointers intact.
	byID := make(map[string]Folder)
	for _, f := range folders {
		byID[f.ID] = f
	}
	if byID["f3"].ParentID == nil || *byID["f3"].ParentID != "f2" {
		t.Errorf("f3 parent = %v, want f2", byID["f3"].ParentID)
	}
}

// TestUpdateFolderCycleRejected builds f1 <- f2 <- f3 and tries to re-parent
// f1 under its descendant f3: must fail and mutate nothing.
func TestUpdateFolderCycleRejected(t *testing.T) {
	s := openTestStore(t)
	mustCreateFolder(t, s, "f1", "a", nil)
	mustCreateFolder(t, s, "f2", "b", strptr("f1"))
	mustCreateFolder(t, s, "f3", "c", strptr("f2"))

	_, err := s.UpdateFolder("f1", FolderUpdate{ParentID: strptr("f3")})
	if !errors.Is(err, ErrFolderCycle) {
		t.Fatalf("UpdateFolder = %v, want ErrFolderCycle", err)
	}

	// Nothing mutated.
	f1, err := s.GetFolder("f1")
	if err != nil {
		t.Fatalf("GetFolder: %v", err)
	}
	if f1.ParentID != nil {
		t.Errorf("f1 parent mutated to %v after rejected update", *f1.ParentID)
	}
}

func TestUpdateFolderSelfParentRejected(t *testing.T) {
	s := openTestStore(t)
	mustCreateFolder(t, s, "f1", "a", nil)

	if _, err := s.UpdateFolder("f1", FolderUpdate{ParentID: strptr("f1")}); !errors.Is(err, ErrFolderCycle) {
		t.Errorf("self-parent = %v, want ErrFolderCycle", err)
	}
}

func TestUpdateFolderRenameAndMove(t *testing.T) {
	s := openTestStore(t)
	mustCreateFolder(t, s, "f1", "a", nil)
	mustCreateFolder(t, s, "f2", "b", nil)

	got, err := s.UpdateFolder("f2", FolderUpdate{Name: strptr("renamed"), ParentID: strptr("f1")})
	if err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	if got.Name != "renamed" || got.ParentID == nil || *got.ParentID != "f1" {
		t.Errorf("UpdateFolder = %+v", got)
	}

	got, err = s.UpdateFolder("f2", FolderUpdate{ClearParent: true})
	if err != nil {
		t.Fatalf("UpdateFolder(clear): %v", err)
	}
	if got.ParentID != nil {
		t.Errorf("ParentID = %v, want nil", got.ParentID)
	}
}

// TestDeleteFolderReparents verifies that deleting a folder moves its direct
// child folders and chats to root instead of cascading.
func TestDeleteFolderReparents(t *testing.T) {
	s := openTestStore(t)
	mustCreateFolder(t, s, "f1", "parent", nil)
	mustCreateFolder(t, s, "f2", "child", strptr("f1"))

	c := Chat{ID: "c1", Title: "t", APIKey: "chat_c1", FolderID: strptr("f1"), CreatedAt: 1}
	if err := s.CreateChat(c); err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if err := s.DeleteFolder("f1"); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}

	if _, err := s.GetFolder("f1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted folder still present: %v", err)
	}
	f2, err := s.GetFolder("f2")
	if err != nil {
		t.Fatalf("child folder cascaded away: %v", err)
	}
	if f2.ParentID != nil {
		t.Errorf("child folder parent = %v, want nil", *f2.ParentID)
	}
	got, err := s.GetChat("c1")
	if err != nil {
		t.Fatalf("chat cascaded away: %v", err)
	}
	if got.FolderID != nil {
		t.Errorf("chat folder = %v, want nil", *got.FolderID)
	}
}

func TestDeleteFolderNotFound(t *testing.T) {
	s := openTestStore(t)
	if err := s.DeleteFolder("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteFolder(missing) = %v, want ErrNotFound", err)
	}
}
