package blob

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func testStore(t *testing.T) *DirStore {
	t.Helper()
	d, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	return d
}

func TestPutGetDelete(t *testing.T) {
	d := testStore(t)

	key := "chat1/1700000000-abc-report.pdf"
	if err := d.Put(key, strings.NewReader("payload bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, err := d.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("reading blob: %v", err)
	}
	if string(data) != "payload bytes" {
		t.Errorf("payload = %q", data)
	}

	if err := d.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := d.Get(key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	d := testStore(t)
	if err := d.Delete("chat1/nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) = %v, want ErrNotFound", err)
	}
}

func TestKeyEscapeRejected(t *testing.T) {
	d := testStore(t)

	for _, key := range []string{"../outside", "a/../../outside", ""} {
		if err := d.Put(key, strings.NewReader("x")); err == nil {
			t.Errorf("Put(%q) accepted a key escaping the root", key)
		}
	}
}

func TestPutOverwrites(t *testing.T) {
	d := testStore(t)

	if err := d.Put("k", strings.NewReader("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := d.Put("k", strings.NewReader("two")); err != nil {
		t.Fatalf("Put(overwrite): %v", err)
	}

	rc, err := d.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "two" {
		t.Errorf("payload = %q, want %q", data, "two")
	}
}
