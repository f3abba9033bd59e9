package securestore

import (
	"context"
	"errors"
	"testing"

	"github.com/zarlcorp/core/pkg/zfilesystem"
)

func openTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := OpenLocal(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestLocalSetAndGet(t *testing.T) {
	s, _ := openTestLocal(t)
	ctx := context.Background()

	if err := s.Set(ctx, "firstName", "Ana"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "firstName")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Ana" {
		t.Errorf("get = %q, want %q", got, "Ana")
	}
}

func TestLocalGetNotFound(t *testing.T) {
	s, _ := openTestLocal(t)

	_, err := s.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("get nonexistent: got %v, want ErrNotFound", err)
	}
}

func TestLocalSetOverwrites(t *testing.T) {
	s, _ := openTestLocal(t)
	ctx := context.Background()

	for _, v := range []string{"false", "true"} {
		if err := s.Set(ctx, "newsletter", v); err != nil {
			t.Fatalf("set %s: %v", v, err)
		}
	}

	got, err := s.Get(ctx, "newsletter")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "true" {
		t.Errorf("get = %q, want last write %q", got, "true")
	}
}

func TestLocalDelete(t *testing.T) {
	s, _ := openTestLocal(t)
	ctx := context.Background()

	if err := s.Set(ctx, "email", "a@b.co"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, "email"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := s.Get(ctx, "email")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestLocalDeleteMissingIsNotAnError(t *testing.T) {
	s, _ := openTestLocal(t)

	if err := s.Delete(context.Background(), "never-set"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestLocalEmptyValue(t *testing.T) {
	s, _ := openTestLocal(t)
	ctx := context.Background()

	if err := s.Set(ctx, "profileImage", ""); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := Lookup(ctx, s, "profileImage")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !ok {
		t.Fatal("empty value should still be present")
	}
	if v != "" {
		t.Errorf("value = %q, want empty", v)
	}
}

func TestLocalPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := OpenLocal(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.Set(ctx, "phone", "5551234567"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := OpenLocal(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "phone")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "5551234567" {
		t.Errorf("get = %q, want %q", got, "5551234567")
	}
}

func TestLocalWrongPassword(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenLocal(dir, []byte("correct"))
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	_, err = OpenLocal(dir, []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("open with wrong password: got %v, want ErrWrongPassword", err)
	}
}

func TestLookupAbsent(t *testing.T) {
	s, _ := openTestLocal(t)

	v, ok, err := Lookup(context.Background(), s, "lastName")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if ok || v != "" {
		t.Errorf("lookup = (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestNewLocalMemFS(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	ctx := context.Background()

	s1, err := NewLocal(fs, []byte("testpass"))
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if err := s1.Set(ctx, "phone", "5551234567"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := NewLocal(fs, []byte("testpass"))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "phone")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "5551234567" {
		t.Errorf("got %q, want 5551234567", got)
	}
}

func TestLocalKeysReadIndependently(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	ctx := context.Background()

	s, err := NewLocal(fs, []byte("testpass"))
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "firstName", "Ana"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// an unreadable sibling entry must not affect other keys
	if err := fs.WriteFile("secure/phone.enc", []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write corrupt entry: %v", err)
	}

	got, err := s.Get(ctx, "firstName")
	if err != nil {
		t.Fatalf("get firstName: %v", err)
	}
	if got != "Ana" {
		t.Errorf("firstName = %q, want Ana", got)
	}

	if _, err := s.Get(ctx, "isOnboardingCompleted"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get absent key: got %v, want ErrNotFound", err)
	}

	if _, err := s.Get(ctx, "phone"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("get corrupt key: got %v, want a read error", err)
	}

	if err := s.Delete(ctx, "promotions"); err != nil {
		t.Errorf("delete absent key: %v", err)
	}
}

func TestLocalCloseReportsResult(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenLocal(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenLocal(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
