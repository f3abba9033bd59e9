package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/zarlcorp/zlemon/internal/securestore"
)

// memStore is an in-memory securestore.Store with per-key failure injection.
type memStore struct {
	data    map[string]string
	failSet map[string]error
	failGet map[string]error
	failDel map[string]error
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{
		data:    map[string]string{},
		failSet: map[string]error{},
		failGet: map[string]error{},
		failDel: map[string]error{},
	}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if err := m.failGet[key]; err != nil {
		return "", err
	}
	v, ok := m.data[key]
	if !ok {
		return "", securestore.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	if err := m.failSet[key]; err != nil {
		return err
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	if err := m.failDel[key]; err != nil {
		return err
	}
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() error { return nil }

func testProfile() Profile {
	return Profile{
		FirstName:  "Ana",
		LastName:   "Lopez",
		Email:      "a@b.co",
		Phone:      "5551234567",
		AvatarRef:  "/home/ana/avatar.png",
		Newsletter: true,
		Promotions: false,
	}
}

func TestLoadEmptyStoreYieldsDefaults(t *testing.T) {
	s := newMemStore()

	p, err := Load(context.Background(), s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != (Profile{}) {
		t.Errorf("load = %+v, want zero profile", p)
	}
}

func TestLoadPartialStore(t *testing.T) {
	s := newMemStore()
	s.data[KeyFirstName] = "Ana"
	s.data[KeyNewsletter] = "true"
	s.data[KeyPromotions] = "yes"

	p, err := Load(context.Background(), s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if p.FirstName != "Ana" {
		t.Errorf("FirstName = %q, want Ana", p.FirstName)
	}
	if p.Email != "" {
		t.Errorf("Email = %q, want empty", p.Email)
	}
	if !p.Newsletter {
		t.Error("Newsletter should be true")
	}
	if p.Promotions {
		t.Error("Promotions should be false for non-\"true\" value")
	}
}

func TestLoadStoreFailure(t *testing.T) {
	s := newMemStore()
	s.failGet[KeyPhone] = errors.New("disk on fire")

	_, err := Load(context.Background(), s)
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()
	want := testProfile()

	if err := Save(ctx, s, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(ctx, s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveWritesAllSevenKeys(t *testing.T) {
	s := newMemStore()

	if err := Save(context.Background(), s, Profile{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, k := range Keys[1:] {
		if _, ok := s.data[k]; !ok {
			t.Errorf("key %s not written", k)
		}
	}
	if _, ok := s.data[KeyOnboardingCompleted]; ok {
		t.Error("save should not touch the completion flag")
	}
	if s.data[KeyNewsletter] != "false" {
		t.Errorf("newsletter = %q, want false", s.data[KeyNewsletter])
	}
}

func TestSaveTrims(t *testing.T) {
	s := newMemStore()
	p := Profile{FirstName: "  Ana ", Email: " a@b.co\n"}

	if err := Save(context.Background(), s, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	if s.data[KeyFirstName] != "Ana" {
		t.Errorf("firstName = %q, want Ana", s.data[KeyFirstName])
	}
	if s.data[KeyEmail] != "a@b.co" {
		t.Errorf("email = %q, want a@b.co", s.data[KeyEmail])
	}
}

func TestSavePartialFailure(t *testing.T) {
	s := newMemStore()
	s.failSet[KeyPhone] = errors.New("write failed")

	err := Save(context.Background(), s, testProfile())
	if err == nil {
		t.Fatal("expected save error")
	}

	// keys before the failure are written, keys after are not
	if s.data[KeyLastName] != "Lopez" {
		t.Errorf("lastName = %q, want Lopez", s.data[KeyLastName])
	}
	if _, ok := s.data[KeyProfileImage]; ok {
		t.Error("profileImage should not be written after a failure")
	}
}

func TestOnboard(t *testing.T) {
	s := newMemStore()

	if err := Onboard(context.Background(), s, "Ana", "a@b.co"); err != nil {
		t.Fatalf("onboard: %v", err)
	}

	want := map[string]string{
		KeyOnboardingCompleted: "true",
		KeyFirstName:           "Ana",
		KeyEmail:               "a@b.co",
	}
	if len(s.data) != len(want) {
		t.Errorf("store has %d keys, want %d", len(s.data), len(want))
	}
	for k, v := range want {
		if s.data[k] != v {
			t.Errorf("%s = %q, want %q", k, s.data[k], v)
		}
	}
}

func TestOnboardFailure(t *testing.T) {
	s := newMemStore()
	s.failSet[KeyOnboardingCompleted] = errors.New("locked")

	if err := Onboard(context.Background(), s, "Ana", "a@b.co"); err == nil {
		t.Fatal("expected onboard error")
	}
	if len(s.data) != 0 {
		t.Errorf("store has %d keys, want 0", len(s.data))
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()

	if err := Onboard(ctx, s, "Ana", "a@b.co"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := Save(ctx, s, testProfile()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := Clear(ctx, s); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, k := range Keys {
		if _, err := s.Get(ctx, k); !errors.Is(err, securestore.ErrNotFound) {
			t.Errorf("get %s after clear: got %v, want ErrNotFound", k, err)
		}
	}
}

func TestClearAttemptsAllKeysOnFailure(t *testing.T) {
	s := newMemStore()
	boom := errors.New("boom")
	s.failDel[KeyEmail] = boom

	err := Clear(context.Background(), s)
	if !errors.Is(err, boom) {
		t.Fatalf("clear: got %v, want wrapped boom", err)
	}
	if len(s.deleted) != len(Keys) {
		t.Errorf("attempted %d deletes, want %d", len(s.deleted), len(Keys))
	}
}

func TestClearEmptyStore(t *testing.T) {
	if err := Clear(context.Background(), newMemStore()); err != nil {
		t.Fatalf("clear empty store: %v", err)
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	s, err := securestore.OpenLocal(t.TempDir(), []byte("testpass"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	want := testProfile()

	if err := Save(ctx, s, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(ctx, s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}

	if err := Clear(ctx, s); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = Load(ctx, s)
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if got != (Profile{}) {
		t.Errorf("load after clear = %+v, want zero profile", got)
	}
}
