package prefs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohdibrahimai/uire/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func grantConsent(t *testing.T, s *Store, userHash string) {
	t.Helper()
	if err := s.SetConsent(context.Background(), userHash, true); err != nil {
		t.Fatalf("SetConsent: %v", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, "abc", "region")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "FR" {
		t.Errorf("Get = %q, want FR", got)
	}
}

func TestConsentGating(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// No consent record at all.
	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); !errors.Is(err, ErrConsentRequired) {
		t.Errorf("Set without consent: err = %v, want ErrConsentRequired", err)
	}
	if _, err := s.Get(ctx, "abc", "region"); !errors.Is(err, ErrConsentRequired) {
		t.Errorf("Get without consent: err = %v, want ErrConsentRequired", err)
	}
	if _, err := s.All(ctx, "abc"); !errors.Is(err, ErrConsentRequired) {
		t.Errorf("All without consent: err = %v, want ErrConsentRequired", err)
	}

	// Explicitly revoked consent behaves the same.
	if err := s.SetConsent(ctx, "abc", false); err != nil {
		t.Fatalf("SetConsent: %v", err)
	}
	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); !errors.Is(err, ErrConsentRequired) {
		t.Errorf("Set with revoked consent: err = %v, want ErrConsentRequired", err)
	}

	// Delete is always permitted, to honor opt-out.
	if err := s.Delete(ctx, "abc", "region"); err != nil {
		t.Errorf("Delete without consent: %v", err)
	}
	if err := s.ClearUser(ctx, "abc"); err != nil {
		t.Errorf("ClearUser without consent: %v", err)
	}
}

func TestConsentRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	granted, err := s.Consent(ctx, "abc")
	if err != nil {
		t.Fatalf("Consent: %v", err)
	}
	if granted {
		t.Errorf("consent defaulted to granted")
	}

	grantConsent(t, s, "abc")
	if granted, _ = s.Consent(ctx, "abc"); !granted {
		t.Errorf("consent not persisted")
	}

	if err := s.SetConsent(ctx, "abc", false); err != nil {
		t.Fatalf("SetConsent: %v", err)
	}
	if granted, _ = s.Consent(ctx, "abc"); granted {
		t.Errorf("consent revocation not persisted")
	}
}

func TestInvalidTTLRejected(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	for _, ttl := range []time.Duration{0, -time.Second} {
		if err := s.Set(ctx, "abc", "region", "FR", ttl); !errors.Is(err, ErrInvalidTTL) {
			t.Errorf("Set with ttl %s: err = %v, want ErrInvalidTTL", ttl, err)
		}
	}
	// Nothing was stored.
	if _, err := s.Get(ctx, "abc", "region"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after rejected Set: err = %v, want ErrNotFound", err)
	}
}

func TestExpiredRecordInvisibleBeforeSweep(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	base := time.Now()
	s.now = func() time.Time { return base }
	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Thirty minutes in: visible.
	s.now = func() time.Time { return base.Add(30 * time.Minute) }
	if got, err := s.Get(ctx, "abc", "region"); err != nil || got != "FR" {
		t.Fatalf("Get at 30m = %q, %v; want FR", got, err)
	}

	// Ninety minutes in: expired, absent, no sweep has run.
	s.now = func() time.Time { return base.Add(90 * time.Minute) }
	if _, err := s.Get(ctx, "abc", "region"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get at 90m: err = %v, want ErrNotFound", err)
	}
	all, err := s.All(ctx, "abc")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All at 90m = %v, want empty", all)
	}
}

func TestSweepReclaimsOnlyExpired(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	base := time.Now()
	s.now = func() time.Time { return base }
	if err := s.Set(ctx, "abc", "region", "FR", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "abc", "language", "ES", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	n, err := s.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 1 {
		t.Errorf("Sweep reclaimed %d rows, want 1", n)
	}

	if got, err := s.Get(ctx, "abc", "language"); err != nil || got != "ES" {
		t.Errorf("unexpired record lost: %q, %v", got, err)
	}
}

func TestOverwriteExtendsExpiry(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	base := time.Now()
	s.now = func() time.Time { return base }
	if err := s.Set(ctx, "abc", "region", "FR", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Refresh just before the original expiry.
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	if err := s.Set(ctx, "abc", "region", "DE", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// The sweep at the old expiry must not touch the refreshed row.
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.Sweep(ctx); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if got, err := s.Get(ctx, "abc", "region"); err != nil || got != "DE" {
		t.Errorf("refreshed record lost: %q, %v", got, err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Delete(ctx, "abc", "region"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "abc", "region"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestUsersIsolated(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")
	grantConsent(t, s, "xyz")

	if err := s.Set(ctx, "abc", "region", "FR", time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := s.Get(ctx, "xyz", "region"); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's Get: err = %v, want ErrNotFound", err)
	}
}

func TestConcurrentSetGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	grantConsent(t, s, "abc")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Set(ctx, "abc", "region", "FR", time.Hour); err != nil {
				t.Errorf("Set: %v", err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Get(ctx, "abc", "region")
			if err != nil && !errors.Is(err, ErrNotFound) {
				t.Errorf("Get: %v", err)
			}
			if err == nil && got != "FR" {
				t.Errorf("Get observed partial write: %q", got)
			}
		}()
	}
	wg.Wait()
}
