package session

import (
	"errors"
	"testing"
	"time"

	"github.com/mohdibrahimai/uire/internal/detect"
	"github.com/mohdibrahimai/uire/internal/policy"
)

func TestCreateAndGet(t *testing.T) {
	s := NewStore(0)
	sess := s.Create("abc", "give me a summary", detect.Result{Ambiguous: true}, nil)

	if sess.State != StateAwaitingAnswers {
		t.Errorf("State = %s, want awaiting_answers", sess.State)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Query != "give me a summary" || got.UserHash != "abc" {
		t.Errorf("Get returned %+v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewStore(0)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveIsTerminal(t *testing.T) {
	s := NewStore(0)
	sess := s.Create("abc", "q", detect.Result{}, nil)

	intent := policy.Intent{TaskType: policy.TaskGeneral, Risk: policy.RiskNormal}
	resolved, err := s.Resolve(sess.ID, intent, "q")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.State != StateResolved || resolved.Prompt != "q" {
		t.Errorf("resolved session = %+v", resolved)
	}

	// The second batch of answers is rejected.
	if _, err := s.Resolve(sess.ID, intent, "q"); !errors.Is(err, ErrResolved) {
		t.Errorf("second Resolve err = %v, want ErrResolved", err)
	}
}

func TestIdleExpiry(t *testing.T) {
	s := NewStore(time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	sess := s.Create("abc", "q", detect.Result{}, nil)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("idle session still visible: %v", err)
	}
	if n := s.Purge(); n != 1 {
		t.Errorf("Purge = %d, want 1", n)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after purge, want 0", s.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := NewStore(0)
	base := time.Now()
	s.now = func() time.Time { return base }
	sess := s.Create("abc", "q", detect.Result{}, nil)

	s.now = func() time.Time { return base.Add(24 * time.Hour) }
	if _, err := s.Get(sess.ID); err != nil {
		t.Errorf("session expired with ttl disabled: %v", err)
	}
	if n := s.Purge(); n != 0 {
		t.Errorf("Purge = %d, want 0", n)
	}
}
