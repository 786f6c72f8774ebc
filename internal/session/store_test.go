package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb, time.Hour, nil), mr
}

func testData(userID uint) Data {
	now := time.Now().Truncate(time.Second)
	return Data{
		UserID:       userID,
		Email:        "alice@example.com",
		Role:         "user",
		UserAgent:    "Mozilla/5.0 test",
		IP:           "203.0.113.7",
		CreatedAt:    now,
		LastActivity: now,
		IsActive:     true,
	}
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	want := testData(1)
	if err := store.Create(ctx, "tok-1", want); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for existing session")
	}
	if got.UserID != want.UserID || got.Email != want.Email || got.UserAgent != want.UserAgent {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	tokens, err := store.UserSessions(ctx, 1)
	if err != nil {
		t.Fatalf("UserSessions: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-1" {
		t.Errorf("UserSessions = %v, want [tok-1]", tokens)
	}
}

func TestGetMissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil for missing session", got)
	}
}

func TestGetExpiredSession(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "tok-exp", testData(2)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, "tok-exp")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil after TTL expiry", got)
	}
}

func TestTouchRefreshesActivityAndTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "tok-touch", testData(3)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	before, err := store.Get(ctx, "tok-touch")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Burn most of the TTL, then touch; the session must survive past the
	// original deadline.
	mr.FastForward(50 * time.Minute)
	if err := store.Touch(ctx, "tok-touch"); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	mr.FastForward(50 * time.Minute)

	after, err := store.Get(ctx, "tok-touch")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after == nil {
		t.Fatal("session expired despite touch")
	}
	if !after.LastActivity.After(before.LastActivity) {
		t.Errorf("LastActivity not advanced: before=%v after=%v",
			before.LastActivity, after.LastActivity)
	}
}

func TestTouchMissingSessionIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Touch(context.Background(), "no-such-token"); err != nil {
		t.Fatalf("Touch on missing session: %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "tok-a", testData(4)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, "tok-b", testData(4)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Invalidate(ctx, "tok-a"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	got, err := store.Get(ctx, "tok-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("session still readable after Invalidate")
	}

	// The sibling session and the index entry for it must survive.
	tokens, err := store.UserSessions(ctx, 4)
	if err != nil {
		t.Fatalf("UserSessions: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-b" {
		t.Errorf("UserSessions = %v, want [tok-b]", tokens)
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, "tok-once", testData(5)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Invalidate(ctx, "tok-once"); err != nil {
		t.Fatalf("first Invalidate: %v", err)
	}
	if err := store.Invalidate(ctx, "tok-once"); err != nil {
		t.Fatalf("second Invalidate: %v", err)
	}
	if err := store.Invalidate(ctx, "never-existed"); err != nil {
		t.Fatalf("Invalidate of unknown token: %v", err)
	}
}

func TestInvalidateUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, tok := range []string{"u6-a", "u6-b", "u6-c"} {
		if err := store.Create(ctx, tok, testData(6)); err != nil {
			t.Fatalf("Create %s: %v", tok, err)
		}
	}
	if err := store.Create(ctx, "u7-a", testData(7)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.InvalidateUser(ctx, 6); err != nil {
		t.Fatalf("InvalidateUser: %v", err)
	}

	for _, tok := range []string{"u6-a", "u6-b", "u6-c"} {
		got, err := store.Get(ctx, tok)
		if err != nil {
			t.Fatalf("Get %s: %v", tok, err)
		}
		if got != nil {
			t.Errorf("session %s survived InvalidateUser", tok)
		}
	}

	count, err := store.UserSessionCount(ctx, 6)
	if err != nil {
		t.Fatalf("UserSessionCount: %v", err)
	}
	if count != 0 {
		t.Errorf("UserSessionCount(6) = %d, want 0", count)
	}

	// The other user is untouched.
	other, err := store.Get(ctx, "u7-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if other == nil {
		t.Error("unrelated user's session was revoked")
	}
}

func TestUserSessionCount(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	count, err := store.UserSessionCount(ctx, 8)
	if err != nil {
		t.Fatalf("UserSessionCount: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0 before any session", count)
	}

	if err := store.Create(ctx, "u8-a", testData(8)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, "u8-b", testData(8)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count, err = store.UserSessionCount(ctx, 8)
	if err != nil {
		t.Fatalf("UserSessionCount: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSessions != 0 || stats.ActiveUsers != 0 {
		t.Errorf("Stats = %+v, want zeroes on empty store", stats)
	}

	if err := store.Create(ctx, "s-1", testData(10)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, "s-2", testData(10)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, "s-3", testData(11)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", stats.TotalSessions)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("ActiveUsers = %d, want 2", stats.ActiveUsers)
	}

	if err := store.Invalidate(ctx, "s-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d after revoke, want 2", stats.TotalSessions)
	}
}
