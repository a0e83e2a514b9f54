package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erazemk/timely/internal/model"
)

func TestDocRoundTrip(t *testing.T) {
	c := model.Countdown{
		Label:       "Mom's Birthday",
		Type:        model.TypeBirthday,
		Date:        "2026-03-01",
		Time:        "14:30",
		Description: "Cake",
		CreatedAt:   time.Date(2026, time.February, 1, 12, 0, 0, 123456789, time.UTC),
	}
	id := primitive.NewObjectID()

	raw, err := bson.Marshal(toDoc(c, id))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["image_ref"]; ok {
		t.Error("expected empty image_ref to be omitted")
	}
	if m["type"] != "Birthday" {
		t.Errorf("expected type Birthday, got %v", m["type"])
	}

	var doc countdownDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	got := doc.model()
	if got.ID != id.Hex() {
		t.Errorf("expected id %s, got %s", id.Hex(), got.ID)
	}
	if got.Label != c.Label || got.Time != c.Time || got.ImageRef != "" {
		t.Errorf("unexpected countdown %+v", got)
	}
	if !got.CreatedAt.Equal(c.CreatedAt.Truncate(time.Millisecond)) {
		t.Errorf("expected created_at at millisecond precision, got %v", got.CreatedAt)
	}
}

// openTestStore connects to TIMELY_TEST_MONGO_URI, skipping when unset.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TIMELY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TIMELY_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := "timely_test_" + primitive.NewObjectID().Hex()
	s, err := Open(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		s.db.Drop(context.Background())
		s.Close()
	})
	return s
}

func TestStoreCountdowns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c, err := s.InsertCountdown(ctx, model.Countdown{
		Label: "Launch", Type: model.TypeLaunch, Date: "2026-09-01", CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertCountdown: %v", err)
	}

	got, err := s.GetCountdown(ctx, c.ID)
	if err != nil || got == nil || got.Label != "Launch" {
		t.Fatalf("GetCountdown = %+v, %v", got, err)
	}

	for _, id := range []string{primitive.NewObjectID().Hex(), "nope"} {
		got, err := s.GetCountdown(ctx, id)
		if err != nil || got != nil {
			t.Errorf("GetCountdown(%q) = %+v, %v; want nil, nil", id, got, err)
		}
	}

	counts, err := s.CountByType(ctx)
	if err != nil || counts[model.TypeLaunch] != 1 {
		t.Errorf("CountByType = %v, %v", counts, err)
	}

	list, err := s.ListCountdowns(ctx, 10, 0)
	if err != nil || len(list) != 1 {
		t.Errorf("ListCountdowns = %+v, %v", list, err)
	}
}

func TestStoreSettingsAndTokens(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := s.EnsureSetting(ctx, "k", "first")
	if err != nil || v != "first" {
		t.Fatalf("EnsureSetting = %q, %v", v, err)
	}
	v, err = s.EnsureSetting(ctx, "k", "second")
	if err != nil || v != "first" {
		t.Errorf("EnsureSetting kept %q, %v", v, err)
	}

	if err := s.RevokeToken(ctx, "jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	revoked, err := s.IsTokenRevoked(ctx, "jti")
	if err != nil || !revoked {
		t.Errorf("IsTokenRevoked = %v, %v", revoked, err)
	}
}
