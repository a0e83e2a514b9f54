// Package mongostore is a MongoDB implementation of store.Backend.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erazemk/timely/internal/model"
	"github.com/erazemk/timely/internal/store"
)

const (
	countdownsCollection    = "countdowns"
	settingsCollection      = "settings"
	revokedTokensCollection = "revoked_tokens"
)

var _ store.Backend = (*Store)(nil)

// Store keeps countdowns, settings and revoked tokens in one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, verifies the connection and creates indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(countdownsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating countdown index: %w", err)
	}

	// Expired revocations are dropped by the server.
	_, err = s.db.Collection(revokedTokensCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("creating revocation index: %w", err)
	}
	return nil
}

// countdownDoc is the stored form of a countdown.
type countdownDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Label       string             `bson:"label"`
	Type        string             `bson:"type"`
	Date        string             `bson:"date"`
	Time        string             `bson:"time,omitempty"`
	Description string             `bson:"description,omitempty"`
	ImageRef    string             `bson:"image_ref,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func toDoc(c model.Countdown, id primitive.ObjectID) countdownDoc {
	return countdownDoc{
		ID:          id,
		Label:       c.Label,
		Type:        string(c.Type),
		Date:        c.Date,
		Time:        c.Time,
		Description: c.Description,
		ImageRef:    c.ImageRef,
		CreatedAt:   c.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

func (d countdownDoc) model() model.Countdown {
	return model.Countdown{
		ID:          d.ID.Hex(),
		Label:       d.Label,
		Type:        model.CountdownType(d.Type),
		Date:        d.Date,
		Time:        d.Time,
		Description: d.Description,
		ImageRef:    d.ImageRef,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (s *Store) InsertCountdown(ctx context.Context, c model.Countdown) (*model.Countdown, error) {
	doc := toDoc(c, primitive.NewObjectID())
	if _, err := s.db.Collection(countdownsCollection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("inserting countdown: %w", err)
	}
	created := doc.model()
	return &created, nil
}

// GetCountdown returns nil for IDs that are not ObjectID hex strings.
func (s *Store) GetCountdown(ctx context.Context, id string) (*model.Countdown, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc countdownDoc
	err = s.db.Collection(countdownsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding countdown: %w", err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) ListCountdowns(ctx context.Context, limit, offset int) ([]model.Countdown, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := s.db.Collection(countdownsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing countdowns: %w", err)
	}
	defer cur.Close(ctx)

	var docs []countdownDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding countdowns: %w", err)
	}

	countdowns := make([]model.Countdown, 0, len(docs))
	for _, d := range docs {
		countdowns = append(countdowns, d.model())
	}
	return countdowns, nil
}

func (s *Store) CountByType(ctx context.Context) (map[model.CountdownType]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.db.Collection(countdownsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("counting countdowns: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decoding counts: %w", err)
	}

	counts := make(map[model.CountdownType]int, len(rows))
	for _, r := range rows {
		counts[model.CountdownType(r.Type)] = r.Count
	}
	return counts, nil
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var doc settingDoc
	err := s.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// EnsureSetting upserts with $setOnInsert so concurrent starts agree on one value.
func (s *Store) EnsureSetting(ctx context.Context, key, candidate string) (string, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc settingDoc
	err := s.db.Collection(settingsCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$setOnInsert": bson.M{"value": candidate}},
		opts,
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.Collection(revokedTokensCollection).UpdateOne(ctx,
		bson.M{"_id": jti},
		bson.M{"$setOnInsert": bson.M{"expires_at": expiresAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.db.Collection(revokedTokensCollection).CountDocuments(ctx, bson.M{"_id": jti})
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
