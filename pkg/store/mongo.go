package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	cgerrors "github.com/fieldlab/corpusgraph/pkg/errors"
)

// collectionName holds all stored corpora, one document per corpus.
const collectionName = "corpora"

// MongoStore persists corpora in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoOptions configures the MongoDB backend.
type MongoOptions struct {
	URI      string
	Database string
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, cgerrors.Wrap(cgerrors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(collectionName),
	}, nil
}

// Save implements Store. Saving an existing ID replaces the document but
// keeps its original creation time.
func (s *MongoStore) Save(ctx context.Context, c *Corpus) error {
	if err := prepare(c); err != nil {
		return err
	}

	var prev Corpus
	err := s.coll.FindOne(ctx, bson.M{"_id": c.ID},
		options.FindOne().SetProjection(bson.M{"created_at": 1})).Decode(&prev)
	if err == nil {
		c.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return cgerrors.Wrap(cgerrors.ErrCodeStore, err, "look up corpus %s", c.ID)
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return cgerrors.Wrap(cgerrors.ErrCodeStore, err, "save corpus %s", c.ID)
	}
	return nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*Corpus, error) {
	var c Corpus
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeStore, err, "load corpus %s", id)
	}
	return &c, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"raw": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeStore, err, "list corpora")
	}
	defer cursor.Close(ctx)

	var out []Info
	if err := cursor.All(ctx, &out); err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeStore, err, "decode corpus listing")
	}
	return out, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return cgerrors.Wrap(cgerrors.ErrCodeStore, err, "delete corpus %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
