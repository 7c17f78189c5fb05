package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// MongoConfig holds connection settings for the MongoDB backend.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps documents in a MongoDB collection keyed by the document
// id. The scene payload is stored as a structured sub-document, so scenes
// remain queryable server-side.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "nodecanvas"
	}
	if cfg.Collection == "" {
		cfg.Collection = "scenes"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, doc *Document) error {
	if err := prepare(doc); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write scene document")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "scene document %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read scene document")
	}
	return &doc, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Document, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list scene documents")
	}
	defer cur.Close(ctx)

	var docs []*Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode scene documents")
	}
	sortByName(docs)
	return docs, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete scene document")
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
