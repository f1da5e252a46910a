package directory

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

const (
	defaultMongoDatabase   = "trombinoscope"
	defaultMongoCollection = "employees"
)

// Mongo is a Repository backed by a MongoDB collection. Insertion order is
// kept in a per-document sequence number drawn from a counters collection.
type Mongo struct {
	client   *mongo.Client
	coll     *mongo.Collection
	counters *mongo.Collection
}

type mongoEmployee struct {
	Employee `bson:",inline"`
	Seq      int64 `bson:"seq"`
}

// OpenMongo connects to uri and ensures the unique index on employee id.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if uri == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidConfig, "mongo backend requires a dsn")
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	if collection == "" {
		collection = defaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storageErr(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storageErr(err, "ping mongo")
	}

	db := client.Database(database)
	m := &Mongo{
		client:   client,
		coll:     db.Collection(collection),
		counters: db.Collection(collection + "_counters"),
	}
	_, err = m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, storageErr(err, "create mongo index")
	}
	return m, nil
}

func (m *Mongo) List(ctx context.Context) ([]Employee, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, storageErr(err, "list employees")
	}
	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageErr(err, "decode employees")
	}

	out := make([]Employee, len(docs))
	for i, d := range docs {
		out[i] = d.Employee
	}
	return out, nil
}

func (m *Mongo) Add(ctx context.Context, e Employee) error {
	seq, err := m.nextSeq(ctx)
	if err != nil {
		return err
	}
	_, err = m.coll.InsertOne(ctx, mongoEmployee{Employee: e, Seq: seq})
	if mongo.IsDuplicateKeyError(err) {
		return duplicateID(e.ID)
	}
	return storageErr(err, "insert employee")
}

func (m *Mongo) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := m.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: "employees"}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "value", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, storageErr(err, "allocate sequence")
	}
	return counter.Value, nil
}

func (m *Mongo) Remove(ctx context.Context, id int) error {
	_, err := m.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	return storageErr(err, "delete employee")
}

func (m *Mongo) NextID(ctx context.Context) (int, error) {
	var last mongoEmployee
	err := m.coll.FindOne(ctx, bson.D{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, storageErr(err, "next employee id")
	}
	return last.ID + 1, nil
}

func (m *Mongo) Clear(ctx context.Context) error {
	_, err := m.coll.DeleteMany(ctx, bson.D{})
	return storageErr(err, "clear employees")
}

func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

var _ Repository = (*Mongo)(nil)
