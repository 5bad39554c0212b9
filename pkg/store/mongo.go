package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
)

// MongoConfig configures the MongoDB-backed store.
type MongoConfig struct {
	// URI is the MongoDB connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database is the database name. Defaults to "umlkit".
	Database string

	// Collection is the collection name. Defaults to "diagrams".
	Collection string
}

// MongoStore stores each diagram as one document keyed by name. The wire
// document is stored natively via its bson tags, so diagrams remain
// queryable server-side.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoRecord is the stored document for one diagram.
type mongoRecord struct {
	Name      string           `bson:"_id"`
	Diagram   string           `bson:"diagram"`
	Doc       persist.Document `bson:"doc"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	db := cfg.Database
	if db == "" {
		db = "umlkit"
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "diagrams"
	}
	return &MongoStore{client: client, collection: client.Database(db).Collection(coll)}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, d *diagram.Diagram) error {
	if err := validateName(name); err != nil {
		return err
	}
	rec := mongoRecord{
		Name:      name,
		Diagram:   d.TypeName(),
		Doc:       persist.Encode(d),
		UpdatedAt: time.Now(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %q", name)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*diagram.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	var rec mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load %q", name)
	}
	return persist.Decode(rec.Doc)
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1, "diagram": 1, "updated_at": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	defer cursor.Close(ctx)

	var out []Info
	for cursor.Next(ctx) {
		var rec mongoRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode listing")
		}
		out = append(out, Info{Name: rec.Name, Diagram: rec.Diagram, UpdatedAt: rec.UpdatedAt})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %q", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
