package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/edgepay/edgepay-gobackend/internal/models"
)

// Connect initializes the MongoDB connection using the provided URI and
// pings the primary to verify it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client, nil
}

// MongoStore implements LinkStore over a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection("payment_links")}
}

// EnsureIndexes creates the indexes the listing sort depends on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (s *MongoStore) Create(ctx context.Context, link models.PaymentLink) error {
	_, err := s.collection.InsertOne(ctx, link)
	return err
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.PaymentLink, error) {
	var link models.PaymentLink
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&link); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.PaymentLink{}, ErrNoDocument
		}
		return models.PaymentLink{}, err
	}
	return link, nil
}

func (s *MongoStore) Exists(ctx context.Context, id string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *MongoStore) ListAll(ctx context.Context) (Page, error) {
	cur, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return Page{}, err
	}
	defer cur.Close(ctx)

	items := []models.PaymentLink{}
	if err := cur.All(ctx, &items); err != nil {
		return Page{}, err
	}
	return Page{Items: items}, nil
}
