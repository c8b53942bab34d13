package repository

import (
	"context"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for postings. Postings
// are stored with a string "id" field so job and internship listings share
// one collection keyed the same way the application store references them.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	col.Indexes().CreateOne(context.Background(), idxModel)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(p *posting.Posting) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := m.col.InsertOne(context.Background(), p)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (m *MongoRepo) Get(id string) (*posting.Posting, error) {
	var p posting.Posting
	err := m.col.FindOne(context.Background(), bson.M{"id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
