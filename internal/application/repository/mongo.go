package repository

import (
	"context"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements the application record store on a Mongo collection.
// Records carry a string "id" field; a unique applicant+posting index
// enforces the one-application-per-posting policy at the storage layer.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idIdx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	dupIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "postingId", Value: 1}, {Key: "applicantSub", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{idIdx, dupIdx})
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(app *application.Application) (*application.Application, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	app.Status = app.Status.Normalize()
	if _, err := m.col.InsertOne(context.Background(), app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return app, nil
}

func (m *MongoRepo) Get(id string) (*application.Application, error) {
	var a application.Application
	err := m.col.FindOne(context.Background(), bson.M{"id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByPosting returns applications in insertion order (createdAt, then id
// for stable ties). Decode failures on individual records are skipped so one
// corrupted entry cannot break the roster.
func (m *MongoRepo) ListByPosting(postingID string) ([]*application.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}})
	cur, err := m.col.Find(context.Background(), bson.M{"postingId": postingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(context.Background())
	out := []*application.Application{}
	for cur.Next(context.Background()) {
		var a application.Application
		if err := cur.Decode(&a); err != nil {
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}

func (m *MongoRepo) SetStatus(id string, status application.Status) (*application.Application, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status.Normalize()}}
	var a application.Application
	if err := m.col.FindOneAndUpdate(context.Background(), bson.M{"id": id}, update, opts).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
