package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/careerbridge/careerbridge/backend/go-services/pkg/logger"
)

// TransitionRecord is the Mongo representation of one committed status
// change, kept for recruiter-facing history and debugging.
type TransitionRecord struct {
	ApplicationID string    `bson:"applicationId" json:"applicationId"`
	From          string    `bson:"from" json:"from"`
	To            string    `bson:"to" json:"to"`
	ActorSub      string    `bson:"actorSub,omitempty" json:"actorSub,omitempty"`
	At            time.Time `bson:"at" json:"at"`
}

// Store writes transition records into a Mongo collection. Recording is
// best-effort: failures are logged, never returned to the review flow.
type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// RecordTransition implements service.TransitionRecorder.
func (s *Store) RecordTransition(ctx context.Context, appID string, from, to application.Status, actorSub string) {
	if s == nil || s.col == nil {
		return
	}
	rec := TransitionRecord{
		ApplicationID: appID,
		From:          string(from),
		To:            string(to),
		ActorSub:      actorSub,
		At:            time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		logger.Warnf("audit: failed to record transition for %s: %v", appID, err)
	}
}

// ListByApplication fetches the transition history for one application,
// oldest first. Returns an empty slice when there is none.
func (s *Store) ListByApplication(ctx context.Context, appID string) ([]TransitionRecord, error) {
	cur, err := s.col.Find(ctx, bson.M{"applicationId": appID}, options.Find().SetSort(bson.D{{Key: "at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []TransitionRecord{}
	for cur.Next(ctx) {
		var rec TransitionRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
