package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSessionRepository implements the SessionRepository interface
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB session repository
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	collection := db.Collection("sessions")

	// Index on email for looking up who a session belongs to
	emailIndex := mongo.IndexModel{
		Keys: bson.M{"email": 1},
	}
	collection.Indexes().CreateOne(context.Background(), emailIndex)

	return &MongoSessionRepository{
		collection: collection,
	}
}

// Load finds a session by name
func (r *MongoSessionRepository) Load(ctx context.Context, name string) (*entity.StoredSession, error) {
	var session entity.StoredSession
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

// Save upserts the session
func (r *MongoSessionRepository) Save(ctx context.Context, session *entity.StoredSession) error {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": session.Name},
		session,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *MongoSessionRepository) Delete(ctx context.Context, name string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemorySessionRepository keeps sessions in process memory
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.StoredSession
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]entity.StoredSession)}
}

func (r *MemorySessionRepository) Load(ctx context.Context, name string) (*entity.StoredSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[name]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return &session, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.StoredSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Name] = *session
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, name)
	return nil
}
