package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the process-wide handle to the MongoDB deployment. It is created
// once at startup, shared read-only by every request handler, and closed at
// shutdown. Connection pooling is delegated to the driver.
type Store struct {
	client *mongo.Client
	dbname string
}

// Open connects a single MongoDB client and verifies the connection with a
// ping. The caller owns the returned Store and must Close it on shutdown.
func Open(ctx context.Context, uri, dbname string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logrus.WithField("db", dbname).Info("connected to MongoDB")
	return &Store{client: client, dbname: dbname}, nil
}

// Close tears down the client. Called once from the entry point.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping reports whether the deployment is currently reachable. Used by the
// health endpoint; liveness itself never depends on the result.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) db() *mongo.Database { return s.client.Database(s.dbname) }

// Items returns the collection backing the public items resource.
func (s *Store) Items() *mongo.Collection { return s.db().Collection("items") }

// Users returns the collection backing authentication.
func (s *Store) Users() *mongo.Collection { return s.db().Collection("users") }

// Resumes returns the collection backing the resumes resource.
func (s *Store) Resumes() *mongo.Collection { return s.db().Collection("resumes") }

// Portfolios returns the collection backing the portfolios resource.
func (s *Store) Portfolios() *mongo.Collection { return s.db().Collection("portfolios") }
