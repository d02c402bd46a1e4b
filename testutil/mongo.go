package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pkordes/travel-aggregator/internal/db"
)

// NewMongoDatabase connects to the server named by TEST_MONGODB_URI and returns
// a freshly named database that is dropped when the test finishes.
//
// The test is skipped automatically if TEST_MONGODB_URI is not set.
func NewMongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set; skipping integration test")
	}

	name := fmt.Sprintf("travel_test_%d", time.Now().UnixNano())
	client, err := db.NewMongoClient(context.Background(), db.MongoConfig{
		URI:               uri,
		Database:          name,
		ConnectionTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("testutil.NewMongoDatabase: %v", err)
	}

	database := client.Database(name)
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
		_ = db.DisconnectMongo(context.Background(), client)
	})
	return database
}
