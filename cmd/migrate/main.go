package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"pulperia-be/internal/config"
	"pulperia-be/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	keys       bson.D
	unique     bool
}

// Index set the service relies on: bounded recency-sorted order listings per
// audience, unique read markers per (user, notification), and session/user
// lookups by token and id.
var indexes = []indexSpec{
	{"orders", bson.D{{Key: "order_id", Value: 1}}, true},
	{"orders", bson.D{{Key: "customer_user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
	{"orders", bson.D{{Key: "pulperia_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
	{"pulperias", bson.D{{Key: "pulperia_id", Value: 1}}, true},
	{"pulperias", bson.D{{Key: "owner_user_id", Value: 1}}, false},
	{"read_notifications", bson.D{{Key: "user_id", Value: 1}, {Key: "notification_id", Value: 1}}, true},
	{"sessions", bson.D{{Key: "session_token", Value: 1}}, true},
	{"users", bson.D{{Key: "user_id", Value: 1}}, true},
}

func main() {
	mode := flag.String("mode", "ensure", "migration mode: ensure or drop")
	flag.Parse()

	cfg := config.LoadConfig()
	database := db.InitDB(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch *mode {
	case "ensure":
		err = ensureIndexes(ctx, database)
	case "drop":
		err = dropIndexes(ctx, database)
	default:
		err = fmt.Errorf("unknown mode: %s (use 'ensure' or 'drop')", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, spec := range indexes {
		model := mongo.IndexModel{
			Keys:    spec.keys,
			Options: options.Index().SetUnique(spec.unique),
		}
		name, err := database.Collection(spec.collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return fmt.Errorf("❌ Index creation failed (%s): %w", spec.collection, err)
		}
		fmt.Printf("🚀 Ensured index %s on %s\n", name, spec.collection)
	}
	fmt.Println("✅ All indexes ensured successfully.")
	return nil
}

func dropIndexes(ctx context.Context, database *mongo.Database) error {
	seen := map[string]bool{}
	for _, spec := range indexes {
		if seen[spec.collection] {
			continue
		}
		seen[spec.collection] = true

		if _, err := database.Collection(spec.collection).Indexes().DropAll(ctx); err != nil {
			return fmt.Errorf("❌ Index drop failed (%s): %w", spec.collection, err)
		}
		fmt.Printf("🧹 Dropped indexes on %s\n", spec.collection)
	}
	fmt.Println("✅ Indexes dropped.")
	return nil
}
