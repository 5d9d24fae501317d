package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoStore struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) FindOne(ctx context.Context, collection string, filter M, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one in %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) Find(ctx context.Context, collection string, filter M, opts *FindOptions, out any) error {
	findOpts := options.Find()
	if opts != nil {
		if opts.SortField != "" {
			dir := 1
			if opts.SortDesc {
				dir = -1
			}
			findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cur, err := s.db.Collection(collection).Find(ctx, bson.M(filter), findOpts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode results from %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) InsertOne(ctx context.Context, collection string, doc any) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) UpdateOne(ctx context.Context, collection string, filter M, set M, upsert bool) error {
	_, err := s.db.Collection(collection).UpdateOne(
		ctx,
		bson.M(filter),
		bson.M{"$set": bson.M(set)},
		options.Update().SetUpsert(upsert),
	)
	if err != nil {
		return fmt.Errorf("update in %s: %w", collection, err)
	}
	return nil
}

func (s *mongoStore) Count(ctx context.Context, collection string, filter M) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("count in %s: %w", collection, err)
	}
	return n, nil
}
