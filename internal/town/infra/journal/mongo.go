package journal

import (
	"context"
	"errors"
	"time"

	"FrontierTown/internal/shared/serverconfig"
	"FrontierTown/modules/kit/logx"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultMongoDatabase   = "frontier_town"
	defaultMongoCollection = "events"
)

type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func OpenMongo(cfg serverconfig.MongoDBConfig, log logx.Logger) (*MongoSink, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	log = logx.OrNop(log)
	if cfg.Database == "" {
		cfg.Database = defaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultMongoCollection
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("open mongodb journal success",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoSink) Write(ctx context.Context, e Entry) error {
	_, err := s.coll.InsertOne(ctx, e)
	return err
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
