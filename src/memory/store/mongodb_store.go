package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/borgo-ai/borgo/src/memory/model"
)

// MongoStore implements VectorStore on MongoDB Atlas vector search.
type MongoStore struct {
	client            *mongo.Client
	collection        *mongo.Collection
	counterCollection *mongo.Collection
}

const mongoCloseTimeout = 5 * time.Second

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		return nil, errors.New("mongo collection name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(database)
	return &MongoStore{
		client:            client,
		collection:        db.Collection(collection),
		counterCollection: db.Collection("counters"),
	}, nil
}

func (ms *MongoStore) StoreMemory(ctx context.Context, sessionID, content, metadata string, embedding []float32) error {
	if ms == nil || ms.collection == nil {
		return nil
	}
	id, err := ms.nextID(ctx)
	if err != nil {
		return err
	}
	doc := bson.M{
		"_id":        id,
		"session_id": sessionID,
		"content":    content,
		"metadata":   metadata,
		"embedding":  float64Embedding(embedding),
		"source":     model.MetadataSource(metadata),
		"created_at": time.Now().UTC(),
	}
	_, err = ms.collection.InsertOne(ctx, doc)
	return err
}

func (ms *MongoStore) SearchMemory(ctx context.Context, queryEmbedding []float32, limit int) ([]model.MemoryRecord, error) {
	if ms == nil || ms.collection == nil || limit <= 0 {
		return nil, nil
	}

	// $vectorSearch needs an Atlas vector index named "vector_index" on the
	// embedding field. Oversample candidates for better recall.
	pipeline := mongo.Pipeline{
		{
			{Key: "$vectorSearch", Value: bson.D{
				{Key: "index", Value: "vector_index"},
				{Key: "path", Value: "embedding"},
				{Key: "queryVector", Value: float64Embedding(queryEmbedding)},
				{Key: "numCandidates", Value: int64(limit * 10)},
				{Key: "limit", Value: int64(limit)},
			}},
		},
		{
			{Key: "$addFields", Value: bson.D{
				{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
			}},
		},
	}

	cursor, err := ms.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.MemoryRecord
	for cursor.Next(ctx) {
		var doc struct {
			ID        int64     `bson:"_id"`
			SessionID string    `bson:"session_id"`
			Content   string    `bson:"content"`
			Metadata  string    `bson:"metadata"`
			Embedding []float64 `bson:"embedding"`
			Score     float64   `bson:"score"`
			Source    string    `bson:"source"`
			CreatedAt time.Time `bson:"created_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, model.MemoryRecord{
			ID:        doc.ID,
			SessionID: doc.SessionID,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: float32Embedding(doc.Embedding),
			Score:     doc.Score,
			Source:    doc.Source,
			CreatedAt: doc.CreatedAt,
		})
	}
	return records, cursor.Err()
}

func (ms *MongoStore) DeleteMemory(ctx context.Context, ids []int64) error {
	if ms == nil || ms.collection == nil || len(ids) == 0 {
		return nil
	}
	_, err := ms.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (ms *MongoStore) Count(ctx context.Context) (int, error) {
	if ms == nil || ms.collection == nil {
		return 0, nil
	}
	n, err := ms.collection.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// Close disconnects the client with a bounded timeout.
func (ms *MongoStore) Close() error {
	if ms == nil || ms.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

// nextID maintains a monotonically increasing numeric id via a counters
// document, matching the int64 ids the other stores hand out.
func (ms *MongoStore) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := ms.counterCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "memory_bank"},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func float64Embedding(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func float32Embedding(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
