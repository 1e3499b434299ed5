package mongodb

import (
	"context"

	"github.com/xuenqlve/rangekit/chunk"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/ranges"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Query struct {
	Database   string         `json:"database" toml:"database" yaml:"database"`
	Collection string         `json:"collection" toml:"collection" yaml:"collection"`
	KeyField   string         `json:"key-field" toml:"key-field" yaml:"key-field"`
	TimeField  string         `json:"time-field" toml:"time-field" yaml:"time-field"`
	Projection []string       `json:"projection" toml:"projection" yaml:"projection"`
	Filter     map[string]any `json:"filter" toml:"filter" yaml:"filter"`
}

type finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type Fetcher[T ranges.Number] struct {
	coll  finder
	query Query
}

var _ fetch.Fetcher[int64] = (*Fetcher[int64])(nil)

func NewFetcher[T ranges.Number](client *mongo.Client, query Query) (*Fetcher[T], error) {
	if query.Database == "" || query.Collection == "" || query.TimeField == "" {
		return nil, errors.NewRangeErrorMessage(errors.ErrCodeConfig, "mongodb query needs database, collection and time-field")
	}
	return &Fetcher[T]{
		coll:  client.Database(query.Database).Collection(query.Collection),
		query: query,
	}, nil
}

// filter 与 SQL 数据源共用 chunk 的边界语义：key 等值，时间左闭右开
func (q *Query) filter(key string, start, end any) bson.M {
	c := chunk.NewChunk()
	if q.KeyField != "" {
		c.Equal(q.KeyField, key)
	}
	c.Update(q.TimeField, start, end, true, true)
	return chunk.ScanBson(c, bson.M(q.Filter))
}

func (q *Query) findOptions(samples int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: q.TimeField, Value: 1}})
	if len(q.Projection) > 0 {
		projection := bson.D{}
		for _, field := range q.Projection {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
		opts.SetProjection(projection)
	}
	if samples > 0 {
		opts.SetLimit(int64(samples))
	}
	return opts
}

func (f *Fetcher[T]) Fetch(ctx context.Context, req fetch.Request[T]) ([]fetch.Row, error) {
	cursor, err := f.coll.Find(ctx, f.query.filter(req.Key, req.Range.Start, req.Range.End), f.query.findOptions(req.Samples))
	if err != nil {
		return nil, errors.Annotatef(err, "find %s.%s", f.query.Database, f.query.Collection)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Trace(err)
	}
	rows := make([]fetch.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, fetch.Row(doc))
	}
	return rows, nil
}
