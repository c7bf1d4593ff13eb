package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nerrad567/gucfop/internal/infrastructure/config"
)

// DefaultServerSelectionTimeout applies when the config leaves it unset.
const DefaultServerSelectionTimeout = 5 * time.Second

// Client is a MongoDB connection bound to one database and collection.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection

	closed bool
	mu     sync.RWMutex
}

// Connect creates a client for cfg.URI bound to cfg.Database and
// cfg.Collection.
//
// When cfg.Verbose is set the server is pinged before returning.
//
// Returns:
//   - *Client: client ready for use
//   - error: ErrInvalidConfig or ErrConnectionFailed
func Connect(ctx context.Context, cfg config.MongoDBConfig) (*Client, error) {
	if cfg.URI == "" || cfg.Database == "" || cfg.Collection == "" {
		return nil, fmt.Errorf("%w: uri, database and collection are required", ErrInvalidConfig)
	}

	timeout := time.Duration(cfg.ServerSelectionTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultServerSelectionTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout)

	mc, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c := &Client{client: mc}
	c.database = mc.Database(cfg.Database)
	c.collection = c.database.Collection(cfg.Collection)

	if cfg.Verbose {
		if err := c.Ping(ctx); err != nil {
			_ = mc.Disconnect(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		}
	}

	return c, nil
}

// Close disconnects from the server. Calling Close more than once is safe.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.client == nil {
		return nil
	}
	c.closed = true
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb disconnect: %w", err)
	}
	return nil
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping: %w", err)
	}
	return nil
}

// Database returns the bound database name.
func (c *Client) Database() string {
	return c.database.Name()
}

// Collection returns the bound collection name.
func (c *Client) Collection() string {
	return c.collection.Name()
}

// DropDatabase drops the bound database.
func (c *Client) DropDatabase(ctx context.Context) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.database.Drop(ctx); err != nil {
		return fmt.Errorf("dropping database %q: %w", c.database.Name(), err)
	}
	return nil
}

// DropCollection drops the bound collection. Dropping a collection that
// does not exist is not an error.
func (c *Client) DropCollection(ctx context.Context) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.collection.Drop(ctx); err != nil {
		return fmt.Errorf("dropping collection %q: %w", c.collection.Name(), err)
	}
	return nil
}

// InsertOne inserts a document and returns its _id.
func (c *Client) InsertOne(ctx context.Context, doc any) (any, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	res, err := c.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return res.InsertedID, nil
}

// InsertMany inserts docs in order and returns their _ids.
// An empty slice returns ErrEmptyInsert without contacting the server.
func (c *Client) InsertMany(ctx context.Context, docs []any) ([]any, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyInsert
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	res, err := c.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("inserting %d documents: %w", len(docs), err)
	}
	return res.InsertedIDs, nil
}

// Find returns all documents matching filter. A nil filter matches every
// document in the collection.
func (c *Client) Find(ctx context.Context, filter any) ([]bson.M, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = bson.D{}
	}

	cur, err := c.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}
	return docs, nil
}

func (c *Client) check() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.client == nil {
		return ErrNotConnected
	}
	return nil
}
