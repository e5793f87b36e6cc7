package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jeanpaul/feedbackloop/internal/types"
)

// Ensure Mongo implements Store
var _ Store = (*Mongo)(nil)

const defaultOpTimeout = 10 * time.Second

// developerDoc is the stored shape of a developer. Field names are part of
// the persisted layout and must not change.
type developerDoc struct {
	DevID   string `bson:"devId"`
	Name    string `bson:"name"`
	Project string `bson:"project"`
}

type feedbackDoc struct {
	FeedbackID   string    `bson:"feedbackId"`
	DevID        string    `bson:"devId"`
	FeedbackText string    `bson:"feedbackText"`
	Timestamp    time.Time `bson:"timestamp"`
}

func toDeveloperDoc(d types.Developer) developerDoc {
	return developerDoc{DevID: d.ID, Name: d.Name, Project: d.Project}
}

func (d developerDoc) toDeveloper() types.Developer {
	return types.Developer{ID: d.DevID, Name: d.Name, Project: d.Project}
}

func toFeedbackDoc(f types.Feedback) feedbackDoc {
	return feedbackDoc{
		FeedbackID:   f.ID,
		DevID:        f.DevID,
		FeedbackText: f.Text,
		Timestamp:    f.Timestamp,
	}
}

func (d feedbackDoc) toFeedback() types.Feedback {
	return types.Feedback{
		ID:        d.FeedbackID,
		DevID:     d.DevID,
		Text:      d.FeedbackText,
		Timestamp: d.Timestamp,
	}
}

// Mongo stores both collections in one MongoDB database.
type Mongo struct {
	client     *mongo.Client
	developers *mongo.Collection
	feedback   *mongo.Collection
	opTimeout  time.Duration
}

// ConnectMongo dials the server in opts.URI and verifies it with a ping,
// retrying transient failures.
func ConnectMongo(ctx context.Context, opts Options) (*Mongo, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo: uri is required")
	}
	if opts.Database == "" {
		return nil, fmt.Errorf("mongo: database is required")
	}

	var client *mongo.Client
	err := withRetry(ctx, opts.ConnectRetries, func(ctx context.Context) error {
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, opTimeoutOr(opts.OpTimeout))
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mongo: connect %s: %w", redactURI(opts.URI), err)
	}

	log.Debug().Str("database", opts.Database).Msg("connected to mongo")
	return newMongo(client, opts.Database, opts.OpTimeout), nil
}

// redactURI masks the password in a connection string's userinfo.
func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	hosts := rest
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		hosts = rest[:i]
	}
	at := strings.LastIndex(hosts, "@")
	if at < 0 {
		return uri
	}
	user, _, hasPassword := strings.Cut(hosts[:at], ":")
	if !hasPassword {
		return uri
	}
	return scheme + "://" + user + ":xxxxx@" + rest[at+1:]
}

func newMongo(client *mongo.Client, database string, opTimeout time.Duration) *Mongo {
	db := client.Database(database)
	return &Mongo{
		client:     client,
		developers: db.Collection(DevelopersCollection),
		feedback:   db.Collection(FeedbackCollection),
		opTimeout:  opTimeoutOr(opTimeout),
	}
}

func opTimeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultOpTimeout
	}
	return d
}

func (m *Mongo) InsertDeveloper(ctx context.Context, d types.Developer) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()
	if _, err := m.developers.InsertOne(ctx, toDeveloperDoc(d)); err != nil {
		return fmt.Errorf("insert developer %q: %w", d.ID, err)
	}
	return nil
}

func (m *Mongo) Developers(ctx context.Context) ([]types.Developer, error) {
	var docs []developerDoc
	if err := m.findAll(ctx, m.developers, &docs); err != nil {
		return nil, err
	}
	out := make([]types.Developer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDeveloper())
	}
	return out, nil
}

func (m *Mongo) InsertFeedback(ctx context.Context, f types.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()
	if _, err := m.feedback.InsertOne(ctx, toFeedbackDoc(f)); err != nil {
		return fmt.Errorf("insert feedback %q: %w", f.ID, err)
	}
	return nil
}

func (m *Mongo) Feedback(ctx context.Context) ([]types.Feedback, error) {
	var docs []feedbackDoc
	if err := m.findAll(ctx, m.feedback, &docs); err != nil {
		return nil, err
	}
	out := make([]types.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toFeedback())
	}
	return out, nil
}

// findAll runs an unfiltered find; the server returns natural order.
func (m *Mongo) findAll(ctx context.Context, coll *mongo.Collection, results any) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opTimeout)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Driver() string { return "mongo" }
