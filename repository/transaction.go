package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a unit of work. When Atomic reports false the work is applied step by
// step and callers are responsible for compensating partial failures.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

type mongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor runs units of work in a multi-document transaction. It needs a
// replica set or sharded cluster.
func NewMongoTransactor(client *mongo.Client) Transactor {
	return &mongoTransactor{client: client}
}

func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (t *mongoTransactor) Atomic() bool { return true }

type sequentialTransactor struct{}

// NewSequentialTransactor runs the unit of work without a transaction, for standalone
// servers.
func NewSequentialTransactor() Transactor {
	return sequentialTransactor{}
}

func (sequentialTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (sequentialTransactor) Atomic() bool { return false }
