package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnRunner executes a unit of work inside a single atomic transaction:
// either every write in fn applies, or none do. The context passed to fn
// must be used for every store operation inside the unit of work.
//
// Write conflicts between concurrent transactions abort one of them; the
// error is returned to the caller, which must treat an abort as a
// possible outcome of a successful-looking validation.
type TxnRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTxnRunner runs units of work inside a MongoDB session transaction.
type MongoTxnRunner struct {
	Client *mongo.Client
}

func NewMongoTxnRunner(client *mongo.Client) *MongoTxnRunner {
	return &MongoTxnRunner{Client: client}
}

// RunTransaction starts a session, begins exactly one transaction,
// commits on success, aborts on any error, and always ends the session.
func (r *MongoTxnRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
