package router

import (
	"context"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// goroutineThreshold fails liveness when the process leaks goroutines.
const goroutineThreshold = 1000

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// NewHealth returns the liveness and readiness checks served on /live and
// /ready. Readiness pings the database when mongo is non-nil.
func NewHealth(mongo Pinger, timeout time.Duration) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(goroutineThreshold))
	if mongo != nil {
		health.AddReadinessCheck("mongodb", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return mongo.Ping(ctx, readpref.Primary())
		})
	}
	return health
}
