// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/jobboard/internal/app/system/ticker"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when no redis_url is configured.
	Redis *redis.Client

	// Prices is the process-wide price cache; Refresher keeps it warm.
	Prices    *ticker.Service
	Refresher *ticker.Refresher
}
