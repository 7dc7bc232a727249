// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/jobboard/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the collections (if missing) and attaches JSON-Schema
// validators. Deployments that don't support collMod/validators are logged
// and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("jobs", jobsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	return db.RunCommand(ctx, cmd).Decode(&out)
}

/* ------------------------- error helpers ------------------------- */

func hasCode(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return hasCode(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return hasCode(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return hasCode(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "login_id", "login_id_ci", "password_hash"},
			"properties": bson.M{
				"full_name":     nonBlank,
				"full_name_ci":  bson.M{"bsonType": "string"},
				"login_id":      nonBlank,
				"login_id_ci":   nonBlank,
				"password_hash": nonBlank,
			},
		},
	}
}

func jobsSchema() bson.M {
	bidStatuses := bson.A{string(models.BidAwaiting), string(models.BidAccepted), string(models.BidRejected)}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"owner_id", "title", "award_status", "created_at"},
			"properties": bson.M{
				"owner_id":       bson.M{"bsonType": "objectId"},
				"title":          nonBlank,
				"title_ci":       bson.M{"bsonType": "string"},
				"skills":         bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string", "minLength": 1}},
				"end":            bson.M{"bsonType": bson.A{"date", "null"}},
				"award_status":   bson.M{"enum": bson.A{string(models.JobOpen), string(models.JobAwarded)}},
				"awarded_bid_id": bson.M{"bsonType": bson.A{"objectId", "null"}},
				"created_at":     bson.M{"bsonType": "date"},
				"bids": bson.M{
					"bsonType": bson.A{"array", "null"},
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "bidder_id", "award_status"},
						"properties": bson.M{
							"_id":          bson.M{"bsonType": "objectId"},
							"bidder_id":    bson.M{"bsonType": "objectId"},
							"award_status": bson.M{"enum": bidStatuses},
						},
					},
				},
			},
		},
	}
}
