package analyticsqueries

import (
	"context"

	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRequestsPerUser computes requests-per-user in one aggregation,
// joining the users collection with $lookup. $unwind drops requesters
// that have no user document.
func MongoRequestsPerUser(db *mongo.Database) PerUserFunc {
	return func(ctx context.Context) ([]UserRequestCount, error) {
		pipeline := []bson.M{
			{"$group": bson.M{"_id": "$requester", "count": bson.M{"$sum": 1}}},
			{"$lookup": bson.M{
				"from":         userstore.CollectionName,
				"localField":   "_id",
				"foreignField": "_id",
				"as":           "user",
			}},
			{"$unwind": "$user"},
			{"$project": bson.M{
				"_id":            1,
				"count":          1,
				"userInfo.name":  "$user.name",
				"userInfo.email": "$user.email",
			}},
			{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		}

		cur, err := db.Collection(requeststore.CollectionName).Aggregate(ctx, pipeline)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)

		out := []UserRequestCount{}
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
