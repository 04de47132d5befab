package mongodb

import (
	"regexp"

	"taskboard/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listSort keeps pagination stable across requests.
var listSort = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func timeRange(r *repository.TimeRange) bson.M {
	return bson.M{"$gte": r.From, "$lt": r.To}
}

func taskFilter(f repository.TaskFilter) bson.M {
	filter := bson.M{"is_deleted": false}
	if f.Name != "" {
		filter["name"] = containsRegex(f.Name)
	}
	if f.Status != "" {
		filter["status"] = containsRegex(f.Status)
	}
	if f.CreatedAt != nil {
		filter["createdAt"] = timeRange(f.CreatedAt)
	}
	if f.UpdatedAt != nil {
		filter["updatedAt"] = timeRange(f.UpdatedAt)
	}
	return filter
}

func userFilter(f repository.UserFilter) bson.M {
	filter := bson.M{"is_deleted": false}
	if f.Name != "" {
		filter["name"] = containsRegex(f.Name)
	}
	if f.Role != "" {
		filter["role"] = containsRegex(f.Role)
	}
	return filter
}

func idFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}

func idsFilter(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}
