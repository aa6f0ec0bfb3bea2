package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabrico/orders-api/internal/core/ports"
)

// AnalyticsRepository answers the admin summary with aggregation pipelines
// over the orders collection.
type AnalyticsRepository struct {
	col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{col: db.Collection(collectionOrders)}
}

func (r *AnalyticsRepository) Summarize(ctx context.Context, from, to time.Time) (*ports.AnalyticsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"created_at": bson.M{"$gte": from, "$lte": to}}

	summary := &ports.AnalyticsSummary{
		OrdersByStatus: make(map[string]int64),
	}

	// Totals and revenue. Cancelled orders do not count toward revenue.
	totalsPipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"orders": bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$status", "cancelled"}},
					0,
					"$total_amount",
				},
			}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, totalsPipeline)
	if err != nil {
		return nil, err
	}
	var totals []struct {
		Orders  int64   `bson:"orders"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) > 0 {
		summary.TotalOrders = totals[0].Orders
		summary.TotalRevenue = totals[0].Revenue
	}

	// Counts by status.
	statusPipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err = r.col.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	var byStatus []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &byStatus); err != nil {
		return nil, err
	}
	for _, s := range byStatus {
		summary.OrdersByStatus[s.Status] = s.Count
	}

	// Orders per day.
	dailyPipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err = r.col.Aggregate(ctx, dailyPipeline)
	if err != nil {
		return nil, err
	}
	var daily []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &daily); err != nil {
		return nil, err
	}
	for _, d := range daily {
		summary.OrdersPerDay = append(summary.OrdersPerDay, ports.DailyCount{Date: d.Date, Count: d.Count})
	}

	return summary, nil
}
