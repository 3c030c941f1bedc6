package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const collectionLeads = "leads"

type LeadRepository struct {
	col *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{col: db.Collection(collectionLeads)}
}

// Create inserts a new lead document.
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, lead)
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var lead domain.Lead
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// UpdateStatus writes the new status and bumps the interaction score in a
// single update.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status},
		"$inc": bson.M{"interaction_score": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) IncrementViewCount(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func leadListFilter(f ports.LeadFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Location != "" {
		filter["location"] = iexact(f.Location)
	}
	created := bson.M{}
	if !f.DateFrom.IsZero() {
		created["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		created["$lte"] = f.DateTo
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

// List returns a page of leads matching filter plus the unpaginated total.
func (r *LeadRepository) List(ctx context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := leadListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if sortBy == "id" {
		sortBy = "_id"
	}
	order := 1
	if f.SortDesc {
		order = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: order}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	leads := []*domain.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// Search matches query as a case-insensitive substring of any text field,
// narrowed by exact-match filters.
func (r *LeadRepository) Search(ctx context.Context, query string, filters map[string]string) ([]*domain.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	contains := icontains(query)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": contains},
		bson.M{"email": contains},
		bson.M{"phone": contains},
		bson.M{"location": contains},
	}}
	for field, value := range filters {
		if field == "status" {
			filter[field] = value
			continue
		}
		filter[field] = iexact(value)
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	leads := []*domain.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepository) StatusCounts(ctx context.Context, userID string) (map[domain.LeadStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status domain.LeadStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[domain.LeadStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// LocationBreakdown groups leads by location with per-status sub-counts,
// largest location first.
func (r *LeadRepository) LocationBreakdown(ctx context.Context, userID string) ([]ports.LocationBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}

	statusSum := func(status domain.LeadStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
		}}}
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$location",
			"total":       bson.M{"$sum": 1},
			"new":         statusSum(domain.LeadStatusNew),
			"in_progress": statusSum(domain.LeadStatusInProgress),
			"approved":    statusSum(domain.LeadStatusApproved),
			"rejected":    statusSum(domain.LeadStatusRejected),
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Location   string `bson:"_id"`
		Total      int64  `bson:"total"`
		New        int64  `bson:"new"`
		InProgress int64  `bson:"in_progress"`
		Approved   int64  `bson:"approved"`
		Rejected   int64  `bson:"rejected"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	buckets := make([]ports.LocationBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, ports.LocationBucket{
			Location:   row.Location,
			Total:      row.Total,
			New:        row.New,
			InProgress: row.InProgress,
			Approved:   row.Approved,
			Rejected:   row.Rejected,
		})
	}
	return buckets, nil
}

// MonthlyTrend counts leads per month-of-creation and status.
func (r *LeadRepository) MonthlyTrend(ctx context.Context, userID string) ([]ports.MonthlyCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"month":  bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$created_at"}},
				"status": "$status",
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.month", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Key struct {
			Month  string            `bson:"month"`
			Status domain.LeadStatus `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	trend := make([]ports.MonthlyCount, 0, len(rows))
	for _, row := range rows {
		trend = append(trend, ports.MonthlyCount{
			Month:  row.Key.Month,
			Status: row.Key.Status,
			Count:  row.Count,
		})
	}
	return trend, nil
}

// CountCreatedBetween counts leads with from <= created_at < to. Zero
// bounds are left open.
func (r *LeadRepository) CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	created := bson.M{}
	if !from.IsZero() {
		created["$gte"] = from
	}
	if !to.IsZero() {
		created["$lt"] = to
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	return r.col.CountDocuments(ctx, filter)
}

func (r *LeadRepository) DistinctLocations(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	values, err := r.col.Distinct(ctx, "location", filter)
	if err != nil {
		return nil, err
	}

	locations := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			locations = append(locations, s)
		}
	}
	return locations, nil
}

// EnsureIndexes creates the indexes the list and search paths rely on.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "location", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// iexact matches the whole value case-insensitively.
func iexact(value string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(value) + "$", "$options": "i"}
}

// icontains matches the value as a case-insensitive substring.
func icontains(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}
