package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

const collectionBiometrics = "biometrics"

type BiometricRepository struct {
	col *mongo.Collection
}

func NewBiometricRepository(db *mongo.Database) *BiometricRepository {
	return &BiometricRepository{col: db.Collection(collectionBiometrics)}
}

func (r *BiometricRepository) Create(ctx context.Context, b *domain.Biometric) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, b)
	return err
}

// FindByID retrieves a biometric, optionally scoped to an owner. A record
// owned by someone else decodes as not found.
func (r *BiometricRepository) FindByID(ctx context.Context, id, userID string) (*domain.Biometric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id}
	if userID != "" {
		filter["user_id"] = userID
	}

	var b domain.Biometric
	err := r.col.FindOne(ctx, filter).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBiometricNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BiometricRepository) FindByLeadID(ctx context.Context, leadID string) (*domain.Biometric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Biometric
	err := r.col.FindOne(ctx, bson.M{"lead_id": leadID}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBiometricNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update replaces the stored document with b.
func (r *BiometricRepository) Update(ctx context.Context, b *domain.Biometric) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBiometricNotFound
	}
	return nil
}

func (r *BiometricRepository) List(ctx context.Context, f ports.BiometricFilter) ([]*domain.Biometric, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

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

	biometrics := []*domain.Biometric{}
	if err := cursor.All(ctx, &biometrics); err != nil {
		return nil, 0, err
	}
	return biometrics, total, nil
}

func (r *BiometricRepository) Search(ctx context.Context, query string, filters map[string]string) ([]*domain.Biometric, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	contains := icontains(query)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": contains},
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

	biometrics := []*domain.Biometric{}
	if err := cursor.All(ctx, &biometrics); err != nil {
		return nil, err
	}
	return biometrics, nil
}

func (r *BiometricRepository) StatusCounts(ctx context.Context, userID string) (map[domain.BiometricStatus]int64, error) {
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
		Status domain.BiometricStatus `bson:"_id"`
		Count  int64                  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[domain.BiometricStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *BiometricRepository) DistinctLocations(ctx context.Context, userID string) ([]string, error) {
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

// EnsureIndexes creates the indexes the scoped lookups rely on. lead_id is
// unique but sparse: standalone biometrics have no lead.
func (r *BiometricRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sparse := true
	unique := true
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "lead_id", Value: 1}},
			Options: &options.IndexOptions{Unique: &unique, Sparse: &sparse},
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
