package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. They apply the
// same filters the real Mongo repositories would use.
// ---------------------------------------------------------------------------

type stubLeadRepo struct {
	byID      map[string]*domain.Lead
	createErr error
	updateErr error
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{byID: make(map[string]*domain.Lead)}
}

func (r *stubLeadRepo) add(lead *domain.Lead) {
	clone := *lead
	r.byID[lead.ID] = &clone
}

func (r *stubLeadRepo) Create(_ context.Context, lead *domain.Lead) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(lead)
	return nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id string) (*domain.Lead, error) {
	lead, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	clone := *lead
	return &clone, nil
}

func (r *stubLeadRepo) UpdateStatus(_ context.Context, id string, status domain.LeadStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	lead, ok := r.byID[id]
	if !ok {
		return domain.ErrLeadNotFound
	}
	lead.Status = status
	lead.InteractionScore++
	return nil
}

func (r *stubLeadRepo) IncrementViewCount(_ context.Context, id string) error {
	lead, ok := r.byID[id]
	if !ok {
		return domain.ErrLeadNotFound
	}
	lead.ViewCount++
	return nil
}

func (r *stubLeadRepo) matching(f ports.LeadFilter) []*domain.Lead {
	var matched []*domain.Lead
	for _, lead := range r.byID {
		if f.UserID != "" && lead.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(lead.Status) != f.Status {
			continue
		}
		if f.Location != "" && !strings.EqualFold(lead.Location, f.Location) {
			continue
		}
		if !f.DateFrom.IsZero() && lead.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && lead.CreatedAt.After(f.DateTo) {
			continue
		}
		clone := *lead
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case "name":
			less = matched[i].Name < matched[j].Name
		case "email":
			less = matched[i].Email < matched[j].Email
		case "location":
			less = matched[i].Location < matched[j].Location
		case "id":
			less = matched[i].ID < matched[j].ID
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if f.SortDesc {
			return !less
		}
		return less
	})
	return matched
}

func (r *stubLeadRepo) List(_ context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	matched := r.matching(f)
	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Lead{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubLeadRepo) Search(_ context.Context, query string, filters map[string]string) ([]*domain.Lead, error) {
	q := strings.ToLower(query)
	var matched []*domain.Lead
	for _, lead := range r.byID {
		hit := strings.Contains(strings.ToLower(lead.Name), q) ||
			strings.Contains(strings.ToLower(lead.Email), q) ||
			strings.Contains(strings.ToLower(lead.Phone), q) ||
			strings.Contains(strings.ToLower(lead.Location), q)
		if !hit {
			continue
		}
		if !leadMatchesFilters(lead, filters) {
			continue
		}
		clone := *lead
		matched = append(matched, &clone)
	}
	return matched, nil
}

func leadMatchesFilters(lead *domain.Lead, filters map[string]string) bool {
	for field, value := range filters {
		var actual string
		switch field {
		case "name":
			actual = lead.Name
		case "email":
			actual = lead.Email
		case "phone":
			actual = lead.Phone
		case "location":
			actual = lead.Location
		case "status":
			actual = string(lead.Status)
		}
		if !strings.EqualFold(actual, value) {
			return false
		}
	}
	return true
}

func (r *stubLeadRepo) StatusCounts(_ context.Context, userID string) (map[domain.LeadStatus]int64, error) {
	counts := make(map[domain.LeadStatus]int64)
	for _, lead := range r.byID {
		if userID != "" && lead.UserID != userID {
			continue
		}
		counts[lead.Status]++
	}
	return counts, nil
}

func (r *stubLeadRepo) LocationBreakdown(_ context.Context, userID string) ([]ports.LocationBucket, error) {
	byLocation := make(map[string]*ports.LocationBucket)
	for _, lead := range r.byID {
		if userID != "" && lead.UserID != userID {
			continue
		}
		bucket, ok := byLocation[lead.Location]
		if !ok {
			bucket = &ports.LocationBucket{Location: lead.Location}
			byLocation[lead.Location] = bucket
		}
		bucket.Total++
		switch lead.Status {
		case domain.LeadStatusNew:
			bucket.New++
		case domain.LeadStatusInProgress:
			bucket.InProgress++
		case domain.LeadStatusApproved:
			bucket.Approved++
		case domain.LeadStatusRejected:
			bucket.Rejected++
		}
	}
	buckets := make([]ports.LocationBucket, 0, len(byLocation))
	for _, bucket := range byLocation {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Total > buckets[j].Total })
	return buckets, nil
}

func (r *stubLeadRepo) MonthlyTrend(_ context.Context, userID string) ([]ports.MonthlyCount, error) {
	type key struct {
		month  string
		status domain.LeadStatus
	}
	counts := make(map[key]int64)
	for _, lead := range r.byID {
		if userID != "" && lead.UserID != userID {
			continue
		}
		counts[key{lead.CreatedAt.Format("2006-01"), lead.Status}]++
	}
	rows := make([]ports.MonthlyCount, 0, len(counts))
	for k, count := range counts {
		rows = append(rows, ports.MonthlyCount{Month: k.month, Status: k.status, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows, nil
}

func (r *stubLeadRepo) CountCreatedBetween(_ context.Context, userID string, from, to time.Time) (int64, error) {
	var count int64
	for _, lead := range r.byID {
		if userID != "" && lead.UserID != userID {
			continue
		}
		if !from.IsZero() && lead.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !lead.CreatedAt.Before(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *stubLeadRepo) DistinctLocations(_ context.Context, userID string) ([]string, error) {
	seen := make(map[string]bool)
	var locations []string
	for _, lead := range r.byID {
		if userID != "" && lead.UserID != userID {
			continue
		}
		if !seen[lead.Location] {
			seen[lead.Location] = true
			locations = append(locations, lead.Location)
		}
	}
	sort.Strings(locations)
	return locations, nil
}

// ---------------------------------------------------------------------------

type stubBiometricRepo struct {
	byID      map[string]*domain.Biometric
	createErr error
	updateErr error
}

func newStubBiometricRepo() *stubBiometricRepo {
	return &stubBiometricRepo{byID: make(map[string]*domain.Biometric)}
}

func (r *stubBiometricRepo) add(b *domain.Biometric) {
	clone := *b
	r.byID[b.ID] = &clone
}

func (r *stubBiometricRepo) Create(_ context.Context, b *domain.Biometric) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(b)
	return nil
}

func (r *stubBiometricRepo) FindByID(_ context.Context, id, userID string) (*domain.Biometric, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBiometricNotFound
	}
	if userID != "" && b.UserID != userID {
		return nil, domain.ErrBiometricNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBiometricRepo) FindByLeadID(_ context.Context, leadID string) (*domain.Biometric, error) {
	for _, b := range r.byID {
		if b.LeadID == leadID {
			clone := *b
			return &clone, nil
		}
	}
	return nil, domain.ErrBiometricNotFound
}

func (r *stubBiometricRepo) Update(_ context.Context, b *domain.Biometric) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[b.ID]; !ok {
		return domain.ErrBiometricNotFound
	}
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBiometricRepo) List(_ context.Context, f ports.BiometricFilter) ([]*domain.Biometric, int64, error) {
	var matched []*domain.Biometric
	for _, b := range r.byID {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.Status != "" && string(b.Status) != f.Status {
			continue
		}
		if f.Location != "" && !strings.EqualFold(b.Location, f.Location) {
			continue
		}
		if !f.DateFrom.IsZero() && b.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && b.CreatedAt.After(f.DateTo) {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if f.SortDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (r *stubBiometricRepo) Search(_ context.Context, query string, filters map[string]string) ([]*domain.Biometric, error) {
	q := strings.ToLower(query)
	var matched []*domain.Biometric
	for _, b := range r.byID {
		hit := strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Location), q)
		if !hit {
			continue
		}
		ok := true
		for field, value := range filters {
			var actual string
			switch field {
			case "name":
				actual = b.Name
			case "location":
				actual = b.Location
			case "status":
				actual = string(b.Status)
			}
			if !strings.EqualFold(actual, value) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}
	return matched, nil
}

func (r *stubBiometricRepo) StatusCounts(_ context.Context, userID string) (map[domain.BiometricStatus]int64, error) {
	counts := make(map[domain.BiometricStatus]int64)
	for _, b := range r.byID {
		if userID != "" && b.UserID != userID {
			continue
		}
		counts[b.Status]++
	}
	return counts, nil
}

func (r *stubBiometricRepo) DistinctLocations(_ context.Context, userID string) ([]string, error) {
	seen := make(map[string]bool)
	var locations []string
	for _, b := range r.byID {
		if userID != "" && b.UserID != userID {
			continue
		}
		if !seen[b.Location] {
			seen[b.Location] = true
			locations = append(locations, b.Location)
		}
	}
	sort.Strings(locations)
	return locations, nil
}

// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	byID      map[string]*domain.Notification
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) add(n *domain.Notification) {
	clone := *n
	r.byID[n.ID] = &clone
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(n)
	return nil
}

func (r *stubNotificationRepo) forUser(userID string) []*domain.Notification {
	var matched []*domain.Notification
	for _, n := range r.byID {
		if n.UserID == userID {
			clone := *n
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, page, limit int) ([]*domain.Notification, int64, error) {
	matched := r.forUser(userID)
	total := int64(len(matched))
	skip := (page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Notification{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var affected int64
	for _, n := range r.byID {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.byID {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) Search(_ context.Context, userID, query string, filters map[string]string) ([]*domain.Notification, error) {
	q := strings.ToLower(query)
	var matched []*domain.Notification
	for _, n := range r.byID {
		if userID != "" && n.UserID != userID {
			continue
		}
		hit := strings.Contains(strings.ToLower(n.Message), q) ||
			strings.Contains(strings.ToLower(string(n.Type)), q)
		if !hit {
			continue
		}
		ok := true
		for field, value := range filters {
			switch field {
			case "type":
				if !strings.EqualFold(string(n.Type), value) {
					ok = false
				}
			case "is_read":
				want := strings.EqualFold(value, "true")
				if n.IsRead != want {
					ok = false
				}
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		clone := *n
		matched = append(matched, &clone)
	}
	return matched, nil
}

// ---------------------------------------------------------------------------

// stubTx runs the unit directly; transactional semantics are exercised
// against a real replica set, not in unit tests.
type stubTx struct{}

func (stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubGuard struct {
	seen    map[string]bool
	seenErr error
	markErr error
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: make(map[string]bool)}
}

func (g *stubGuard) Seen(_ context.Context, entity, id, status string) (bool, error) {
	if g.seenErr != nil {
		return false, g.seenErr
	}
	return g.seen[entity+":"+id+":"+status], nil
}

func (g *stubGuard) Mark(_ context.Context, entity, id, status string) error {
	if g.markErr != nil {
		return g.markErr
	}
	g.seen[entity+":"+id+":"+status] = true
	return nil
}
