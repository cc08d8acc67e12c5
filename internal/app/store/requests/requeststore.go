// internal/app/store/requests/requeststore.go
package requeststore

// Terminology: User Identifiers
//   - requester: the user who created the request (immutable)
//   - volunteers: users who accepted the request; never contains the requester

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding requests.
const CollectionName = "requests"

var (
	ErrNotFound           = errors.New("request not found")
	ErrMissingField       = errors.New("required field is empty")
	ErrDuplicateVolunteer = errors.New("user is already a volunteer on this request")
	ErrRequesterVolunteer = errors.New("requester cannot volunteer on their own request")
	ErrWriteConflict      = errors.New("request changed during update")
)

// Fields holds the user-editable fields of a request. Nil means "leave as is".
type Fields struct {
	Title       *string
	Description *string
	Location    *string
}

// Empty reports whether no field is present.
func (f Fields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Location == nil
}

// Criteria selects, orders, and windows requests for Find.
type Criteria struct {
	Location  string              // case-insensitive substring; empty matches all
	Active    *bool               // nil matches both
	Requester *primitive.ObjectID // nil matches all
	SortAsc   bool                // created_at ascending; default newest first
	Skip      int64
	Limit     int64
}

// LocationCount is one row of the per-location aggregate.
type LocationCount struct {
	Location string `bson:"_id" json:"_id"`
	Count    int64  `bson:"count" json:"count"`
}

// RequesterCount is one row of the per-requester aggregate.
type RequesterCount struct {
	Requester primitive.ObjectID `bson:"_id"`
	Count     int64              `bson:"count"`
}

// Store is the Mongo-backed request store.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// validateNew checks the required fields of a new request.
func validateNew(title, description, location string) error {
	fields := []struct{ name, value string }{
		{"title", title},
		{"description", description},
		{"location", location},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// newRequest builds a request in its initial state.
func newRequest(requesterID primitive.ObjectID, title, description, location string) models.Request {
	t := now()
	return models.Request{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		Requester:   requesterID,
		Status:      models.StatusPending,
		IsActive:    true,
		Volunteers:  []primitive.ObjectID{},
		CreatedAt:   t,
		UpdatedAt:   t,
	}
}

func (s *Store) Create(ctx context.Context, requesterID primitive.ObjectID, title, description, location string) (models.Request, error) {
	if err := validateNew(title, description, location); err != nil {
		return models.Request{}, err
	}
	req := newRequest(requesterID, title, description, location)
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.Request{}, err
	}
	return req, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	var r models.Request
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Request{}, ErrNotFound
		}
		return models.Request{}, err
	}
	return r, nil
}

// Update sets the present fields. Requester, status, activation and
// volunteers are not reachable through this path.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f Fields) (models.Request, error) {
	if f.Empty() {
		return s.Get(ctx, id)
	}
	set := bson.M{"updated_at": now()}
	if f.Title != nil {
		set["title"] = strings.TrimSpace(*f.Title)
	}
	if f.Description != nil {
		set["description"] = strings.TrimSpace(*f.Description)
	}
	if f.Location != nil {
		set["location"] = strings.TrimSpace(*f.Location)
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// Delete removes a request. Chat messages that reference it are left alone.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (models.Request, error) {
	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": now(),
	}})
}

// ToggleActive flips is_active in a single update-pipeline write, so two
// concurrent toggles always cancel out.
func (s *Store) ToggleActive(ctx context.Context, id primitive.ObjectID) (models.Request, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: bson.D{{Key: "$not", Value: bson.A{"$is_active"}}}},
			{Key: "updated_at", Value: now()},
		}}},
	}
	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, pipeline)
}

// AddVolunteer appends userID with a conditional update that only matches
// when the user is neither a volunteer nor the requester. A duplicate is
// reported, never silently ignored.
func (s *Store) AddVolunteer(ctx context.Context, id, userID primitive.ObjectID) (models.Request, error) {
	filter := bson.M{
		"_id":        id,
		"requester":  bson.M{"$ne": userID},
		"volunteers": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{"volunteers": userID},
		"$set":  bson.M{"updated_at": now()},
	}
	r, err := s.findOneAndUpdate(ctx, filter, update)
	if !errors.Is(err, ErrNotFound) {
		return r, err
	}

	// The conditional update matched nothing; find out why.
	cur, err := s.Get(ctx, id)
	if err != nil {
		return models.Request{}, err
	}
	return models.Request{}, whyNotAdded(cur, userID)
}

func whyNotAdded(r models.Request, userID primitive.ObjectID) error {
	switch {
	case r.Requester == userID:
		return ErrRequesterVolunteer
	case r.HasVolunteer(userID):
		return ErrDuplicateVolunteer
	default:
		return ErrWriteConflict
	}
}

// RemoveVolunteer pulls userID from the volunteer set. Removing a
// non-member is not an error and writes nothing.
func (s *Store) RemoveVolunteer(ctx context.Context, id, userID primitive.ObjectID) (models.Request, error) {
	r, err := s.findOneAndUpdate(ctx,
		bson.M{"_id": id, "volunteers": userID},
		bson.M{
			"$pull": bson.M{"volunteers": userID},
			"$set":  bson.M{"updated_at": now()},
		})
	if errors.Is(err, ErrNotFound) {
		return s.Get(ctx, id)
	}
	return r, err
}

func (s *Store) findOneAndUpdate(ctx context.Context, filter, update any) (models.Request, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var r models.Request
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Request{}, ErrNotFound
		}
		return models.Request{}, err
	}
	return r, nil
}

// buildFilter translates Criteria into a Mongo filter.
func buildFilter(c Criteria) bson.M {
	filter := bson.M{}
	if loc := strings.TrimSpace(c.Location); loc != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(loc), Options: "i"}
	}
	if c.Active != nil {
		filter["is_active"] = *c.Active
	}
	if c.Requester != nil {
		filter["requester"] = *c.Requester
	}
	return filter
}

// Find returns one window of matching requests and the total match count,
// computed in a single $facet round trip so both views agree.
// Order: created_at (asc or desc), then _id ascending.
func (s *Store) Find(ctx context.Context, c Criteria) ([]models.Request, int64, error) {
	dir := -1
	if c.SortAsc {
		dir = 1
	}
	data := []bson.M{
		{"$sort": bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: 1}}},
	}
	if c.Skip > 0 {
		data = append(data, bson.M{"$skip": c.Skip})
	}
	if c.Limit > 0 {
		data = append(data, bson.M{"$limit": c.Limit})
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: buildFilter(c)}},
		bson.D{{Key: "$facet", Value: bson.M{
			"totalCount": []bson.M{{"$count": "count"}},
			"data":       data,
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var agg struct {
		TotalCount []struct {
			Count int64 `bson:"count"`
		} `bson:"totalCount"`
		Data []models.Request `bson:"data"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&agg); err != nil {
			return nil, 0, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if len(agg.TotalCount) > 0 {
		total = agg.TotalCount[0].Count
	}
	if agg.Data == nil {
		agg.Data = []models.Request{}
	}
	return agg.Data, total, nil
}

// CountByActive returns the number of active and inactive requests.
func (s *Store) CountByActive(ctx context.Context) (active, inactive int64, err error) {
	active, err = s.c.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, 0, err
	}
	inactive, err = s.c.CountDocuments(ctx, bson.M{"is_active": false})
	if err != nil {
		return 0, 0, err
	}
	return active, inactive, nil
}

// CountByLocation groups requests by location, largest first.
func (s *Store) CountByLocation(ctx context.Context) ([]LocationCount, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$location", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []LocationCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByRequester groups requests by requester, largest first.
func (s *Store) CountByRequester(ctx context.Context) ([]RequesterCount, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$requester", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []RequesterCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
