package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"rest-user-service/internal/domain/user"
	apperrors "rest-user-service/pkg/errors"
)

// CollectionName is the name of the MongoDB collection holding users.
const CollectionName = "users"

// UserRepoMongo implements the Repository interface using MongoDB.
type UserRepoMongo struct {
	coll *mongo.Collection
	log  *zap.Logger
}

// NewUserRepoMongo creates a new instance of UserRepoMongo.
func NewUserRepoMongo(db *mongo.Database, log *zap.Logger) *UserRepoMongo {
	return &UserRepoMongo{coll: db.Collection(CollectionName), log: log}
}

// userDoc represents the document stored in the users collection.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Age       int                `bson:"age"`
	Phone     string             `bson:"phone,omitempty"`
	Address   string             `bson:"address,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *user.User {
	return &user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Age:       d.Age,
		Phone:     d.Phone,
		Address:   d.Address,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// EnsureIndexes creates the unique index on email. Storage-level uniqueness
// is the backstop for the check-then-write race on concurrent creates.
func (r *UserRepoMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// objectID parses a 24-character hex string into an ObjectID. Handlers
// validate the format up front, so a parse failure here means a miss.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewNotFoundError("user", "User not found")
	}
	return oid, nil
}

// nameFilter builds the list filter: match-all, or case-insensitive
// substring match on name. The pattern is quoted so filter input cannot
// smuggle regex syntax into the query.
func nameFilter(name string) bson.M {
	if name == "" {
		return bson.M{}
	}
	return bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}}
}

// List retrieves a page of users matching the optional name filter, plus the
// total count matching the filter ignoring pagination.
func (r *UserRepoMongo) List(ctx context.Context, name string, page user.Page) ([]user.User, int64, error) {
	filter := nameFilter(name)

	cur, err := r.coll.Find(ctx, filter, options.Find().
		SetSkip(page.Skip()).
		SetLimit(page.PerPage))
	if err != nil {
		r.log.Error("failed to list users", zap.String("name", name), zap.Int64("page", page.Number), zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		r.log.Error("failed to decode users", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		r.log.Error("failed to count users", zap.String("name", name), zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := make([]user.User, len(docs))
	for i := range docs {
		users[i] = *docs[i].toDomain()
	}

	return users, total, nil
}

// GetByID retrieves a user by their unique ID.
func (r *UserRepoMongo) GetByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return doc.toDomain(), nil
}

// ExistsByEmail reports whether a user with the given email exists,
// optionally excluding the record with excludeID (used on update so a user
// keeps their own email without conflict).
func (r *UserRepoMongo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	filter := bson.M{"email": email}
	if excludeID != "" {
		oid, err := objectID(excludeID)
		if err != nil {
			return false, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		r.log.Error("failed to check email existence", zap.String("email", email), zap.Error(err))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return count > 0, nil
}

// Insert stores a new user, assigning its identifier and timestamps.
func (r *UserRepoMongo) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	now := time.Now().UTC()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.log.Warn("duplicate email on insert", zap.String("email", u.Email))
			return nil, apperrors.NewAlreadyExistsError("user", "User already exists")
		}
		r.log.Error("failed to insert user", zap.String("email", u.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	r.log.Info("user inserted", zap.String("id", doc.ID.Hex()))
	return doc.toDomain(), nil
}

// UpdateByID applies the provided fields to an existing user and refreshes
// updatedAt, returning the updated record.
func (r *UserRepoMongo) UpdateByID(ctx context.Context, id string, p user.Patch) (*user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found on update", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			r.log.Warn("duplicate email on update", zap.String("id", id))
			return nil, apperrors.NewAlreadyExistsError("email", "Email already exists")
		}
		r.log.Error("failed to update user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.String("id", id))
	return doc.toDomain(), nil
}

// DeleteByID removes a user by ID, returning the deleted record.
func (r *UserRepoMongo) DeleteByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.Warn("user not found on delete", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return doc.toDomain(), nil
}
