package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
)

type userDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Photo                string             `bson:"photo"`
	Role                 string             `bson:"role"`
	Password             string             `bson:"password"`
	PasswordChangedAt    *time.Time         `bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string             `bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time         `bson:"passwordResetExpires,omitempty"`
	Active               bool               `bson:"active"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func fromEntity(u *entity.User) userDoc {
	return userDoc{
		Name:                 u.Name,
		Email:                entity.NormalizeEmail(u.Email),
		Photo:                u.Photo,
		Role:                 string(u.Role),
		Password:             u.PasswordHash,
		PasswordChangedAt:    u.PasswordChangedAt,
		PasswordResetToken:   u.PasswordResetTokenHash,
		PasswordResetExpires: u.PasswordResetExpiresAt,
		Active:               u.Active,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func (d userDoc) toEntity() *entity.User {
	u := &entity.User{
		Name:                   d.Name,
		Email:                  d.Email,
		Photo:                  d.Photo,
		Role:                   entity.Role(d.Role),
		PasswordHash:           d.Password,
		PasswordChangedAt:      d.PasswordChangedAt,
		PasswordResetTokenHash: d.PasswordResetToken,
		PasswordResetExpiresAt: d.PasswordResetExpires,
		Active:                 d.Active,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
	if !d.ID.IsZero() {
		u.ID = d.ID.Hex()
	}
	if u.PasswordResetTokenHash == "" || u.PasswordResetExpiresAt == nil {
		u.ClearResetToken()
	}
	return u
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &apperror.CastError{Path: "_id", Value: id, Err: err}
	}
	return oid, nil
}

// activeFilter adds the default predicate. Documents written before the
// active field existed count as active.
func activeFilter(filter bson.M, o repository.FindOptions) bson.M {
	if !o.IncludeInactive {
		filter["active"] = bson.M{"$ne": false}
	}
	return filter
}

type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository binds the users collection and ensures its indexes.
func NewUserRepository(ctx context.Context, db *mongo.Database, collection string) (*UserRepository, error) {
	col := db.Collection(collection)
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return nil, err
	}
	return &UserRepository{col: col}, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = entity.NormalizeEmail(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	res, err := r.col.InsertOne(ctx, fromEntity(u))
	if err != nil {
		return translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string, opts ...repository.FindOption) (*entity.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, activeFilter(bson.M{"_id": oid}, repository.ApplyFindOptions(opts)))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, opts ...repository.FindOption) (*entity.User, error) {
	filter := bson.M{"email": entity.NormalizeEmail(email)}
	return r.findOne(ctx, activeFilter(filter, repository.ApplyFindOptions(opts)))
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	filter := activeFilter(bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	}, repository.FindOptions{})
	update := bson.M{
		"$unset": resetFields(),
		"$set":   bson.M{"updatedAt": now.UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	oid, err := objectID(u.ID)
	if err != nil {
		return err
	}
	u.Email = entity.NormalizeEmail(u.Email)
	u.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"name":      u.Name,
		"email":     u.Email,
		"photo":     u.Photo,
		"role":      string(u.Role),
		"password":  u.PasswordHash,
		"active":    u.Active,
		"updatedAt": u.UpdatedAt,
	}
	unset := bson.M{}
	if u.PasswordChangedAt != nil {
		set["passwordChangedAt"] = *u.PasswordChangedAt
	} else {
		unset["passwordChangedAt"] = ""
	}
	if u.HasPendingReset() {
		set["passwordResetToken"] = u.PasswordResetTokenHash
		set["passwordResetExpires"] = *u.PasswordResetExpiresAt
	} else {
		unset["passwordResetToken"] = ""
		unset["passwordResetExpires"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	return r.updateOne(ctx, bson.M{"_id": oid}, update)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, activeFilter(bson.M{"_id": oid}, repository.FindOptions{}), bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expiresAt.UTC(),
			"updatedAt":            time.Now().UTC(),
		},
	})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id, tokenHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid, "passwordResetToken": tokenHash}, bson.M{
		"$unset": resetFields(),
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	return translate(err)
}

func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, changedAt, now time.Time) (*entity.User, error) {
	filter := activeFilter(bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	}, repository.FindOptions{})
	update := bson.M{
		"$unset": resetFields(),
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": changedAt.UTC(),
			"updatedAt":         now.UTC(),
		},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, activeFilter(bson.M{"_id": oid}, repository.FindOptions{}), bson.M{
		"$unset": resetFields(),
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": changedAt.UTC(),
			"updatedAt":         time.Now().UTC(),
		},
	})
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"active": active, "updatedAt": time.Now().UTC()},
	})
}

func resetFields() bson.M {
	return bson.M{"passwordResetToken": "", "passwordResetExpires": ""}
}

func (r *UserRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*entity.User, error) {
	var d userDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, translate(err)
	}
	return d.toEntity(), nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, translate(err)
	}
	return d.toEntity(), nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
