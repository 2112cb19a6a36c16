package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopline/shop-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type cartLineDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	ProductID primitive.ObjectID `bson:"productId"`
	Quantity  int                `bson:"quantity"`
}

type userDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Password             string             `bson:"password"`
	Role                 string             `bson:"role"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires time.Time          `bson:"resetPasswordExpires,omitempty"`
	Cart                 []cartLineDoc      `bson:"cart"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

func (d *userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		Email:                d.Email,
		PasswordHash:         d.Password,
		Role:                 d.Role,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		Cart:                 make([]domain.CartLine, len(d.Cart)),
		CreatedAt:            d.CreatedAt,
	}
	for i, l := range d.Cart {
		u.Cart[i] = domain.CartLine{ID: l.ID.Hex(), ProductID: l.ProductID.Hex(), Quantity: l.Quantity}
	}
	return u
}

// Create inserts a user with an empty cart. A duplicate email maps to
// domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      user.Role,
		Cart:      []cartLineDoc{},
		CreatedAt: user.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": expires,
	}})
}

// UpdatePassword stores a new hash and clears any pending reset.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	return r.update(ctx, userID, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
}

func (r *UserRepository) AddCartLine(ctx context.Context, userID string, line domain.CartLine) (*domain.CartLine, error) {
	productID, ok := objectID(line.ProductID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	doc := cartLineDoc{ID: primitive.NewObjectID(), ProductID: productID, Quantity: line.Quantity}

	if err := r.update(ctx, userID, bson.M{"$push": bson.M{"cart": doc}}); err != nil {
		return nil, err
	}
	return &domain.CartLine{ID: doc.ID.Hex(), ProductID: line.ProductID, Quantity: doc.Quantity}, nil
}

func (r *UserRepository) SetCartLineQuantity(ctx context.Context, userID, lineID string, quantity int) error {
	uid, ok := objectID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	lid, ok := objectID(lineID)
	if !ok {
		return domain.ErrCartItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		cartLineFilter(uid, lid),
		setCartLineQuantity(quantity),
	)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *UserRepository) RemoveCartLine(ctx context.Context, userID, lineID string) error {
	uid, ok := objectID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	lid, ok := objectID(lineID)
	if !ok {
		return domain.ErrCartItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		cartLineFilter(uid, lid),
		bson.M{"$pull": bson.M{"cart": bson.M{"_id": lid}}},
	)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *UserRepository) ClearCart(ctx context.Context, userID string) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{"cart": []cartLineDoc{}}})
}

func (r *UserRepository) update(ctx context.Context, userID string, update bson.M) error {
	uid, ok := objectID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// cartLineFilter matches the user owning lineID, binding the positional
// operator to that line.
func cartLineFilter(userID, lineID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "cart._id": lineID}
}

func setCartLineQuantity(quantity int) bson.M {
	return bson.M{"$set": bson.M{"cart.$.quantity": quantity}}
}
