package mongo

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

	"github.com/shopline/shop-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts), now: time.Now}
}

type reviewDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        primitive.ObjectID `bson:"user"`
	Rating      int                `bson:"rating"`
	Comment     string             `bson:"comment"`
	DateCreated time.Time          `bson:"dateCreated"`
}

type productDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Price         float64            `bson:"price"`
	Category      string             `bson:"category,omitempty"`
	StockQuantity int                `bson:"stockQuantity"`
	Reviews       []reviewDoc        `bson:"reviews"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *productDoc) toDomain() *domain.Product {
	p := &domain.Product{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		Price:         d.Price,
		Category:      d.Category,
		StockQuantity: d.StockQuantity,
		Reviews:       make([]domain.Review, len(d.Reviews)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for i := range d.Reviews {
		p.Reviews[i] = d.Reviews[i].toDomain()
	}
	return p
}

func (d reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:          d.ID.Hex(),
		UserID:      d.User.Hex(),
		Rating:      d.Rating,
		Comment:     d.Comment,
		DateCreated: d.DateCreated,
	}
}

// Create inserts a product. A duplicate title maps to domain.ErrTitleExists.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := productDoc{
		ID:            primitive.NewObjectID(),
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		Reviews:       []reviewDoc{},
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrTitleExists
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the non-nil fields of patch and returns the updated product.
func (r *ProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	set := bson.M{"updatedAt": r.now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.StockQuantity != nil {
		set["stockQuantity"] = *patch.StockQuantity
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrProductNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrTitleExists
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// FindByPriceRange matches min <= price <= max.
func (r *ProductRepository) FindByPriceRange(ctx context.Context, min, max float64) ([]*domain.Product, error) {
	return r.find(ctx, priceRangeFilter(min, max), options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
}

func (r *ProductRepository) FindByTitle(ctx context.Context, title string) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{"title": title}, nil)
}

// FindByCategory matches a case-insensitive substring of the category.
// The input is matched literally.
func (r *ProductRepository) FindByCategory(ctx context.Context, substring string) ([]*domain.Product, error) {
	return r.find(ctx, categoryFilter(substring), nil)
}

// Search runs a full-text query over title, description and category,
// best matches first.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	filter, opts := textSearch(query)
	return r.find(ctx, filter, opts)
}

func (r *ProductRepository) SetStock(ctx context.Context, id string, quantity int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"stockQuantity": quantity, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock removes quantity from stock only when enough is available.
// It reports false, without error, when the product is missing or short.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		decrementFilter(oid, quantity),
		stockDelta(-quantity, r.now()),
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *ProductRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		stockDelta(quantity, r.now()),
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AddReview appends review and returns the product's full review list.
func (r *ProductRepository) AddReview(ctx context.Context, productID string, review domain.Review) ([]domain.Review, error) {
	pid, ok := objectID(productID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	uid, ok := objectID(review.UserID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := reviewDoc{
		ID:          primitive.NewObjectID(),
		User:        uid,
		Rating:      review.Rating,
		Comment:     review.Comment,
		DateCreated: review.DateCreated,
	}

	var updated productDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": pid},
		bson.M{"$push": bson.M{"reviews": doc}},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"reviews": 1}),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("add review: %w", err)
	}

	reviews := make([]domain.Review, len(updated.Reviews))
	for i := range updated.Reviews {
		reviews[i] = updated.Reviews[i].toDomain()
	}
	return reviews, nil
}

// UpdateReview overwrites rating and comment of one embedded review.
func (r *ProductRepository) UpdateReview(ctx context.Context, productID, reviewID string, rating int, comment string) error {
	pid, ok := objectID(productID)
	if !ok {
		return domain.ErrProductNotFound
	}
	rid, ok := objectID(reviewID)
	if !ok {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": pid, "reviews._id": rid},
		bson.M{"$set": bson.M{
			"reviews.$.rating":  rating,
			"reviews.$.comment": comment,
		}},
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrReviewNotFound
	}
	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if opts == nil {
		opts = options.Find()
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]*domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].toDomain()
	}
	return products, nil
}

// EnsureIndexes creates the unique title index and the text index used by Search.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "category", Value: "text"},
			},
			Options: options.Index().SetName("product_text"),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// priceRangeFilter matches min <= price <= max.
func priceRangeFilter(min, max float64) bson.M {
	return bson.M{"price": bson.M{"$gte": min, "$lte": max}}
}

// categoryFilter matches substring literally anywhere in the category,
// ignoring case.
func categoryFilter(substring string) bson.M {
	return bson.M{"category": primitive.Regex{Pattern: regexp.QuoteMeta(substring), Options: "i"}}
}

// textSearch builds a $text query sorted by relevance.
func textSearch(query string) (bson.M, *options.FindOptions) {
	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}})
	return bson.M{"$text": bson.M{"$search": query}}, opts
}

// decrementFilter only matches when at least quantity units are in stock.
func decrementFilter(id primitive.ObjectID, quantity int) bson.M {
	return bson.M{"_id": id, "stockQuantity": bson.M{"$gte": quantity}}
}

func stockDelta(delta int, now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"stockQuantity": delta},
		"$set": bson.M{"updatedAt": now.UTC()},
	}
}
