package repository

import (
	"context"
	"errors"
	"fmt"
	"pinshop/internal/common"
	"pinshop/internal/domain/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AccountsCollection = "accounts"
	ProductsCollection = "products"
)

// accountDocument uses the userID as the document key, so the collection's
// primary index enforces userID uniqueness.
type accountDocument struct {
	UserID    string    `bson:"_id"`
	FullName  string    `bson:"fullName"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role"`
	PINHash   string    `bson:"pinHash"`
	Cart      []string  `bson:"cart"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (d accountDocument) toModel() *model.Account {
	return &model.Account{
		UserID:    d.UserID,
		FullName:  d.FullName,
		Email:     d.Email,
		Role:      d.Role,
		PINHash:   d.PINHash,
		Cart:      cloneCart(d.Cart),
		CreatedAt: d.CreatedAt,
	}
}

type mongoAccountRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &mongoAccountRepository{coll: db.Collection(AccountsCollection), now: time.Now}
}

func (r *mongoAccountRepository) Create(ctx context.Context, a *model.Account) error {
	// Mongo stores milliseconds; truncate so the caller sees what was saved.
	a.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	doc := accountDocument{
		UserID:    a.UserID,
		FullName:  a.FullName,
		Email:     a.Email,
		Role:      a.Role,
		PINHash:   a.PINHash,
		Cart:      cloneCart(a.Cart),
		CreatedAt: a.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("account %s already exists: %w", a.UserID, common.ErrConflict)
		}
		return fmt.Errorf("mongoAccountRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) FindByUserID(ctx context.Context, userID string) (*model.Account, error) {
	var doc accountDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoAccountRepository.FindByUserID: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoAccountRepository) SaveCart(ctx context.Context, userID string, cart []string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"cart": cloneCart(cart)}})
	if err != nil {
		return fmt.Errorf("mongoAccountRepository.SaveCart: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Quantity    int                `bson:"quantity"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d productDocument) toModel() model.Product {
	return model.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       d.Price,
		Quantity:    d.Quantity,
		CreatedAt:   d.CreatedAt,
	}
}

type mongoProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: db.Collection(ProductsCollection), now: time.Now}
}

func (r *mongoProductRepository) Create(ctx context.Context, p *model.Product) error {
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   r.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongoProductRepository.Create: %w", err)
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt = doc.CreatedAt
	return nil
}

func (r *mongoProductRepository) NormalizeID(id string) (string, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id, false
	}
	return oid.Hex(), true
}

func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []model.Product{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("mongoProductRepository.FindByIDs: %w", err)
	}
	return decodeProducts(ctx, cur)
}

func (r *mongoProductRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("mongoProductRepository.DeleteByID: %w", err)
	}
	return nil
}

func (r *mongoProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongoProductRepository.FindAll: %w", err)
	}
	return decodeProducts(ctx, cur)
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]model.Product, error) {
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}
