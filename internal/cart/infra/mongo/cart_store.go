package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "carts"

type lineDoc struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	ImageURL  string               `bson:"imageUrl,omitempty"`
}

type cartDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	UserID      string               `bson:"userId"`
	Items       []lineDoc            `bson:"items"`
	TotalAmount primitive.Decimal128 `bson:"totalAmount"`
	TotalItems  int                  `bson:"totalItems"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type CartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique userId index backing one-cart-per-user.
func (s *CartStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user"),
	})
	return err
}

func (s *CartStore) FindByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var doc cartDoc
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Cart{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}
	return fromDoc(doc)
}

func (s *CartStore) Insert(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	doc, err := toDoc(cart)
	if err != nil {
		return domain.Cart{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Cart{}, app.ErrDuplicate
		}
		return domain.Cart{}, err
	}

	cart.ID = doc.ID.Hex()
	return cart, nil
}

func (s *CartStore) ReplaceByID(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cart.ID)
	if err != nil {
		return domain.Cart{}, app.ErrNotFound
	}

	doc, err := toDoc(cart)
	if err != nil {
		return domain.Cart{}, err
	}
	doc.ID = oid

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return domain.Cart{}, err
	}
	if res.MatchedCount == 0 {
		return domain.Cart{}, app.ErrNotFound
	}
	return cart, nil
}

func (s *CartStore) DeleteByUser(ctx context.Context, userID string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func toDoc(cart domain.Cart) (cartDoc, error) {
	items := make([]lineDoc, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		price, err := mongodb.ToDecimal128(l.Price)
		if err != nil {
			return cartDoc{}, err
		}
		items = append(items, lineDoc{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     price,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
		})
	}

	total, err := mongodb.ToDecimal128(cart.TotalAmount)
	if err != nil {
		return cartDoc{}, err
	}

	return cartDoc{
		UserID:      cart.UserID,
		Items:       items,
		TotalAmount: total,
		TotalItems:  cart.TotalItemCount,
		CreatedAt:   cart.CreatedAt,
		UpdatedAt:   cart.UpdatedAt,
	}, nil
}

func fromDoc(doc cartDoc) (domain.Cart, error) {
	lines := make([]domain.CartLine, 0, len(doc.Items))
	for _, it := range doc.Items {
		price, err := mongodb.FromDecimal128(it.Price)
		if err != nil {
			return domain.Cart{}, err
		}
		lines = append(lines, domain.CartLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}

	total, err := mongodb.FromDecimal128(doc.TotalAmount)
	if err != nil {
		return domain.Cart{}, err
	}

	return domain.Cart{
		ID:             doc.ID.Hex(),
		UserID:         doc.UserID,
		Lines:          lines,
		TotalAmount:    total,
		TotalItemCount: doc.TotalItems,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}
