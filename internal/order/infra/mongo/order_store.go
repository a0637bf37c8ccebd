package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/order/app"
	"github.com/dwikikusuma/shoping-cart/internal/order/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "orders"

type lineDoc struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
	ImageURL  string               `bson:"imageUrl,omitempty"`
}

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	UserID          string               `bson:"userId"`
	Items           []lineDoc            `bson:"items"`
	TotalAmount     primitive.Decimal128 `bson:"totalAmount"`
	TotalItems      int                  `bson:"totalItems"`
	ShippingAddress string               `bson:"shippingAddress"`
	Notes           string               `bson:"notes,omitempty"`
	Status          string               `bson:"status"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

type OrderStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{
		coll: db.Collection(collectionName),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes backs the per-user history query.
func (s *OrderStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	return err
}

func (s *OrderStore) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	doc, err := toDoc(order)
	if err != nil {
		return domain.Order{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return domain.Order{}, err
	}
	order.ID = doc.ID.Hex()
	return order, nil
}

func (s *OrderStore) FindByIDForUser(ctx context.Context, orderID, userID string) (domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	var doc orderDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return fromDoc(doc)
}

func (s *OrderStore) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := fromDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *OrderStore) UpdateStatusByID(ctx context.Context, orderID string, status domain.Status) (domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return domain.Order{}, app.ErrNotFound
	}

	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return fromDoc(doc)
}

func toDoc(o domain.Order) (orderDoc, error) {
	items := make([]lineDoc, 0, len(o.Lines))
	for _, l := range o.Lines {
		price, err := mongodb.ToDecimal128(l.Price)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, lineDoc{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     price,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
		})
	}

	total, err := mongodb.ToDecimal128(o.TotalAmount)
	if err != nil {
		return orderDoc{}, err
	}

	return orderDoc{
		UserID:          o.UserID,
		Items:           items,
		TotalAmount:     total,
		TotalItems:      o.TotalItemCount,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}, nil
}

func fromDoc(d orderDoc) (domain.Order, error) {
	lines := make([]domain.OrderLine, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := mongodb.FromDecimal128(it.Price)
		if err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.OrderLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}

	total, err := mongodb.FromDecimal128(d.TotalAmount)
	if err != nil {
		return domain.Order{}, err
	}

	return domain.Order{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		Lines:           lines,
		TotalAmount:     total,
		TotalItemCount:  d.TotalItems,
		ShippingAddress: d.ShippingAddress,
		Notes:           d.Notes,
		Status:          domain.Status(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}
