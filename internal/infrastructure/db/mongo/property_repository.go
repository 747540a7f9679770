package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

const propertyCollection = "properties"

type MongoPropertyRepository struct {
	coll *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *MongoPropertyRepository {
	return &MongoPropertyRepository{coll: db.Collection(propertyCollection)}
}

type mongoProperty struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Address     string             `bson:"address"`
	City        string             `bson:"city"`
	Country     string             `bson:"country"`
	Price       float64            `bson:"price"`
	Bedrooms    int                `bson:"bedrooms"`
	Bathrooms   int                `bson:"bathrooms"`
	AreaM2      float64            `bson:"area_m2"`
	Furnished   bool               `bson:"furnished"`
	Available   bool               `bson:"available"`
	Images      []string           `bson:"images"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *MongoPropertyRepository) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	doc := toMongoProperty(p)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}

	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *MongoPropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	var mp mongoProperty
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("find property: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoPropertyRepository) Update(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrPropertyNotFound
	}

	doc := toMongoProperty(p)
	var updated mongoProperty
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":       doc.Title,
			"description": doc.Description,
			"address":     doc.Address,
			"city":        doc.City,
			"country":     doc.Country,
			"price":       doc.Price,
			"bedrooms":    doc.Bedrooms,
			"bathrooms":   doc.Bathrooms,
			"area_m2":     doc.AreaM2,
			"furnished":   doc.Furnished,
			"available":   doc.Available,
			"images":      doc.Images,
			"updated_at":  doc.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return updated.toDomain(), nil
}

func (r *MongoPropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPropertyNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (r *MongoPropertyRepository) List(ctx context.Context, filter ports.ListPropertiesFilter) ([]*domain.Property, int64, error) {
	query := bson.M{}
	if filter.City != "" {
		query["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.City) + "$", Options: "i"}
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.Furnished != nil {
		query["furnished"] = *filter.Furnished
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Property
	for cursor.Next(ctx) {
		var mp mongoProperty
		if err := cursor.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode property: %w", err)
		}
		items = append(items, mp.toDomain())
	}
	return items, total, cursor.Err()
}

func toMongoProperty(p *domain.Property) mongoProperty {
	return mongoProperty{
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		City:        p.City,
		Country:     p.Country,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaM2:      p.AreaM2,
		Furnished:   p.Furnished,
		Available:   p.Available,
		Images:      p.Images,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func (mp mongoProperty) toDomain() *domain.Property {
	return &domain.Property{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Description: mp.Description,
		Address:     mp.Address,
		City:        mp.City,
		Country:     mp.Country,
		Price:       mp.Price,
		Bedrooms:    mp.Bedrooms,
		Bathrooms:   mp.Bathrooms,
		AreaM2:      mp.AreaM2,
		Furnished:   mp.Furnished,
		Available:   mp.Available,
		Images:      mp.Images,
		OwnerID:     mp.OwnerID,
		CreatedAt:   mp.CreatedAt.UTC(),
		UpdatedAt:   mp.UpdatedAt.UTC(),
	}
}
