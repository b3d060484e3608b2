package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rogerio-castellano/warehouse-inventory/internal/models"
)

const (
	nameIndex = "uniq_name"
	idIndex   = "uniq_id"

	countersCollection = "counters"
)

type MongoProductRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
	timeout  time.Duration
}

func NewMongoProductRepository(coll *mongo.Collection, timeout time.Duration) *MongoProductRepository {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &MongoProductRepository{
		coll:     coll,
		counters: coll.Database().Collection(countersCollection),
		timeout:  timeout,
	}
}

// EnsureIndexes creates the unique indexes on name and domain id.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName(nameIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetName(idIndex).SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *MongoProductRepository) InsertMany(ctx context.Context, products []models.Product) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs := make([]any, len(products))
	for i, p := range products {
		p.ObjectID = primitive.NilObjectID
		docs[i] = p
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, duplicateKeyError(err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoProductRepository) Insert(ctx context.Context, p models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	p.ObjectID = primitive.NilObjectID
	_, err := r.coll.InsertOne(ctx, p)
	return duplicateKeyError(err)
}

func (r *MongoProductRepository) Find(ctx context.Context, filter ProductFilter, sort SortSpec) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: sort.Field, Value: 1}})
	cur, err := r.coll.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id int) (models.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "id", Value: id}}, nil)
}

func (r *MongoProductRepository) FindByName(ctx context.Context, name string) (models.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "name", Value: name}}, nil)
}

func (r *MongoProductRepository) maxID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	p, err := r.findOne(ctx, bson.D{}, opts)
	if errors.Is(err, ErrProductNotFound) {
		return 0, nil
	}
	return p.ID, err
}

// NextID atomically advances the collection sequence past the highest stored
// id. The sequence survives deletions, so ids are never reused.
func (r *MongoProductRepository) NextID(ctx context.Context) (int, error) {
	current, err := r.maxID(ctx)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "seq", Value: bson.D{{Key: "$add", Value: bson.A{
			bson.D{{Key: "$max", Value: bson.A{"$seq", current}}},
			1,
		}}}}}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err = r.counters.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: r.coll.Name()}}, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("advance product sequence: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptions) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p models.Product
	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(&p)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(&p)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *MongoProductRepository) Update(ctx context.Context, p models.Product) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "price", Value: p.Price},
		{Key: "description", Value: p.Description},
		{Key: "quantity", Value: p.Quantity},
		{Key: "unit", Value: p.Unit},
	}}}
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "id", Value: p.ID}}, update)
	if err != nil {
		return false, duplicateKeyError(err)
	}
	if res.MatchedCount == 0 {
		return false, ErrProductNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoProductRepository) InventoryReport(ctx context.Context) (models.InventoryReport, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalProducts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "totalValue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$price", "$quantity"}},
			}}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.InventoryReport{}, false, err
	}
	defer cur.Close(ctx)

	var reports []models.InventoryReport
	if err := cur.All(ctx, &reports); err != nil {
		return models.InventoryReport{}, false, err
	}
	if len(reports) == 0 {
		return models.InventoryReport{}, false, nil
	}
	return reports[0], true, nil
}

func (r *MongoProductRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.coll.Database().Client().Ping(ctx, nil)
}

func filterDocument(f ProductFilter) bson.D {
	filter := bson.D{}
	if f.Name != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}})
	}

	price := bson.D{}
	if f.MinPrice != nil {
		price = append(price, bson.E{Key: "$gte", Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		price = append(price, bson.E{Key: "$lte", Value: *f.MaxPrice})
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "price", Value: price})
	}

	quantity := bson.D{}
	if f.MinQuantity != nil {
		quantity = append(quantity, bson.E{Key: "$gte", Value: *f.MinQuantity})
	}
	if f.MaxQuantity != nil {
		quantity = append(quantity, bson.E{Key: "$lte", Value: *f.MaxQuantity})
	}
	if len(quantity) > 0 {
		filter = append(filter, bson.E{Key: "quantity", Value: quantity})
	}
	return filter
}

// duplicateKeyError translates unique index violations into repository errors.
func duplicateKeyError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), nameIndex) {
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	}
	return fmt.Errorf("%w: %v", ErrDuplicateID, err)
}
