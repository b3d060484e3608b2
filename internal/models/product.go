package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product represents a product entity in the warehouse inventory.
//
// ObjectID is the store-internal key and never leaves the repository layer;
// ID is the domain identifier used in URLs and responses.
type Product struct {
	ObjectID    primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID          int                `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name"`
	Price       float64            `json:"price" bson:"price"`
	Description string             `json:"description" bson:"description"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Unit        string             `json:"unit" bson:"unit"`
}

// InventoryReport aggregates the whole product collection.
type InventoryReport struct {
	TotalProducts int64   `json:"totalProducts" bson:"totalProducts"`
	TotalQuantity int64   `json:"totalQuantity" bson:"totalQuantity"`
	TotalValue    float64 `json:"totalValue" bson:"totalValue"`
}
