package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildOrderItemsSnapshotsProducts(t *testing.T) {
	productID := primitive.NewObjectID()

	items, err := buildOrderItems([]newOrderItemRequest{
		{Name: "Lamp", Price: 49.9, Quantity: 2, Image: "lamp.jpg", Product: productID.Hex()},
	})
	if err != nil {
		t.Fatalf("buildOrderItems returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Product != productID {
		t.Fatalf("expected product id %s, got %s", productID.Hex(), items[0].Product.Hex())
	}
	if items[0].Name != "Lamp" || items[0].Price != 49.9 || items[0].Quantity != 2 {
		t.Fatalf("item fields not snapshotted: %+v", items[0])
	}
}

func TestBuildOrderItemsRejectsBadProductID(t *testing.T) {
	_, err := buildOrderItems([]newOrderItemRequest{
		{Name: "Lamp", Price: 49.9, Quantity: 1, Product: "not-an-object-id"},
	})
	if err == nil {
		t.Fatal("expected error for malformed product id")
	}
}
