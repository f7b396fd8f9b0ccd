package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildCatalogFilterEmpty(t *testing.T) {
	filter := buildCatalogFilter("", "", "", "")
	if len(filter) != 0 {
		t.Fatalf("expected empty filter, got %v", filter)
	}
}

func TestBuildCatalogFilterKeywordAndCategory(t *testing.T) {
	filter := buildCatalogFilter("lamp", "lighting", "", "")

	name, ok := filter["name"].(bson.M)
	if !ok {
		t.Fatalf("expected name regex clause, got %v", filter["name"])
	}
	if name["$regex"] != "lamp" || name["$options"] != "i" {
		t.Fatalf("unexpected name clause %v", name)
	}
	if filter["category"] != "lighting" {
		t.Fatalf("expected category match, got %v", filter["category"])
	}
}

func TestBuildCatalogFilterPriceRange(t *testing.T) {
	filter := buildCatalogFilter("", "", "10", "99.5")

	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("expected price clause, got %v", filter["price"])
	}
	if price["$gte"] != 10.0 || price["$lte"] != 99.5 {
		t.Fatalf("unexpected price bounds %v", price)
	}

	if _, present := buildCatalogFilter("", "", "cheap", "")["price"]; present {
		t.Fatal("non-numeric price bound must be ignored")
	}
}
