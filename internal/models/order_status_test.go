package models

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, value := range []string{"Shipped", "shipped", " SHIPPED "} {
		status, ok := ParseOrderStatus(value)
		if !ok || status != StatusShipped {
			t.Fatalf("expected %q to parse as Shipped, got %q ok=%v", value, status, ok)
		}
	}

	if _, ok := ParseOrderStatus("Cancelled"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Fatalf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestDeliveredIsTerminal(t *testing.T) {
	if !StatusDelivered.Terminal() {
		t.Fatal("Delivered must be terminal")
	}
	if StatusProcessing.Terminal() || StatusShipped.Terminal() {
		t.Fatal("Processing and Shipped must not be terminal")
	}
}
