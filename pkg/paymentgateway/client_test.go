package paymentgateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
)

func TestMockOrderLifecycle(t *testing.T) {
	client := NewClient("", "key", "secret", true)

	order, err := client.CreateOrder(context.Background(), 500, "receipt-1")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Amount != 500 || order.Status != "created" {
		t.Fatalf("order = %+v", order)
	}

	fetched, err := client.FetchOrder(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if fetched.Amount != 500 || fetched.Status != "paid" {
		t.Fatalf("fetched = %+v", fetched)
	}

	if _, err := client.FetchOrder(context.Background(), "order_unknown"); err == nil {
		t.Fatal("unknown order fetched without error")
	}
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("", "key", "secret", false)

	mac := hmac.New(sha256.New, []byte("secret"))
	fmt.Fprint(mac, "order_1|pay_1")
	good := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifySignature("order_1", "pay_1", good) {
		t.Fatal("valid signature rejected")
	}
	if client.VerifySignature("order_1", "pay_1", "deadbeef") {
		t.Fatal("bogus signature accepted")
	}
	if client.VerifySignature("order_2", "pay_1", good) {
		t.Fatal("signature accepted for a different order")
	}
}
