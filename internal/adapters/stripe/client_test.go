package stripe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"tourix/internal/adapters/stripe"
	"tourix/internal/domain"
)

func params() domain.CheckoutParams {
	return domain.CheckoutParams{
		BookingID:   "bk_1",
		Amount:      30000,
		Currency:    "usd",
		ProductName: "Sea Breeze",
		SuccessURL:  "https://app.example/loader/my-bookings",
		CancelURL:   "https://app.example/my-bookings",
	}
}

func TestCreateSession_RetriesThenSuccess(t *testing.T) {
	var hits int32
	var idemKeys [3]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n <= 3 {
			idemKeys[n-1] = r.Header.Get("Idempotency-Key")
		}
		switch n {
		case 1, 2:
			w.WriteHeader(500) // two transient failures
		default:
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if got := r.PostForm.Get("metadata[booking_id]"); got != "bk_1" {
				t.Errorf("booking id in metadata: %q", got)
			}
			if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "30000" {
				t.Errorf("unit_amount: %q", got)
			}
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":  "cs_test_123",
				"url": "https://checkout.example/cs_test_123",
			})
		}
	}))
	defer ts.Close()

	cl, err := stripe.New(ts.URL, "sk_test", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := cl.CreateSession(ctx, params())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sess.ID != "cs_test_123" || sess.URL == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
	if idemKeys[0] == "" || idemKeys[0] != idemKeys[1] || idemKeys[1] != idemKeys[2] {
		t.Fatalf("expected one idempotency key across retries, got %v", idemKeys)
	}
}

func TestCreateSession_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer ts.Close()

	cl, err := stripe.New(ts.URL, "sk_bad", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := cl.CreateSession(ctx, params()); err != stripe.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := stripe.New("https://api.example", "", 5); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
