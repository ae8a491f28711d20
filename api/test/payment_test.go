package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"testing"
	"time"

	"institute/client"
	"institute/core/bucket"
	"institute/core/enrollment"
	"institute/core/payment"

	"github.com/plutov/paypal/v4"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
)

func TestPaypalCheckout(t *testing.T) {
	env := NewTestEnv(t)

	crs := env.SeedCourse(t, false)
	bkt := env.SeedBucket(t, crs.ID, 250000)

	token, _ := env.SignupStudent(t, "Kamala Silva", "kamala@students.test", "student-pass-1")

	var ord paypal.Order
	env.Post(t, token, "/payment_requests/paypal", map[string]string{"bucketId": bkt.ID}, &ord, http.StatusOK)
	if ord.ID == "" {
		t.Fatal("paypal checkout returned no order id")
	}

	assertOwned(t, env, token, nil)

	env.Post(t, token, "/payment_requests/paypal/"+ord.ID+"/capture", nil, nil, http.StatusNoContent)

	assertOwned(t, env, token, []string{bkt.ID})

	// Re-delivered captures change nothing.
	env.Post(t, token, "/payment_requests/paypal/"+ord.ID+"/capture", nil, nil, http.StatusNoContent)
	assertOwned(t, env, token, []string{bkt.ID})
}

func TestStripeCheckout(t *testing.T) {
	env := NewTestEnv(t)

	crs := env.SeedCourse(t, false)
	bkt := env.SeedBucket(t, crs.ID, 180000)

	token, _ := env.SignupStudent(t, "Ruwan Jayasuriya", "ruwan@students.test", "student-pass-1")

	var checkoutURL string
	env.Post(t, token, "/payment_requests/stripe", map[string]string{"bucketId": bkt.ID}, &checkoutURL, http.StatusOK)
	if checkoutURL == "" {
		t.Fatal("stripe checkout returned no url")
	}

	assertOwned(t, env, token, nil)

	// The webhook carries the session the checkout was bound to.
	raw, err := json.Marshal(map[string]any{
		"id":   path.Base(checkoutURL),
		"mode": stripe.CheckoutSessionModePayment,
	})
	if err != nil {
		t.Fatal(err)
	}

	evt := stripe.Event{
		APIVersion: "2022-11-15",
		Type:       "checkout.session.completed",
		Data:       &stripe.EventData{Raw: json.RawMessage(raw)},
	}
	b, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   b,
		Secret:    env.WebhookSecret,
		Timestamp: time.Now(),
	})

	r, err := http.NewRequest(http.MethodPost, env.URL+"/payment_requests/stripe/capture", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Stripe-Signature", signed.Header)

	w, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()
	if w.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(w.Body)
		t.Fatalf("stripe capture = %s: %s", w.Status, body)
	}

	assertOwned(t, env, token, []string{bkt.ID})
}

func TestSlipReview(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()

	crs := env.SeedCourse(t, false)
	bkt := env.SeedBucket(t, crs.ID, 120000)

	token, number := env.SignupStudent(t, "Amaya Fernando", "amaya@students.test", "student-pass-1")

	created := uploadSlip(t, env, token, bkt.ID, 120000)
	if created.Status != payment.StatusPending {
		t.Fatalf("slip request status = %q, want pending", created.Status)
	}
	if created.SlipPath == nil {
		t.Fatal("slip request has no slip path")
	}

	assertOwned(t, env, token, nil)

	admin := env.AdminClient(t)

	list := client.NewPaymentReviewList(admin)
	if err := list.Load(ctx, payment.FilterParams{StudentNumber: number}); err != nil {
		t.Fatalf("loading payment reviews: %v", err)
	}

	rows := list.Rows()
	if len(rows) != 1 {
		t.Fatalf("loaded %d pending requests, want 1", len(rows))
	}
	if url := list.SlipURL(rows[0]); url == "" {
		t.Fatal("pending slip request resolves to no slip url")
	}

	// The stored slip is fetchable through the static file route.
	w, err := http.Get(list.SlipURL(rows[0]))
	if err != nil {
		t.Fatalf("fetching slip: %v", err)
	}
	defer w.Body.Close()
	if w.StatusCode != http.StatusOK {
		t.Fatalf("fetching slip = %s", w.Status)
	}

	if err := list.Approve(ctx, rows[0].ID); err != nil {
		t.Fatalf("approving slip: %v", err)
	}
	if len(list.Rows()) != 0 {
		t.Fatal("approved request still listed as pending")
	}

	assertOwned(t, env, token, []string{bkt.ID})
}

func TestEnrollmentReview(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()

	crs := env.SeedCourse(t, false)

	token, number := env.SignupStudent(t, "Sahan Bandara", "sahan@students.test", "student-pass-1")

	var enr enrollment.Enrollment
	env.Post(t, token, "/enrollments", map[string]string{"courseId": crs.ID}, &enr, http.StatusCreated)
	if enr.Status != enrollment.StatusPending {
		t.Fatalf("enrollment status = %q, want pending", enr.Status)
	}

	admin := env.AdminClient(t)

	list := client.NewEnrollmentReviewList(admin)
	if err := list.Load(ctx, enrollment.FilterParams{CourseID: crs.ID}); err != nil {
		t.Fatalf("loading enrollment reviews: %v", err)
	}
	rows := list.Rows()
	if len(rows) != 1 || rows[0].StudentNumber != number {
		t.Fatalf("loaded rows %v, want the one pending request of %s", rows, number)
	}

	if err := list.Approve(ctx, rows[0].ID); err != nil {
		t.Fatalf("approving enrollment: %v", err)
	}
	if len(list.Rows()) != 0 {
		t.Fatal("approved request still listed as pending")
	}

	// Decided requests stay out of the pending queue on reload.
	if err := list.Load(ctx, enrollment.FilterParams{CourseID: crs.ID}); err != nil {
		t.Fatalf("reloading enrollment reviews: %v", err)
	}
	if len(list.Rows()) != 0 {
		t.Fatal("decided request reappeared in the pending queue")
	}
}

func assertOwned(t *testing.T, env *TestEnv, token string, want []string) {
	t.Helper()

	var owned []bucket.Bucket
	env.Get(t, token, "/buckets/owned", &owned, http.StatusOK)

	if len(owned) != len(want) {
		t.Fatalf("student owns %d buckets, want %d", len(owned), len(want))
	}
	for i, id := range want {
		if owned[i].ID != id {
			t.Fatalf("owned[%d] = %s, want %s", i, owned[i].ID, id)
		}
	}
}

func uploadSlip(t *testing.T, env *TestEnv, token, bucketID string, amount int) payment.Payment {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	data, err := json.Marshal(payment.SlipNew{BucketID: bucketID, Amount: amount})
	if err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("data", string(data)); err != nil {
		t.Fatal(err)
	}

	fw, err := mw.CreateFormFile("slip", "bank-slip.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("not really a jpeg")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := http.NewRequest(http.MethodPost, env.URL+"/payment_requests", &buf)
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Authorization", "Bearer "+token)

	w, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(w.Body)
		t.Fatalf("uploading slip = %s: %s", w.Status, b)
	}

	var pay payment.Payment
	if err := json.NewDecoder(w.Body).Decode(&pay); err != nil {
		t.Fatalf("decoding slip response: %v", err)
	}
	return pay
}
