// Package test spins the whole API up against a throwaway postgres
// container and drives it through the typed client, with the payment
// providers replaced by local mocks. Tests skip when docker is missing.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"institute/api"
	"institute/api/background"
	"institute/client"
	"institute/config"
	"institute/core/auth"
	"institute/core/bucket"
	"institute/core/course"
	"institute/core/studypack"
	"institute/database"
	"institute/email"
	"institute/files"
	"institute/rate"
	"institute/validate"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	mock "github.com/stripe/stripe-mock/param"
)

const (
	adminEmail    = "admin@institute.test"
	adminPass     = "admin-secret-1"
	webhookSecret = "whsec_test"
)

type TestEnv struct {
	URL           string
	DB            *sqlx.DB
	WebhookSecret string
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	res, err := pool.Run("postgres", "15-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=institute",
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pool.Purge(res) })

	dbCfg := config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       "localhost:" + res.GetPort("5432/tcp"),
		Name:       "institute",
		DisableTLS: true,
	}

	var db *sqlx.DB
	if err := pool.Retry(func() error {
		db, err = database.Open(dbCfg)
		return err
	}); err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	if err := auth.EnsureAdmin(context.Background(), db, adminEmail, adminPass); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	session := scs.New()
	session.Lifetime = time.Hour

	store, err := files.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("preparing upload dir: %v", err)
	}

	handler := api.APIMux(api.APIConfig{
		Log:          logger,
		DB:           db,
		Session:      session,
		Mailer:       email.New("noreply@institute.test", "", "localhost", "2525"),
		Background:   background.New(logger),
		Files:        store,
		LoginLimiter: rate.NewLimiter(100, 1, 100),
		Paypal:       mockPaypal(t),
		Stripe:       mockStripe(t),
		StripeCfg: config.Stripe{
			WebhookSecret: webhookSecret,
			SuccessURL:    "http://localhost/success",
			CancelURL:     "http://localhost/cancelled",
		},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &TestEnv{
		URL:           srv.URL,
		DB:            db,
		WebhookSecret: webhookSecret,
	}
}

// AdminClient logs in as the seeded administrator.
func (env *TestEnv) AdminClient(t *testing.T) *client.Client {
	t.Helper()

	c := client.New(client.Config{BaseURL: env.URL, FileBaseURL: env.URL + "/files"})
	if _, err := c.Login(context.Background(), adminEmail, adminPass); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	return c
}

// SignupStudent registers a student account and returns a bearer token for
// it along with the student number the backend assigned.
func (env *TestEnv) SignupStudent(t *testing.T, name, mail, pass string) (token, number string) {
	t.Helper()

	signup := map[string]string{
		"name":            name,
		"email":           mail,
		"password":        pass,
		"passwordConfirm": pass,
	}
	var usr struct {
		StudentID *string `json:"studentId"`
	}
	env.Post(t, "", "/auth/signup", signup, &usr, http.StatusCreated)

	if usr.StudentID == nil {
		t.Fatal("signup did not create a student record")
	}
	if err := env.DB.Get(&number, "SELECT student_number FROM students WHERE student_id = $1", *usr.StudentID); err != nil {
		t.Fatalf("fetching student number: %v", err)
	}

	login := map[string]string{"email": mail, "password": pass}
	var sess struct {
		Token string `json:"token"`
	}
	env.Post(t, "", "/auth/login", login, &sess, http.StatusOK)

	return sess.Token, number
}

// Post sends a JSON request with an optional bearer token and decodes the
// answer, failing the test on an unexpected status.
func (env *TestEnv) Post(t *testing.T, token, path string, body, out any, wantStatus int) {
	t.Helper()
	env.request(t, http.MethodPost, token, path, body, out, wantStatus)
}

// Get fetches a JSON resource with an optional bearer token.
func (env *TestEnv) Get(t *testing.T, token, path string, out any, wantStatus int) {
	t.Helper()
	env.request(t, http.MethodGet, token, path, nil, out, wantStatus)
}

func (env *TestEnv) request(t *testing.T, method, token, path string, body, out any, wantStatus int) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling %s body: %v", path, err)
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, env.URL+path, rd)
	if err != nil {
		t.Fatalf("building %s request: %v", path, err)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatalf("calling %s %s: %v", method, path, err)
	}
	defer w.Body.Close()

	if w.StatusCode != wantStatus {
		b, _ := io.ReadAll(w.Body)
		t.Fatalf("%s %s = %s, want %d: %s", method, path, w.Status, wantStatus, b)
	}

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s response: %v", path, err)
		}
	}
}

// SeedCourse inserts a course straight into the database.
func (env *TestEnv) SeedCourse(t *testing.T, free bool) course.Course {
	t.Helper()

	now := time.Now().UTC()
	crs := course.Course{
		ID:        validate.GenerateID(),
		Name:      fmt.Sprintf("Course %d", rand.Intn(10000)),
		Grade:     "10",
		Free:      free,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := course.Create(context.Background(), env.DB, crs); err != nil {
		t.Fatalf("seeding course: %v", err)
	}
	return crs
}

func (env *TestEnv) SeedBucket(t *testing.T, courseID string, price int) bucket.Bucket {
	t.Helper()

	now := time.Now().UTC()
	bkt := bucket.Bucket{
		ID:        validate.GenerateID(),
		CourseID:  courseID,
		Name:      fmt.Sprintf("Bucket %d", rand.Intn(10000)),
		Month:     "January",
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := bucket.Create(context.Background(), env.DB, bkt); err != nil {
		t.Fatalf("seeding bucket: %v", err)
	}
	return bkt
}

func (env *TestEnv) SeedPack(t *testing.T, bucketID string, price, weightGrams int) studypack.StudyPack {
	t.Helper()

	now := time.Now().UTC()
	sp := studypack.StudyPack{
		ID:          validate.GenerateID(),
		BucketID:    bucketID,
		Title:       fmt.Sprintf("Pack %d", rand.Intn(10000)),
		Price:       price,
		WeightGrams: weightGrams,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := studypack.Create(context.Background(), env.DB, sp); err != nil {
		t.Fatalf("seeding study pack: %v", err)
	}
	return sp
}

func mockPaypal(t *testing.T) *paypal.Client {
	t.Helper()

	r := mux.NewRouter()

	r.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		var pu struct {
			Units []paypal.PurchaseUnitRequest `json:"purchase_units"`
		}
		if err := json.NewDecoder(r.Body).Decode(&pu); err != nil || len(pu.Units) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(paypal.Order{
			ID:     fmt.Sprintf("pp-%d", rand.Intn(10000)),
			Status: "CREATED",
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(paypal.Order{
			ID:     mux.Vars(r)["id"],
			Status: "COMPLETED",
		})
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	pp, err := paypal.NewClient("test-client", "test-secret", srv.URL)
	if err != nil {
		t.Fatalf("building paypal client: %v", err)
	}
	return pp
}

func mockStripe(t *testing.T) *stripecl.API {
	t.Helper()

	r := mux.NewRouter()

	r.HandleFunc("/v1/checkout/sessions", func(w http.ResponseWriter, r *http.Request) {
		params, err := mock.ParseParams(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if _, ok := params["line_items"]; !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		id := fmt.Sprintf("cs_test_%d", rand.Intn(10000))
		json.NewEncoder(w).Encode(map[string]any{
			"id":   id,
			"url":  "https://checkout.stripe.test/" + id,
			"mode": stripe.CheckoutSessionModePayment,
		})
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	strp := &stripecl.API{}
	strp.Init("sk_test", &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			URL: stripe.String(srv.URL),
		}),
	})
	return strp
}
