package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/config"
	"institute/core/bucket"
	"institute/core/claims"
	"institute/database"
	"institute/validate"

	"github.com/jmoiron/sqlx"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/plutov/paypal/v4"
)

func checkout(ctx context.Context, db *sqlx.DB, w http.ResponseWriter, r *http.Request) (claims.Claims, bucket.Bucket, error) {
	clm, err := claims.Get(ctx)
	if err != nil || clm.StudentID == "" {
		return claims.Claims{}, bucket.Bucket{}, weberr.NotAuthorized(errors.New("student not authenticated"))
	}

	var cn CheckoutNew
	if err := web.Decode(w, r, &cn); err != nil {
		return claims.Claims{}, bucket.Bucket{}, weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(cn); err != nil {
		return claims.Claims{}, bucket.Bucket{}, weberr.Unprocessable(err)
	}

	bkt, err := bucket.Fetch(ctx, db, cn.BucketID)
	if err != nil {
		return claims.Claims{}, bucket.Bucket{}, weberr.NotFound(err)
	}

	if bkt.Price == 0 {
		err := errors.New("bucket has no price to pay")
		return claims.Claims{}, bucket.Bucket{}, weberr.Unprocessable(err)
	}

	unlocked, err := bucket.Unlocked(ctx, db, clm.StudentID, bkt.ID)
	if err != nil {
		return claims.Claims{}, bucket.Bucket{}, fmt.Errorf("checking bucket access: %w", err)
	}
	if unlocked {
		err := errors.New("bucket is already unlocked")
		return claims.Claims{}, bucket.Bucket{}, weberr.Unprocessable(err)
	}

	return clm, bkt, nil
}

func prepare(ctx context.Context, db *sqlx.DB, studentID string, providerID string, bkt bucket.Bucket) error {
	err := database.Transaction(db, func(tx sqlx.ExtContext) error {
		now := time.Now().UTC()
		pay := Payment{
			ID:         validate.GenerateID(),
			StudentID:  studentID,
			BucketID:   bkt.ID,
			ProviderID: &providerID,
			Amount:     bkt.Price,
			Status:     StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := Create(ctx, tx, pay); err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("creating the payment bound to checkout[%s] for student[%s]: %w", providerID, studentID, err)
	}
	return nil
}

// fulfill approves the payment bound to a captured checkout. Re-delivered
// webhooks find the payment already approved and change nothing.
func fulfill(ctx context.Context, db *sqlx.DB, providerID string) error {
	pay, err := FetchByProviderID(ctx, db, providerID)
	if err != nil {
		return fmt.Errorf("fetching the payment bound to checkout[%s]: %w", providerID, err)
	}

	if pay.Status == StatusApproved {
		return nil
	}

	if err := UpdateStatus(ctx, db, pay.ID, StatusApproved); err != nil {
		return fmt.Errorf("fulfilling the payment[%s] bound to checkout[%s]: %w", pay.ID, providerID, err)
	}
	return nil
}

func HandlePaypalCheckout(db *sqlx.DB, pp *paypal.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, bkt, err := checkout(ctx, db, w, r)
		if err != nil {
			return err
		}

		price := strconv.FormatFloat(float64(bkt.Price)/100, 'f', 2, 64)

		units := []paypal.PurchaseUnitRequest{{
			Items: []paypal.Item{{
				Quantity:    "1",
				Name:        bkt.Name,
				Description: bkt.Month,

				UnitAmount: &paypal.Money{
					Currency: "LKR",
					Value:    price,
				},
			}},

			Amount: &paypal.PurchaseUnitAmount{
				Currency: "LKR",
				Value:    price,

				Breakdown: &paypal.PurchaseUnitAmountBreakdown{ItemTotal: &paypal.Money{
					Currency: "LKR",
					Value:    price,
				}},
			},
		}}

		app := &paypal.ApplicationContext{}

		ord, err := pp.CreateOrder(ctx, "CAPTURE", units, nil, app)
		if err != nil {
			return fmt.Errorf("creating paypal order: %w", err)
		}

		if err := prepare(ctx, db, clm.StudentID, ord.ID, bkt); err != nil {
			return fmt.Errorf("creating the payment on the database: %w", err)
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandlePaypalCapture(db *sqlx.DB, pp *paypal.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		providerID := web.Param(r, "id")

		resp, err := pp.CaptureOrder(ctx, providerID, paypal.CaptureOrderRequest{})
		if err != nil {
			return fmt.Errorf("capturing paypal order[%s]: %w", providerID, err)
		}

		if resp.Status != "COMPLETED" {
			return fmt.Errorf("captured order[%s] with status[%s] different from 'COMPLETED'", providerID, resp.Status)
		}

		if err := fulfill(ctx, db, providerID); err != nil {
			return fmt.Errorf("the checkout was payed but its fulfillment failed: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleStripeCheckout(db *sqlx.DB, strp *stripecl.API, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, bkt, err := checkout(ctx, db, w, r)
		if err != nil {
			return err
		}

		params := &stripe.CheckoutSessionParams{
			SuccessURL: stripe.String(cfg.SuccessURL),
			CancelURL:  stripe.String(cfg.CancelURL),
			Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
			LineItems: []*stripe.CheckoutSessionLineItemParams{{
				Quantity: stripe.Int64(1),

				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String("lkr"),
					TaxBehavior: stripe.String("inclusive"),
					UnitAmount:  stripe.Int64(int64(bkt.Price)),

					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(bkt.Name),
						Description: stripe.String(bkt.Month),
					},
				},
			}},
		}

		s, err := strp.CheckoutSessions.New(params)
		if err != nil {
			return fmt.Errorf("creating stripe session: %w", err)
		}

		if err := prepare(ctx, db, clm.StudentID, s.ID, bkt); err != nil {
			return fmt.Errorf("creating the payment on the database: %w", err)
		}

		return web.Respond(ctx, w, s.URL, http.StatusOK)
	}
}

func HandleStripeCapture(db *sqlx.DB, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			return weberr.BadRequest(errors.New("received stripe event is not signed"))
		}

		event, err := webhook.ConstructEvent(b, sig, cfg.WebhookSecret)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot construct stripe event: %w", err))
		}

		if event.Type != "checkout.session.completed" {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		var session stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode stripe event: %w", err))
		}

		if session.Mode != stripe.CheckoutSessionModePayment {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		if err := fulfill(ctx, db, session.ID); err != nil {
			return fmt.Errorf("the checkout was payed but its fulfillment failed: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
