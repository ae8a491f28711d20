package api

import (
	"context"
	"net/http"

	"institute/api/background"
	"institute/api/middleware"
	"institute/api/web"
	"institute/config"
	"institute/core/assignment"
	"institute/core/auth"
	"institute/core/bucket"
	"institute/core/content"
	"institute/core/course"
	"institute/core/enrollment"
	"institute/core/order"
	"institute/core/payment"
	"institute/core/student"
	"institute/core/studypack"
	"institute/core/user"
	"institute/email"
	"institute/files"
	"institute/rate"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	Mailer           *email.Mailer
	Background       *background.Background
	Files            *files.Store
	LoginLimiter     *rate.Limiter
	Paypal           *paypal.Client
	Stripe           *stripecl.API
	StripeCfg        config.Stripe
	Providers        map[string]auth.Provider
	LoginRedirectURL string
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.Sessions(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session, cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.DB, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)

	a.Handle(http.MethodGet, "/students", student.HandleList(cfg.DB), admin)
	a.Handle(http.MethodGet, "/students/{id}", student.HandleShow(cfg.DB), admin)
	a.Handle(http.MethodPost, "/students", student.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/students/{id}", student.HandleUpdate(cfg.DB), admin)

	a.Handle(http.MethodGet, "/courses", course.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/courses/{course_id}/buckets", bucket.HandleListByCourse(cfg.DB))
	a.Handle(http.MethodGet, "/courses/{id}", course.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/courses", course.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/courses/{id}", course.HandleUpdate(cfg.DB), admin)

	a.Handle(http.MethodGet, "/buckets/owned", bucket.HandleListOwned(cfg.DB), authen)
	a.Handle(http.MethodGet, "/buckets/{bucket_id}/contents", content.HandleListByBucket(cfg.DB), authen)
	a.Handle(http.MethodPost, "/buckets/{bucket_id}/contents", content.HandleCreate(cfg.DB, cfg.Files), admin)
	a.Handle(http.MethodGet, "/buckets/{bucket_id}/assignments", assignment.HandleListByBucket(cfg.DB), authen)
	a.Handle(http.MethodGet, "/buckets/{id}", bucket.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/buckets", bucket.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/buckets/{id}", bucket.HandleUpdate(cfg.DB), admin)

	a.Handle(http.MethodGet, "/study-packs", studypack.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/study-packs/{id}", studypack.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/study-packs", studypack.HandleCreate(cfg.DB), admin)

	a.Handle(http.MethodPost, "/assignments", assignment.HandleCreate(cfg.DB, cfg.Files), admin)
	a.Handle(http.MethodPost, "/assignments/{id}/submissions", assignment.HandleSubmit(cfg.DB, cfg.Files), authen)
	a.Handle(http.MethodGet, "/assignments/{id}/submissions", assignment.HandleListSubmissions(cfg.DB), admin)
	a.Handle(http.MethodPut, "/submissions/{id}/grade", assignment.HandleGrade(cfg.DB), admin)

	a.Handle(http.MethodGet, "/enrollments/records/filter/", enrollment.HandleFilter(cfg.DB), admin)
	a.Handle(http.MethodPost, "/enrollments", enrollment.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodPut, "/enrollments/{id}", enrollment.HandleUpdateStatus(cfg.DB, cfg.Mailer, cfg.Background), admin)

	a.Handle(http.MethodGet, "/payment_requests/records/filter/", payment.HandleFilter(cfg.DB), admin)
	a.Handle(http.MethodPost, "/payment_requests", payment.HandleCreateSlip(cfg.DB, cfg.Files), authen)
	a.Handle(http.MethodPut, "/payment_requests/{id}", payment.HandleUpdateStatus(cfg.DB, cfg.Mailer, cfg.Background), admin)
	a.Handle(http.MethodPost, "/payment_requests/stripe", payment.HandleStripeCheckout(cfg.DB, cfg.Stripe, cfg.StripeCfg), authen)
	a.Handle(http.MethodPost, "/payment_requests/stripe/capture", payment.HandleStripeCapture(cfg.DB, cfg.StripeCfg))
	a.Handle(http.MethodPost, "/payment_requests/paypal", payment.HandlePaypalCheckout(cfg.DB, cfg.Paypal), authen)
	a.Handle(http.MethodPost, "/payment_requests/paypal/{id}/capture", payment.HandlePaypalCapture(cfg.DB, cfg.Paypal), authen)

	a.Handle(http.MethodGet, "/student-orders/records/filter/", order.HandleFilter(cfg.DB), admin)
	a.Handle(http.MethodPost, "/student-orders", order.HandleCreate(cfg.DB), authen)
	a.Handle(http.MethodPost, "/student-orders/{id}", order.HandleUpdate(cfg.DB), admin)

	if cfg.Files != nil {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.Files.Root())))
		a.Router.PathPrefix("/files/").Handler(fs).Methods(http.MethodGet)
	}

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
