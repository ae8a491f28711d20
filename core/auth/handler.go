package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"
	"institute/core/student"
	"institute/core/user"
	"institute/database"
	"institute/rate"
	"institute/validate"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type SignupNew struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	District        string `json:"district"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Session is the login response: the token doubles as the session cookie
// value and the bearer token non-browser clients attach to later requests.
type Session struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
	User   user.User `json:"user"`
}

// HandleSignup registers a student together with their login account.
func HandleSignup(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var sn SignupNew
		if err := web.Decode(w, r, &sn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(sn); err != nil {
			return weberr.Unprocessable(err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(sn.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		now := time.Now().UTC()

		std := student.Student{
			ID:        validate.GenerateID(),
			Number:    student.GenerateNumber(),
			Name:      sn.Name,
			Email:     sn.Email,
			Phone:     sn.Phone,
			District:  sn.District,
			CreatedAt: now,
			UpdatedAt: now,
		}

		usr := user.User{
			ID:           validate.GenerateID(),
			Email:        sn.Email,
			Name:         sn.Name,
			Role:         claims.RoleStudent,
			StudentID:    &std.ID,
			Active:       true,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err = database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := student.Create(ctx, tx, std); err != nil {
				return fmt.Errorf("creating student: %w", err)
			}
			if err := user.Create(ctx, tx, usr); err != nil {
				return fmt.Errorf("creating user: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("registering student %s: %w", sn.Email, err)
		}

		return web.Respond(ctx, w, usr, http.StatusCreated)
	}
}

// HandleLogin authenticates the user and opens a fresh session. Failed
// attempts count against a per-email rate limit so passwords cannot be
// brute forced through this endpoint.
func HandleLogin(db *sqlx.DB, session *scs.SessionManager, limiter *rate.Limiter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var ul user.UserLogin
		if err := web.Decode(w, r, &ul); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(ul); err != nil {
			return weberr.Unprocessable(err)
		}

		if !limiter.Check(ul.Email) {
			err := errors.New("too many login attempts")
			return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
		}

		usr, err := user.FetchByEmail(ctx, db, ul.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotAuthorized(errors.New("invalid credentials"))
			}
			return fmt.Errorf("fetching user for login: %w", err)
		}

		if !usr.Active {
			return weberr.NotAuthorized(errors.New("account is not active"))
		}

		if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(ul.Password)); err != nil {
			return weberr.NotAuthorized(errors.New("invalid credentials"))
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}

		session.Put(ctx, userIDKey, usr.ID)
		session.Put(ctx, roleKey, usr.Role)
		if usr.StudentID != nil {
			session.Put(ctx, studentIDKey, *usr.StudentID)
		}

		token, expiry, err := session.Commit(ctx)
		if err != nil {
			return fmt.Errorf("committing session: %w", err)
		}

		session.WriteSessionCookie(ctx, w, token, expiry)

		return web.Respond(ctx, w, Session{Token: token, Expiry: expiry, User: usr}, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		session.WriteSessionCookie(ctx, w, "", time.Time{})

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// EnsureAdmin seeds the configured administrator account if it is missing.
func EnsureAdmin(ctx context.Context, db *sqlx.DB, email, password string) error {
	if password == "" {
		return nil
	}

	_, err := user.FetchByEmail(ctx, db, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now().UTC()
	usr := user.User{
		ID:           validate.GenerateID(),
		Email:        email,
		Name:         "Administrator",
		Role:         claims.RoleAdmin,
		Active:       true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Create(ctx, db, usr); err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}

	return nil
}
