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
	"institute/random"
	"institute/validate"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jmoiron/sqlx"
	"golang.org/x/oauth2"
)

const oauthStateKey = "oauth_state"

type Provider struct {
	conf     oauth2.Config
	verifier *oidc.IDTokenVerifier
}

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// MakeProviders discovers the configured OIDC issuers. Providers with no
// client id are skipped so a deployment can run without OAuth at all.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider)

	for _, c := range cfgs {
		if c.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, c.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider %s: %w", c.Name, err)
		}

		provs[c.Name] = Provider{
			conf: oauth2.Config{
				ClientID:     c.Client,
				ClientSecret: c.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  c.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			},
			verifier: p.Verifier(&oidc.Config{ClientID: c.Client}),
		}
	}

	return provs, nil
}

func HandleOauthLogin(session *scs.SessionManager, provs map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		prov, ok := provs[web.Param(r, "provider")]
		if !ok {
			return weberr.NotFound(errors.New("unknown oauth provider"))
		}

		state := random.String(24)
		session.Put(ctx, oauthStateKey, state)

		token, expiry, err := session.Commit(ctx)
		if err != nil {
			return fmt.Errorf("committing session: %w", err)
		}
		session.WriteSessionCookie(ctx, w, token, expiry)

		http.Redirect(w, r, prov.conf.AuthCodeURL(state), http.StatusTemporaryRedirect)
		return nil
	}
}

func HandleOauthCallback(db *sqlx.DB, session *scs.SessionManager, provs map[string]Provider, loginRedirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		prov, ok := provs[web.Param(r, "provider")]
		if !ok {
			return weberr.NotFound(errors.New("unknown oauth provider"))
		}

		state := session.PopString(ctx, oauthStateKey)
		if state == "" || state != web.Query(r, "state") {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		tok, err := prov.conf.Exchange(ctx, web.Query(r, "code"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("exchanging oauth code: %w", err))
		}

		rawID, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.BadRequest(errors.New("oauth token is missing id_token"))
		}

		idTok, err := prov.verifier.Verify(ctx, rawID)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("verifying id token: %w", err))
		}

		var profile struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idTok.Claims(&profile); err != nil {
			return fmt.Errorf("decoding id token claims: %w", err)
		}

		usr, err := fetchOrCreateByEmail(ctx, db, profile.Email, profile.Name)
		if err != nil {
			return fmt.Errorf("resolving oauth user: %w", err)
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

		http.Redirect(w, r, loginRedirectURL, http.StatusTemporaryRedirect)
		return nil
	}
}

func fetchOrCreateByEmail(ctx context.Context, db *sqlx.DB, email, name string) (user.User, error) {
	usr, err := user.FetchByEmail(ctx, db, email)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return user.User{}, err
	}

	now := time.Now().UTC()

	std := student.Student{
		ID:        validate.GenerateID(),
		Number:    student.GenerateNumber(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	usr = user.User{
		ID:        validate.GenerateID(),
		Email:     email,
		Name:      name,
		Role:      claims.RoleStudent,
		StudentID: &std.ID,
		Active:    true,

		// OAuth accounts carry no local password; an unusable hash keeps
		// password login closed for them.
		PasswordHash: "!",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = database.Transaction(db, func(tx sqlx.ExtContext) error {
		if err := student.Create(ctx, tx, std); err != nil {
			return err
		}
		return user.Create(ctx, tx, usr)
	})
	if err != nil {
		return user.User{}, err
	}

	return usr, nil
}
