package codingnet

import (
	"context"
	"fmt"
	"strings"

	"github.com/coding/coding-cli/internal/core/domain"
)

// HeaderOAuthScopes lists the scopes granted to the calling token.
const HeaderOAuthScopes = "X-OAuth-Scopes"

// GetCurrentUser returns the account behind the connection.
func GetCurrentUser(ctx context.Context, exec Executor) (domain.User, error) {
	u, err := get(ctx, exec, "/user", convertUser, AcceptJSON)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user info: %w", err)
	}
	return u, nil
}

// GetCurrentUserDetailed logs in with basic credentials, or verifies the
// two-factor code when one is set. It returns the session id the server
// issued. When the server asks for a two-factor code the error is an
// *AuthError of a step-up kind carrying that session id.
//
// Token credentials are checked against /user instead.
func GetCurrentUserDetailed(ctx context.Context, exec Executor, auth *domain.AuthData) (domain.UserDetailed, string, error) {
	if auth == nil {
		return domain.UserDetailed{}, "", &AuthError{Kind: KindNotAuthenticated, Message: "no credentials"}
	}

	basic, ok := auth.Basic()
	if !ok {
		if auth.Type() != domain.AuthTypeToken {
			return domain.UserDetailed{}, "", &AuthError{Kind: KindNotAuthenticated, Message: "authentication required"}
		}
		u, err := get(ctx, exec, "/user", convertUserDetailed, AcceptJSON)
		if err != nil {
			return domain.UserDetailed{}, "", fmt.Errorf("get user info: %w", err)
		}
		return u, "", nil
	}

	path, err := loginPath(basic)
	if err != nil {
		return domain.UserDetailed{}, "", err
	}

	resp, err := exec.Execute(ctx, Request{
		Verb:        VerbPost,
		Path:        path,
		Headers:     []Header{AcceptJSON},
		AllowStepUp: true,
	})
	if err != nil {
		return domain.UserDetailed{}, "", fmt.Errorf("get user info: %w", err)
	}

	sid, _ := resp.SessionCookie()
	taxonomy := taxonomyOf(exec)
	if code, ok := resp.Code(); ok && taxonomy.Lookup(code).Kind == KindStepUpRequired {
		stepUp := taxonomy.Classify(resp.Body, false)
		if authErr, ok := stepUp.(*AuthError); ok {
			authErr.SessionID = sid
			return domain.UserDetailed{}, sid, authErr
		}
	}

	user, err := decodeInto(resp, convertUserDetailed)
	if err != nil {
		return domain.UserDetailed{}, "", fmt.Errorf("get user info: %w", err)
	}
	return user, sid, nil
}

// taxonomyOf returns the taxonomy exec classifies with, or the default one
// when exec does not carry its own.
func taxonomyOf(exec Executor) *Taxonomy {
	if c, ok := exec.(interface{ Taxonomy() *Taxonomy }); ok && c.Taxonomy() != nil {
		return c.Taxonomy()
	}
	return DefaultTaxonomy()
}

func loginPath(basic domain.BasicAuth) (string, error) {
	if basic.StepUpCode != "" {
		q, err := EncodeQuery(stepUpQuery{Code: basic.StepUpCode})
		if err != nil {
			return "", err
		}
		return withQuery("/api/check_two_factor_auth_code", q), nil
	}
	q, err := EncodeQuery(loginQuery{
		Account:  basic.Login,
		Password: PasswordHash(basic.Password),
	})
	if err != nil {
		return "", err
	}
	return withQuery("/api/v2/account/login", q), nil
}

// GetTokenScopes returns the scopes of the token the connection uses.
func GetTokenScopes(ctx context.Context, exec Executor) ([]string, error) {
	resp, err := exec.Execute(ctx, Request{Verb: VerbHead, Path: "/user", Headers: []Header{AcceptJSON}})
	if err != nil {
		return nil, fmt.Errorf("get token scopes: %w", err)
	}
	values := resp.Header.Values(HeaderOAuthScopes)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no scopes header", domain.ErrMalformedResponse)
	}

	scopes := []string{}
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				scopes = append(scopes, s)
			}
		}
	}
	return scopes, nil
}

// AskForTwoFactorCodeSMS triggers delivery of a two-factor code by SMS.
// The server answers with an error either way, so only transport
// failures are reported.
func AskForTwoFactorCodeSMS(ctx context.Context, exec Executor) error {
	_, err := exec.Execute(ctx, Request{Verb: VerbPost, Path: "/authorizations", Headers: []Header{AcceptJSON}})
	if err == nil || IsAuthentication(err) || IsStatusCode(err) {
		return nil
	}
	return err
}
