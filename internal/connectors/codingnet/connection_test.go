package codingnet

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/core/domain"
)

func TestConnection_StatusClassification(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message":"Forbidden","code":0}`)
	})
	mux.HandleFunc("/unauthorized", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, ``)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/invalid", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed","errors":[{"code":"already_exists"}]}`)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadGateway, `<html>`)
	})
	srv := newServer(t, mux)
	conn := newConn(t, domain.NewAnonymousAuth(srv.URL))
	ctx := context.Background()

	t.Run("403 is not authenticated with the body message", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/forbidden")

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, KindNotAuthenticated, authErr.Kind)
		assert.Equal(t, http.StatusForbidden, authErr.Status)
		assert.Contains(t, authErr.Message, "Forbidden")
		assert.True(t, IsForbidden(err))
		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("401 without body", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/unauthorized")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Request response: Unauthorized", authErr.Message)
	})

	t.Run("404 is a status error", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/missing")
		assert.True(t, IsNotFound(err))
		assert.False(t, IsAuthentication(err))
	})

	t.Run("422 carries the parsed body", func(t *testing.T) {
		_, err := conn.PostRequest(ctx, "/invalid", map[string]string{"name": "x"})
		var statusErr *StatusCodeError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
		assert.True(t, statusErr.Body.ContainsErrorCode("already_exists"))
	})

	t.Run("other status without JSON", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/broken")
		var statusErr *StatusCodeError
		require.ErrorAs(t, err, &statusErr)
		assert.Nil(t, statusErr.Body)
		assert.Equal(t, srv.URL+"/broken", statusErr.URL)
	})
}

func TestConnection_Bodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/captcha", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":903,"msg":{"j_captcha":"need captcha"}}`)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"code":`)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/null", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `null`)
	})
	mux.HandleFunc("/paged", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Link", `<https://coding.net/x?page=2>; rel="next"`)
		writeJSON(w, http.StatusOK, `{"code":0}`)
	})
	mux.HandleFunc("/badlink", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Link", `https://coding.net/x?page=2; rel="next"`)
		writeJSON(w, http.StatusOK, `{"code":0}`)
	})
	srv := newServer(t, mux)
	conn := newConn(t, domain.NewAnonymousAuth(srv.URL))
	ctx := context.Background()

	t.Run("application code on 200", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/captcha")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "need captcha", authErr.Message)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := conn.GetRequest(ctx, "/garbage")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("empty and null bodies", func(t *testing.T) {
		resp, err := conn.GetRequest(ctx, "/empty")
		require.NoError(t, err)
		assert.Nil(t, resp.Body)
		assert.ErrorIs(t, resp.Decode(&struct{}{}), domain.ErrMalformedResponse)

		resp, err = conn.GetRequest(ctx, "/null")
		require.NoError(t, err)
		assert.Nil(t, resp.Body)
	})

	t.Run("next link", func(t *testing.T) {
		resp, err := conn.GetRequest(ctx, "/paged")
		require.NoError(t, err)
		assert.Equal(t, "https://coding.net/x?page=2", resp.Next)
	})

	t.Run("malformed link means no next page", func(t *testing.T) {
		resp, err := conn.GetRequest(ctx, "/badlink")
		require.NoError(t, err)
		assert.Empty(t, resp.Next)
	})

	t.Run("absolute URL is used as is", func(t *testing.T) {
		resp, err := conn.GetRequest(ctx, srv.URL+"/paged")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Next)
	})
}

func TestConnection_AuthHeaders(t *testing.T) {
	type seen struct {
		auth, otp, cookie, accept, agent, contentType, body string
	}
	got := make(chan seen, 1)
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{
			auth:        r.Header.Get("Authorization"),
			otp:         r.Header.Get(HeaderOTP),
			accept:      r.Header.Get("Accept"),
			agent:       r.Header.Get("User-Agent"),
			contentType: r.Header.Get("Content-Type"),
		}
		if c, err := r.Cookie(SessionCookie); err == nil {
			s.cookie = c.Value
		}
		data, _ := io.ReadAll(r.Body)
		s.body = string(data)
		got <- s
		writeJSON(w, http.StatusOK, `{}`)
	}))
	ctx := context.Background()

	t.Run("token", func(t *testing.T) {
		conn := newConn(t, domain.NewTokenAuth(srv.URL, " abc ", false))
		_, err := conn.GetRequest(ctx, "/user")
		require.NoError(t, err)

		s := <-got
		assert.Equal(t, "token abc", s.auth)
		assert.Equal(t, "application/json", s.accept)
		assert.Equal(t, DefaultUserAgent, s.agent)
		assert.Empty(t, s.cookie)
	})

	t.Run("basic with session", func(t *testing.T) {
		auth := domain.NewBasicAuth(srv.URL, "alice", "pw", true).WithSessionID("sid-1")
		conn := newConn(t, auth)
		_, err := conn.PostRequest(ctx, "/x", map[string]int{"a": 1}, AcceptHTMLBody)
		require.NoError(t, err)

		s := <-got
		assert.Equal(t, "Basic YWxpY2U6cHc=", s.auth)
		assert.Equal(t, "sid-1", s.otp)
		assert.Equal(t, "sid-1", s.cookie)
		assert.Equal(t, AcceptHTMLBody.Value, s.accept)
		assert.Contains(t, s.contentType, "application/json")
		assert.JSONEq(t, `{"a":1}`, s.body)
	})

	t.Run("anonymous", func(t *testing.T) {
		conn := newConn(t, domain.NewAnonymousAuth(srv.URL))
		_, err := conn.GetRequest(ctx, "/user")
		require.NoError(t, err)
		assert.Empty(t, (<-got).auth)
	})
}

func TestConnection_SessionCookie(t *testing.T) {
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "other", Value: "x"})
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "fresh", Path: "/"})
		writeJSON(w, http.StatusOK, `{"code":0}`)
	}))

	resp, err := newConn(t, domain.NewAnonymousAuth(srv.URL)).GetRequest(context.Background(), "/")
	require.NoError(t, err)

	sid, ok := resp.SessionCookie()
	assert.True(t, ok)
	assert.Equal(t, "fresh", sid)

	_, ok = (&Response{Header: http.Header{}}).SessionCookie()
	assert.False(t, ok)
}

func TestConnection_SingleShot(t *testing.T) {
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	conn, err := NewConnection(domain.NewAnonymousAuth(srv.URL), ConnectionConfig{})
	require.NoError(t, err)

	_, err = conn.GetRequest(context.Background(), "/")
	require.NoError(t, err)

	_, err = conn.GetRequest(context.Background(), "/")
	assert.ErrorIs(t, err, domain.ErrConnectionClosed)
}

func TestConnection_Close(t *testing.T) {
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	conn := newConn(t, domain.NewAnonymousAuth(srv.URL))
	require.NoError(t, conn.Close())

	_, err := conn.GetRequest(context.Background(), "/")
	assert.ErrorIs(t, err, domain.ErrConnectionClosed)
}

func TestConnection_Abort(t *testing.T) {
	t.Run("before the call", func(t *testing.T) {
		conn := newConn(t, domain.NewAnonymousAuth("http://127.0.0.1:1"))
		conn.Abort()
		conn.Abort()

		_, err := conn.GetRequest(context.Background(), "/")
		assert.True(t, IsCanceled(err))
		assert.True(t, conn.Aborted())
	})

	t.Run("during the call", func(t *testing.T) {
		arrived := make(chan struct{})
		srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(arrived)
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		conn := newConn(t, domain.NewAnonymousAuth(srv.URL))

		go func() {
			<-arrived
			conn.Abort()
		}()

		_, err := conn.GetRequest(context.Background(), "/")
		assert.True(t, IsCanceled(err))
		assert.ErrorIs(t, err, domain.ErrCanceled)

		_, err = conn.GetRequest(context.Background(), "/")
		assert.True(t, IsCanceled(err))
	})
}

func TestConnection_ContextCanceled(t *testing.T) {
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	}))
	conn := newConn(t, domain.NewAnonymousAuth(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := conn.GetRequest(ctx, "/")
	assert.True(t, IsCanceled(err))
}

func TestConnection_HeadRequest(t *testing.T) {
	srv := newServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set(HeaderOAuthScopes, "repo, gist")
		w.WriteHeader(http.StatusOK)
	}))

	h, err := newConn(t, domain.NewAnonymousAuth(srv.URL)).HeadRequest(context.Background(), "/user")
	require.NoError(t, err)
	assert.Equal(t, "repo, gist", h.Get(HeaderOAuthScopes))
}

func TestNewConnection_NilAuth(t *testing.T) {
	_, err := NewConnection(nil, ConnectionConfig{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
