// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory stores and a miniredis token store,
// so no external services are needed.
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"proviewz/internal/engagement"
	"proviewz/internal/middleware"
	"proviewz/internal/notify"
	"proviewz/internal/service"
	"proviewz/internal/session"
	"proviewz/internal/store/memory"
)

// testEnv wires every handler group the way the router does.
type testEnv struct {
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens := session.NewStore(client, "handler-test-secret", time.Hour)
	dispatcher := notify.NewDispatcher(memory.NewNotificationStore(), nil)
	users := memory.NewUserStore()
	postSvc := service.NewPostService(memory.NewPostStore(), users, nil, dispatcher, engagement.New(engagement.RatingOverwrite), nil)
	userSvc := service.NewUserService(users, tokens)

	posts := NewPosts(postSvc)
	notes := NewNotifications(dispatcher)
	auth := NewAuth(userSvc)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(tokens))
	r.Post("/auth/register", auth.Register)
	r.Post("/auth/login", auth.Login)
	r.Post("/auth/logout", auth.Logout)
	r.Get("/auth/me", auth.Me)
	r.Get("/users/{id}", auth.GetUser)
	r.Put("/users/{id}", auth.UpdateUser)
	r.Delete("/users/{id}", auth.DeleteUser)
	r.Get("/posts", posts.List)
	r.Get("/posts/categories", posts.Categories)
	r.Post("/posts", posts.Create)
	r.Get("/posts/{id}", posts.Get)
	r.Put("/posts/{id}", posts.Update)
	r.Delete("/posts/{id}", posts.Delete)
	r.Post("/posts/{id}/like", posts.Like)
	r.Post("/posts/{id}/comment", posts.Comment)
	r.Post("/posts/{id}/rate", posts.Rate)
	r.Get("/notifications", notes.List)
	r.Get("/notifications/unread-count", notes.UnreadCount)
	r.Post("/notifications/{id}/read", notes.MarkRead)

	return &testEnv{handler: r}
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into dst.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

type authResponse struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Token string `json:"token"`
}

// registerUser creates an account and returns its ID and token.
func (e *testEnv) registerUser(t *testing.T, email string) (string, string) {
	t.Helper()
	return e.registerNamed(t, email, "Test User")
}

// registerNamed is registerUser with a display name.
func (e *testEnv) registerNamed(t *testing.T, email, name string) (string, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "hunter22",
		"name":     name,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got %d: %s", email, rec.Code, rec.Body.String())
	}
	var res authResponse
	decode(t, rec, &res)
	return res.User.ID, res.Token
}

type postResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	AuthorID      string            `json:"author_id"`
	Author        *personResponse   `json:"author"`
	Likes         []string          `json:"likes"`
	Comments      []commentResponse `json:"comments"`
	Ratings       map[string]int    `json:"ratings"`
	AverageRating float64           `json:"average_rating"`
	RatingCount   int               `json:"rating_count"`
}

type commentResponse struct {
	ID      string          `json:"id"`
	UserID  string          `json:"user_id"`
	User    *personResponse `json:"user"`
	Comment string          `json:"comment"`
}

type personResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// createPost publishes a post as the token's owner.
func (e *testEnv) createPost(t *testing.T, token string) postResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/posts", token, map[string]any{
		"title":       "Headphones review",
		"description": "Great noise cancelling.",
		"category":    "audio",
		"pros":        []string{"anc"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: got %d: %s", rec.Code, rec.Body.String())
	}
	var p postResponse
	decode(t, rec, &p)
	return p
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}
