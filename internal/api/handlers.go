package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AUDL2018/tiny-message-api/internal/auth"
	"github.com/AUDL2018/tiny-message-api/internal/metrics"
	"github.com/AUDL2018/tiny-message-api/internal/model"
	"github.com/AUDL2018/tiny-message-api/internal/storage"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(a.countRequests)

	guard := auth.NewGuard(a.Sessions)

	// Public
	r.Post("/signup", a.Signup)
	r.Post("/login", a.Login)
	r.Get("/messages", a.ListMessages)
	r.Get("/messages/{messageID}", a.GetMessage)
	r.Get("/users/{userID}/messages", a.ListUserMessages)

	// Secured
	r.With(guard.RequireSession).Get("/messages/generate", a.GenerateMessage)

	// Operational
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

func (a *API) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}

// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Credentials"
// @Success 200 {object} messageResponse
// @Failure 422 {object} messageResponse
// @Router /signup [post]
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{"An error accured"})
		return
	}

	if _, err := a.Store.CreateUser(r.Context(), req.Username, req.Password); err != nil {
		log.Printf("API: signup failed: %v", err)
		// The misspelling is part of the API contract.
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{"An error accured"})
		return
	}

	metrics.UsersRegistered.Inc()
	writeJSON(w, http.StatusOK, messageResponse{"You have been registered"})
}

// @Summary Authenticate and establish a session
// @Tags Users
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "Credentials"
// @Success 200 {object} messageResponse
// @Failure 422 {object} messageResponse
// @Router /login [post]
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{"Invalid login"})
		return
	}

	user, err := a.Store.FindUserByCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("API: login lookup failed: %v", err)
		}
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{"Invalid login"})
		return
	}

	token := a.Sessions.NewToken()
	a.Sessions.Establish(token, user.ID)

	signed, err := auth.SignToken(token)
	if err != nil {
		log.Printf("API: failed to sign session token: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{"Internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
	})

	metrics.ActiveSessions.Inc()
	writeJSON(w, http.StatusOK, messageResponse{"OK"})
}

// @Summary List all messages
// @Tags Messages
// @Produce json
// @Success 200 {array} model.Message
// @Router /messages [get]
func (a *API) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := a.Store.ListMessages(r.Context())
	if err != nil {
		log.Printf("API: list messages failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{"Internal error"})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(messages))
}

// @Summary Generate a random message owned by the session's user
// @Tags Messages
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} model.Message
// @Router /messages/generate [get]
func (a *API) GenerateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r)
	if !ok {
		writeJSON(w, http.StatusOK, messageResponse{"You need to be authenticated!"})
		return
	}

	text := fmt.Sprintf("Hello %d", rand.Intn(9999999))

	msg, err := a.Store.CreateMessage(r.Context(), text, userID)
	if err != nil {
		log.Printf("API: generate message failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{"Internal error"})
		return
	}

	metrics.MessagesGenerated.Inc()
	writeJSON(w, http.StatusOK, msg)
}

// @Summary Get a message by id
// @Tags Messages
// @Produce json
// @Param message_id path int true "Message id"
// @Success 200 {object} model.Message
// @Failure 404 {object} messageResponse
// @Router /messages/{message_id} [get]
func (a *API) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "messageID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{"Not found"})
		return
	}

	msg, err := a.Store.GetMessage(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, messageResponse{"Not found"})
		return
	}
	if err != nil {
		log.Printf("API: get message failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{"Internal error"})
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// @Summary List messages owned by a user
// @Tags Messages
// @Produce json
// @Param id path int true "User id"
// @Success 200 {array} model.Message
// @Router /users/{id}/messages [get]
func (a *API) ListUserMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusOK, []model.Message{})
		return
	}

	messages, err := a.Store.ListMessagesByUser(r.Context(), userID)
	if err != nil {
		log.Printf("API: list user messages failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{"Internal error"})
		return
	}
	writeJSON(w, http.StatusOK, nonNil(messages))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: failed to write response: %v", err)
	}
}

// nonNil keeps empty listings rendering as [] instead of null.
func nonNil(messages []model.Message) []model.Message {
	if messages == nil {
		return []model.Message{}
	}
	return messages
}
