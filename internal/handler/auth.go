package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
	"deadline_tracker/pkg/ctxdata"
)

type UserService interface {
	Register(ctx context.Context, input *model.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input *model.LoginInput) (*model.User, string, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", Handle(h.register, true, http.StatusCreated))
		r.Post("/login", Handle(h.login, true, http.StatusOK))

		r.With(authMiddleware).Group(func(r chi.Router) {
			r.Post("/logout", Handle(h.logout, false, http.StatusOK))
			r.Get("/profile", Handle(h.profile, false, http.StatusOK))
		})
	})
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

func (h *AuthHandler) register(ctx context.Context, _ *http.Request, req *RegisterRequest) (*RegisterResponse, error) {
	user, err := h.users.Register(ctx, &model.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{Message: "User registered successfully", User: toUserResponse(user)}, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *UserResponse `json:"user"`
}

func (h *AuthHandler) login(ctx context.Context, _ *http.Request, req *LoginRequest) (*LoginResponse, error) {
	user, token, err := h.users.Login(ctx, &model.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Message: "Login successful", Token: token, User: toUserResponse(user)}, nil
}

func (h *AuthHandler) logout(ctx context.Context, _ *http.Request, _ *struct{}) (*MessageResponse, error) {
	token, ok := ctxdata.GetSessionToken(ctx)
	if !ok {
		return nil, errdefs.ErrAuthentication
	}
	if err := h.users.Logout(ctx, token); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "Logged out successfully"}, nil
}

type ProfileResponse struct {
	User *UserResponse `json:"user"`
}

func (h *AuthHandler) profile(ctx context.Context, _ *http.Request, _ *struct{}) (*ProfileResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{User: toUserResponse(user)}, nil
}
