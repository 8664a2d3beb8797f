package controllers

import (
	"context"
	"fmt"
	"time"

	"healthsync/healthsync/config"
	"healthsync/healthsync/services/triage"
	"healthsync/healthsync/sources/psql/dao"
	"healthsync/healthsync/sources/psql/models"
	"healthsync/healthsync/utils/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, &triage.ValidationError{Detail: "username, email and password are required"}
	}

	role := models.UserRole(req.Role)
	switch role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	case "":
		role = models.RolePatient
	default:
		return nil, &triage.ValidationError{Detail: "unknown role"}
	}

	existing, err := c.userDAO.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &triage.ValidationError{Detail: "username already taken"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hash),
		Role:           role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IsAvailable:    true,
	}
	if role == models.RoleDoctor {
		user.Specialization = req.Specialization
		user.Qualifications = req.Qualifications
	}
	if err := c.userDAO.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *AuthController) Login(ctx context.Context, username, password string) (string, error) {
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
