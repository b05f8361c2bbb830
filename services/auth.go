package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"faculty-hub/models"
)

// Claims is the identity payload carried by issued tokens.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates identity tokens and manages account
// credentials.
type AuthService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	secret []byte
	expiry time.Duration
}

// NewAuthService creates a new AuthService. The expiry string uses
// time.ParseDuration syntax; invalid values fall back to one hour.
func NewAuthService(db *gorm.DB, logger *zap.Logger, secret, expiry string) *AuthService {
	d, err := time.ParseDuration(expiry)
	if err != nil || d <= 0 {
		d = time.Hour
	}
	return &AuthService{DB: db, Logger: logger, secret: []byte(secret), expiry: d}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *AuthService) Register(email, password, profileImg, role string) (*models.User, error) {
	var fields []FieldError
	if email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "Email is required"})
	}
	if password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "Password is required"})
	}
	if role == "" {
		fields = append(fields, FieldError{Field: "role", Message: "Role is required"})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Errors: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, Password: string(hash), ProfileImg: profileImg, Role: role}
	if err := s.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, badRequestf("email already registered")
		}
		return nil, err
	}
	return &user, nil
}

// Login verifies the credentials and returns a signed identity token.
func (s *AuthService) Login(email, password string) (string, error) {
	var fields []FieldError
	if email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "Email is required"})
	}
	if password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return "", &ValidationError{Errors: fields}
	}

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", badRequestf("user not found")
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", badRequestf("invalid password")
	}

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken parses and validates an identity token.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
