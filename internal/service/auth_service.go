package service

import (
	"context"
	"fmt"
	"strings"

	"pm-go/internal/config"
	"pm-go/internal/dto"
	"pm-go/internal/models"
	"pm-go/internal/repository"
	"pm-go/internal/session"
	"pm-go/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const invalidCredentialsMsg = "Invalid username or password"

// dummyHash is compared against when the username is unknown so both
// failure paths pay one bcrypt comparison
var dummyHash string

func init() {
	hash, err := utils.HashPassword("pm-go-timing-equalizer")
	if err != nil {
		panic(fmt.Sprintf("hash login timing equalizer: %v", err))
	}
	dummyHash = hash
}

// AuthService registration, login and logout
type AuthService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	sessions *session.Manager
	cfg      *config.Config
}

// NewAuthService creates an AuthService
func NewAuthService(db *gorm.DB, sessions *session.Manager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:       db,
		userRepo: repository.NewUserRepository(db),
		sessions: sessions,
		cfg:      cfg,
	}
}

// Register creates an account with a unique username and email
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	role := models.RoleUser
	if req.Role != nil && strings.TrimSpace(*req.Role) != "" {
		role = *req.Role
	}
	fields := UserFields{Username: req.Username, Email: req.Email, Name: req.Name, Role: role}
	violations := ValidateUser(fields)
	if strings.TrimSpace(req.Password) == "" {
		violations = append(violations, utils.Violation{Field: "password", Message: "password is required"})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Message: "Missing required fields", Violations: violations}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, &PersistenceError{Op: "hash password", Err: err}
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Email:        req.Email,
		Name:         req.Name,
		Role:         role,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		taken, err := users.ExistsByUsername(req.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: "Username already exists"}
		}
		taken, err = users.ExistsByEmail(req.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: "Email already exists"}
		}
		return users.Create(&user)
	})
	if err != nil {
		return nil, storeError("register user", err, "Username or email already exists")
	}

	return &dto.RegisterResponse{
		Message: "User registered successfully",
		User:    dto.NewUserInfo(&user),
	}, nil
}

// Login checks credentials and opens a session; the token is the cookie value
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, string, error) {
	if req.Username == "" || req.Password == "" {
		return nil, "", &ValidationError{Message: "Username and password are required"}
	}

	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if !isRecordNotFound(err) {
			return nil, "", storeError("load user", err, "")
		}
		_ = utils.CheckPassword(req.Password, dummyHash)
		return nil, "", &AuthenticationError{Message: invalidCredentialsMsg}
	}
	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, "", &AuthenticationError{Message: invalidCredentialsMsg}
	}

	token, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, "", &PersistenceError{Op: "start session", Err: err}
	}

	return &dto.LoginResponse{
		Message: "Login successful",
		User:    dto.NewUserInfo(user),
	}, token, nil
}

// Logout destroys the session behind token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.End(ctx, token); err != nil {
		return &PersistenceError{Op: "end session", Err: err}
	}
	return nil
}

// InitAdmin creates the configured administrator when no admin exists
func (s *AuthService) InitAdmin() error {
	admin, err := s.userRepo.GetAdmin()
	if err == nil && admin != nil {
		return nil
	}
	if err != nil && !isRecordNotFound(err) {
		return fmt.Errorf("look up admin: %w", err)
	}
	if s.cfg.Admin.Password == "" {
		logrus.Warn("admin.password is empty, skipping admin bootstrap")
		return nil
	}

	// the configured password may already be a bcrypt hash
	passwordHash := s.cfg.Admin.Password
	if !utils.IsPasswordHash(passwordHash) {
		hashed, err := utils.HashPassword(passwordHash)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		passwordHash = hashed
	}

	user := &models.User{
		Username:     s.cfg.Admin.Username,
		PasswordHash: passwordHash,
		Email:        s.cfg.Admin.Email,
		Name:         s.cfg.Admin.Name,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logrus.WithField("username", user.Username).Info("bootstrap admin created")
	return nil
}
