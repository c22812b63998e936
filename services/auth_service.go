// services/auth_service.go - Identity lifecycle
package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jleboube/scout/models"
)

var (
	ErrInvalidCode        = errors.New("invalid registration code")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// DefaultRegistrationCodes gates new-user signup. Any valid code is reusable
// indefinitely; override the set with the REGISTRATION_CODES env value.
var DefaultRegistrationCodes = []string{"SCOUT2025", "BASEBALL123", "MTOWN2025"}

type AuthService struct {
	db    *gorm.DB
	codes map[string]bool
}

func NewAuthService(db *gorm.DB, codes []string) *AuthService {
	accepted := make(map[string]bool, len(codes))
	for _, code := range codes {
		accepted[code] = true
	}
	return &AuthService{db: db, codes: accepted}
}

// Register creates a new user. The raw password is bcrypt-hashed (cost 10)
// before storage and never persisted or logged.
func (s *AuthService) Register(email, password string, teamID *uint, code string) (*models.User, error) {
	if !s.codes[code] {
		return nil, ErrInvalidCode
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// Team existence is deliberately not validated; a stale teamId is stored
	// as given.
	user := models.User{
		Email:            email,
		Password:         string(hashed),
		TeamID:           teamID,
		RegistrationCode: code,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &user, nil
}

// Login verifies credentials. Unknown email and wrong password yield the
// same ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// CurrentUser loads a user joined with its team name for display.
func (s *AuthService) CurrentUser(userID uint) (*models.UserProfile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	profile := models.UserProfile{
		ID:    user.ID,
		Email: user.Email,
	}

	if user.TeamID != nil {
		var team models.Team
		if err := s.db.First(&team, *user.TeamID).Error; err == nil {
			profile.TeamName = team.Name
		}
	}

	return &profile, nil
}
