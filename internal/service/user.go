package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/pkg/auth"
	"tush00nka/dream_homes/internal/repository"
)

const (
	StatusSaved   = "Property saved"
	StatusUnsaved = "Property unsaved"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type SaveResult struct {
	Status string      `json:"status"`
	User   *model.User `json:"user"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, errors.New("email is invalid")
	}
	email = addr.Address
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Name: name, Email: email, Password: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.SanitizePassword()
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	user.SanitizePassword()
	return user, nil
}

// GetUser returns the user with saved listings and received messages.
func (s *userService) GetUser(ctx context.Context, id uint) *model.User {
	if id == 0 {
		return nil
	}

	user, err := s.userRepo.FindWithRelations(ctx, id)
	if err != nil {
		log.Printf("Error fetching user: %v", err)
		return nil
	}

	user.SanitizePassword()
	for i := range user.ReceivedMessages {
		if sender := user.ReceivedMessages[i].Sender; sender != nil {
			sender.SanitizePassword()
		}
		if receiver := user.ReceivedMessages[i].Receiver; receiver != nil {
			receiver.SanitizePassword()
		}
	}
	return user
}

// ToggleSaved saves the listing for the user, or unsaves it if already saved.
func (s *userService) ToggleSaved(ctx context.Context, propertyID uint, email string) *SaveResult {
	if propertyID == 0 {
		return nil
	}

	user, err := s.userRepo.FindWithSaved(ctx, email)
	if err != nil {
		log.Printf("Error saving property: user doesn't exist: %v", err)
		return nil
	}

	isSaved := user.HasSaved(propertyID)
	if isSaved {
		err = s.userRepo.UnsaveProperty(ctx, user.ID, propertyID)
	} else {
		err = s.userRepo.SaveProperty(ctx, user.ID, propertyID)
	}
	if err != nil {
		log.Printf("Error saving property: %v", err)
		return nil
	}

	updated, err := s.userRepo.FindWithSaved(ctx, email)
	if err != nil {
		log.Printf("Error saving property: %v", err)
		return nil
	}
	updated.SanitizePassword()

	status := StatusSaved
	if isSaved {
		status = StatusUnsaved
	}
	return &SaveResult{Status: status, User: updated}
}
