package service

import (
	"context"
	"io"

	"tush00nka/dream_homes/internal/model"
)

// Every action logs its own failures and hands back nil or an empty
// collection, so callers only branch on the result.

type PropertyService interface {
	ListProperties(ctx context.Context, filter model.PropertyFilter, order model.SortOrder, count int) []model.Property
	CreateProperty(ctx context.Context, property *model.Property, ownerID uint, images []string) *model.Property
	EditProperty(ctx context.Context, id uint, property *model.Property, images []string) *model.Property
	GetPropertyByID(ctx context.Context, id uint) *model.Property
	ListUserProperties(ctx context.Context, ownerID uint, sold *bool) []model.Property
	TogglePropertySold(ctx context.Context, id uint) string
	MarkSold(ctx context.Context, id uint) *model.Property
	SearchProperties(ctx context.Context, listingType model.ListingType, location string) []model.Property
}

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) *model.User
	ToggleSaved(ctx context.Context, propertyID uint, email string) *SaveResult
}

type MessageService interface {
	SendMessage(ctx context.Context, text string, senderID, propertyID, receiverID uint) *model.Message
	Inbox(ctx context.Context, userID uint) []model.Message
}

// ImageStorage is the external image host.
type ImageStorage interface {
	UploadFile(ctx context.Context, file io.Reader, filename, contentType string) (*model.FileMetadata, error)
}

// Notifier pushes an event to every live connection of a user.
type Notifier interface {
	NotifyUser(userID uint, eventType string, payload any)
}
