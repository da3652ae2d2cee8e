package repository

import (
	"context"

	"gorm.io/gorm"

	"tush00nka/dream_homes/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListForReceiver(ctx context.Context, receiverID uint) ([]model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListForReceiver(ctx context.Context, receiverID uint) ([]model.Message, error) {
	var messages []model.Message

	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Property").
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return messages, nil
}
