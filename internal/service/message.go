package service

import (
	"context"
	"log"
	"strings"

	"tush00nka/dream_homes/internal/model"
	"tush00nka/dream_homes/internal/repository"
)

const EventTypeMessage = "message"

type messageService struct {
	messageRepo repository.MessageRepository
	notifier    Notifier
}

// NewMessageService creates a MessageService. notifier may be nil.
func NewMessageService(messageRepo repository.MessageRepository, notifier Notifier) MessageService {
	return &messageService{messageRepo: messageRepo, notifier: notifier}
}

func (s *messageService) SendMessage(ctx context.Context, text string, senderID, propertyID, receiverID uint) *model.Message {
	text = strings.TrimSpace(text)
	if text == "" || senderID == 0 || propertyID == 0 || receiverID == 0 {
		log.Printf("Error sending message: invalid input")
		return nil
	}
	if senderID == receiverID {
		log.Printf("Error sending message: sender and receiver must differ")
		return nil
	}

	msg := &model.Message{
		Message:    text,
		SenderID:   senderID,
		PropertyID: propertyID,
		ReceiverID: receiverID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		log.Printf("Error sending message: %v", err)
		return nil
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(receiverID, EventTypeMessage, msg)
	}
	return msg
}

func (s *messageService) Inbox(ctx context.Context, userID uint) []model.Message {
	if userID == 0 {
		return []model.Message{}
	}

	messages, err := s.messageRepo.ListForReceiver(ctx, userID)
	if err != nil {
		log.Printf("Error fetching messages: %v", err)
		return []model.Message{}
	}
	for i := range messages {
		if messages[i].Sender != nil {
			messages[i].Sender.SanitizePassword()
		}
	}
	if messages == nil {
		return []model.Message{}
	}
	return messages
}
