package model

import "gorm.io/gorm"

type Message struct {
	gorm.Model
	Message    string    `json:"message" gorm:"not null"`
	SenderID   uint      `json:"sender_id" gorm:"index"`
	Sender     *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	ReceiverID uint      `json:"receiver_id" gorm:"index"`
	Receiver   *User     `json:"receiver,omitempty" gorm:"foreignKey:ReceiverID"`
	PropertyID uint      `json:"property_id" gorm:"index"`
	Property   *Property `json:"property,omitempty"`
}
