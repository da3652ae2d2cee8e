package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name             string     `json:"name"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	Password         string     `json:"password,omitempty"`
	Image            string     `json:"image"`
	SavedProperties  []Property `json:"saved_properties,omitempty" gorm:"many2many:saved_properties;"`
	SentMessages     []Message  `json:"sent_messages,omitempty" gorm:"foreignKey:SenderID"`
	ReceivedMessages []Message  `json:"received_messages,omitempty" gorm:"foreignKey:ReceiverID"`
}

func (u *User) SanitizePassword() {
	u.Password = ""
}

// HasSaved reports whether propertyID is among the preloaded saved properties.
func (u *User) HasSaved(propertyID uint) bool {
	for _, p := range u.SavedProperties {
		if p.ID == propertyID {
			return true
		}
	}
	return false
}
