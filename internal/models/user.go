package models

import "time"

type User struct {
	ID           uint   `gorm:"primarykey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	FirstName    string `gorm:"size:50;not null"`
	LastName     string `gorm:"size:50;not null"`
	Role         string `gorm:"size:20;default:'user'"`
	Active       bool   `gorm:"not null;default:true"`
	TokenVersion int    `gorm:"default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is used as the holder name on newly issued cards.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
