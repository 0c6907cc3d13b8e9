package model

import "time"

// User is the single persisted entity. username/email/idnumber carry
// unique indexes so the insert itself is the authoritative uniqueness
// check under concurrent registrations.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	IDNumber     string    `gorm:"column:idnumber;uniqueIndex;not null;size:13" json:"idnumber"`
	Gender       string    `gorm:"size:20" json:"gender"`
	PhoneNumber  string    `gorm:"column:phonenumber;not null;size:15" json:"phonenumber"`
	PasswordHash string    `gorm:"column:password_hash;not null;size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
