package models

import "time"

// Question is one entry of the trivia bank. Author and Username describe the
// chat user who submitted it; Username may be empty.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Author    string    `gorm:"size:255" json:"author"`
	Username  string    `gorm:"size:255" json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
