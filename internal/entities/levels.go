package entities

import "time"

// Category is a level: a titled group of words shown behind a background picture.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Picture     Media     `gorm:"embedded;embeddedPrefix:picture_" json:"picture"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Word is a single vocabulary item: a label, its pronunciation and its picture.
// A nil CategoryID means the word is uncategorized.
type Word struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"size:255;not null" json:"text"`
	Audio      Media     `gorm:"embedded;embeddedPrefix:audio_" json:"audio"`
	Image      Media     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (Word) TableName() string {
	return "words"
}
