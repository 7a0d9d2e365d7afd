package domain

import "time"

type Review struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `json:"productId" gorm:"index;not null"`
	UserID    uint64    `json:"userId" gorm:"index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"size:2000"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

type CMSPage struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Title     string    `json:"title" gorm:"size:200"`
	Content   string    `json:"content" gorm:"type:text"`
	UpdatedBy uint64    `json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (CMSPage) TableName() string { return "cms_pages" }

type HeroSlide struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:200"`
	Subtitle  string    `json:"subtitle" gorm:"size:300"`
	Image     string    `json:"image"`
	Link      string    `json:"link" gorm:"size:300"`
	SortOrder int       `json:"sortOrder" gorm:"default:0;index"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
