package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                   uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                 string     `json:"name" gorm:"size:100;not null"`
	Email                string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password             string     `json:"-" gorm:"size:100;not null"`
	Role                 Role       `json:"role" gorm:"type:varchar(10);default:'user'"`
	Cart                 []CartItem `json:"cart,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PasswordResetToken   string     `json:"-" gorm:"index;size:64"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type CartItem struct {
	ID        uint64   `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uint64   `json:"-" gorm:"index;not null"`
	ProductID uint64   `json:"productId" gorm:"not null"`
	Quantity  int64    `json:"quantity" gorm:"not null"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
