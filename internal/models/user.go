package models

// User is a registered account. HashedPassword is never serialised.
type User struct {
	ID             uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string  `json:"username" gorm:"uniqueIndex;type:varchar(50);not null"`
	Email          string  `json:"email" gorm:"uniqueIndex;type:varchar(100);not null"`
	FirstName      string  `json:"first_name" gorm:"type:varchar(50)"`
	LastName       string  `json:"last_name" gorm:"type:varchar(50)"`
	HashedPassword string  `json:"-" gorm:"type:varchar(255);not null"`
	Role           string  `json:"role" gorm:"type:varchar(50);default:user"`
	IsActive       bool    `json:"is_active" gorm:"default:true"`
	PhoneNumber    *string `json:"phone_number" gorm:"type:varchar(15)"`
}

// TableName pins the table name used by migrations.
func (User) TableName() string {
	return "users"
}
