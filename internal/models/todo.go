package models

// Todo is a task owned by exactly one user.
type Todo struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:varchar(100)"`
	Priority    int    `json:"priority" gorm:"not null"`
	Complete    bool   `json:"complete" gorm:"default:false"`
	OwnerID     uint   `json:"owner_id" gorm:"index;not null"`
	Owner       *User  `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name used by migrations.
func (Todo) TableName() string {
	return "todos"
}

// TodoUpdate carries the fields a caller may change on a todo. ID and OwnerID
// are deliberately absent.
type TodoUpdate struct {
	Title       string
	Description string
	Priority    int
	Complete    bool
}

// Columns returns the update as a column map, so zero values such as
// Complete=false are written too.
func (u TodoUpdate) Columns() map[string]interface{} {
	return map[string]interface{}{
		"title":       u.Title,
		"description": u.Description,
		"priority":    u.Priority,
		"complete":    u.Complete,
	}
}

// Apply copies the update onto t.
func (u TodoUpdate) Apply(t *Todo) {
	t.Title = u.Title
	t.Description = u.Description
	t.Priority = u.Priority
	t.Complete = u.Complete
}
