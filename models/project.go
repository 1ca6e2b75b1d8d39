package models

// Project represents a known storyboard project in the registry
// database using GORM. It corresponds to the 'projects' table.
type Project struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	Path       string `gorm:"not null;unique" json:"path"`
	CreatedAt  int64  `gorm:"not null" json:"created_at"`  // Stored as INTEGER in SQLite, Unix timestamp
	LastOpened int64  `gorm:"not null" json:"last_opened"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}
