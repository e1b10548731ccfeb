package model

// User owns tasks. Only a single configured user is used today.
type User struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string `gorm:"not null" json:"username"`
	Email       string `gorm:"uniqueIndex" json:"email"`
	Password    string `json:"-"`
	Enabled     bool   `json:"enabled"`
	AuthorityID string `json:"authorityId"`
	TempKey     string `json:"-"`
}

func (User) TableName() string {
	return "user"
}
