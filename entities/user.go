package entities

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username  string `gorm:"size:150;not null" json:"username"`
	FirstName string `gorm:"size:150;not null" json:"first_name"`
	LastName  string `gorm:"size:150;not null" json:"last_name"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"size:16;not null;default:user" json:"role"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

// Subscription means UserID follows AuthorID.
type Subscription struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_author" json:"user_id"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_user_author;index;check:chk_subscription_self,user_id <> author_id" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}
