package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleRegular = "Regular"
	RoleAdmin   = "Admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"          bson:"_id"                    json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"        bson:"username"               json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"        bson:"email"                  json:"email"`
	PasswordHash string    `gorm:"not null"                    bson:"password"               json:"-"`
	Role         string    `gorm:"not null;default:Regular"    bson:"role"                   json:"role"`
	RefreshToken *string   `gorm:"index"                       bson:"refreshToken,omitempty" json:"-"`
	CreatedAt    time.Time `gorm:"not null"                    bson:"createdAt"              json:"-"`
}

type Category struct {
	ID        string    `gorm:"primaryKey;size:36"   bson:"_id"       json:"-"`
	Type      string    `gorm:"uniqueIndex;not null" bson:"type"      json:"type"`
	Color     string    `gorm:"not null"             bson:"color"     json:"color"`
	CreatedAt time.Time `gorm:"index;not null"       bson:"createdAt" json:"-"`
}

type Transaction struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id"       json:"_id"`
	Username  string    `gorm:"index;not null"     bson:"username"  json:"username"`
	Type      string    `gorm:"index;not null"     bson:"type"      json:"type"`
	Amount    float64   `gorm:"not null"           bson:"amount"    json:"amount"`
	Date      time.Time `gorm:"index;not null"     bson:"date"      json:"date"`
	CreatedAt time.Time `gorm:"not null"           bson:"createdAt" json:"-"`
}

// TransactionView is a transaction joined with its category color.
type TransactionView struct {
	ID       string    `bson:"_id"      json:"_id"`
	Username string    `bson:"username" json:"username"`
	Type     string    `bson:"type"     json:"type"`
	Amount   float64   `bson:"amount"   json:"amount"`
	Date     time.Time `bson:"date"     json:"date"`
	Color    string    `bson:"color"    json:"color"`
}

type Group struct {
	ID        string        `gorm:"primaryKey;size:36"   bson:"_id"       json:"-"`
	Name      string        `gorm:"uniqueIndex;not null" bson:"name"      json:"name"`
	Members   []GroupMember `gorm:"foreignKey:GroupID"   bson:"members"   json:"members"`
	CreatedAt time.Time     `gorm:"not null"             bson:"createdAt" json:"-"`
}

// GroupMember references a user by email; the unique index keeps a user in at most one group.
type GroupMember struct {
	ID      string `gorm:"primaryKey;size:36"       bson:"-"      json:"-"`
	GroupID string `gorm:"index;not null;size:36"   bson:"-"      json:"-"`
	Email   string `gorm:"uniqueIndex;not null"     bson:"email"  json:"email"`
	UserID  string `gorm:"not null;size:36"         bson:"userId" json:"-"`
	// Position keeps insertion order; the first member is never removed.
	Position int `gorm:"not null" bson:"-" json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error        { ensureID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error    { ensureID(&c.ID); return nil }
func (t *Transaction) BeforeCreate(*gorm.DB) error { ensureID(&t.ID); return nil }
func (g *Group) BeforeCreate(*gorm.DB) error       { ensureID(&g.ID); return nil }
func (m *GroupMember) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All lists the tables created by migrations.
func All() []any {
	return []any{&User{}, &Category{}, &Transaction{}, &Group{}, &GroupMember{}}
}
