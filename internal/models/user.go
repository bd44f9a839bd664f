package models

import "github.com/lib/pq"

// User is the owner of catalog products. Authentication happens
// upstream; the catalog only references users as already-verified,
// immutable identities.
type User struct {
	ID       string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email    string         `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	FullName string         `json:"full_name"`
	IsActive bool           `json:"is_active" gorm:"default:true"`
	Roles    pq.StringArray `json:"roles" gorm:"type:text[];default:'{user}'"`
}
