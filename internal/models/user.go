package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset is a reference to an image held by the external media storage.
type Asset struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// User is the account document. Password holds only the bcrypt hash; the
// reset fields are set transiently during password recovery and are either
// both present or both absent.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	Avatar              Asset              `bson:"avatar" json:"avatar"`
	Role                Role               `bson:"role" json:"role"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
