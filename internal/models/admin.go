package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultAdminUsername is the username of the seeded administrator.
const DefaultAdminUsername = "admin"

type Admin struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
}
