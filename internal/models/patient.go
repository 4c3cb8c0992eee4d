package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Patient struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email" json:"email"`
	AMKA      string             `bson:"amka" json:"amka"` // national social-security number
	Birthdate string             `bson:"birthdate" json:"birthdate"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
