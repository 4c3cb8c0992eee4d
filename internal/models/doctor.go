package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Doctor struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName       string             `bson:"first_name" json:"first_name"`
	LastName        string             `bson:"last_name" json:"last_name"`
	Email           string             `bson:"email" json:"email"`
	Username        string             `bson:"username" json:"username"`
	Password        string             `bson:"password" json:"-"` // bcrypt hash
	Specialization  string             `bson:"specialization" json:"specialization"`
	AppointmentCost float64            `bson:"appointment_cost" json:"appointment_cost"`
}

// FullName is the display name copied onto booked appointments.
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
