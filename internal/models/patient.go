package models

import "time"

// Patient lives under exactly one clinic. Its id is always the id of the
// paired identity.
type Patient struct {
	ID             string    `bson:"_id" json:"id"`
	ClinicID       string    `bson:"clinic_id" json:"clinicId"`
	UHID           string    `bson:"uhid" json:"uhid"`
	FirstName      string    `bson:"first_name" json:"firstName"`
	Surname        string    `bson:"surname" json:"surname"`
	Email          string    `bson:"email" json:"email"`
	Age            int       `bson:"age" json:"age"`
	Gender         string    `bson:"gender" json:"gender"`
	WeeklySteps    *float64  `bson:"weekly_steps,omitempty" json:"weeklySteps,omitempty"`
	MonthlySteps   *float64  `bson:"monthly_steps,omitempty" json:"monthlySteps,omitempty"`
	WeeklyMinutes  *float64  `bson:"weekly_minutes,omitempty" json:"weeklyMinutes,omitempty"`
	MonthlyMinutes *float64  `bson:"monthly_minutes,omitempty" json:"monthlyMinutes,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}
