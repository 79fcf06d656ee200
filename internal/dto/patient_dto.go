package dto

type CreatePatientRequest struct {
	UHID           string   `json:"uhid" validate:"required,max=64"`
	FirstName      string   `json:"firstName" validate:"required,max=80"`
	Surname        string   `json:"surname" validate:"required,max=80"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Age            int      `json:"age" validate:"gte=0,lte=130"`
	Gender         string   `json:"gender" validate:"omitempty,oneof=male female other"`
	WeeklySteps    *float64 `json:"weeklySteps" validate:"omitempty,gte=0"`
	MonthlySteps   *float64 `json:"monthlySteps" validate:"omitempty,gte=0"`
	WeeklyMinutes  *float64 `json:"weeklyMinutes" validate:"omitempty,gte=0"`
	MonthlyMinutes *float64 `json:"monthlyMinutes" validate:"omitempty,gte=0"`
}

type CreatePatientResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type UpdatePatientRequest struct {
	UHID           *string  `json:"uhid" validate:"omitempty,min=1,max=64"`
	FirstName      *string  `json:"firstName" validate:"omitempty,min=1,max=80"`
	Surname        *string  `json:"surname" validate:"omitempty,min=1,max=80"`
	Age            *int     `json:"age" validate:"omitempty,gte=0,lte=130"`
	Gender         *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	WeeklySteps    *float64 `json:"weeklySteps" validate:"omitempty,gte=0"`
	MonthlySteps   *float64 `json:"monthlySteps" validate:"omitempty,gte=0"`
	WeeklyMinutes  *float64 `json:"weeklyMinutes" validate:"omitempty,gte=0"`
	MonthlyMinutes *float64 `json:"monthlyMinutes" validate:"omitempty,gte=0"`
}

type SelectionRequest struct {
	Period  string `json:"period"`
	Steps   string `json:"steps"`
	Minutes string `json:"minutes"`
}
