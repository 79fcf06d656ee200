package dto

type CreateClinicRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Logo       string `json:"logo"`
	Capacity   int    `json:"capacity" validate:"gt=0"`
	AdsEnabled bool   `json:"adsEnabled"`
}

type CreateClinicResponse struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// UpdateClinicRequest is a patch; nil fields are left unchanged.
type UpdateClinicRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=120"`
	Logo       *string `json:"logo"`
	Capacity   *int    `json:"capacity" validate:"omitempty,gt=0"`
	AdsEnabled *bool   `json:"adsEnabled"`
}
