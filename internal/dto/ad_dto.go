package dto

type CreateAdRequest struct {
	ImageURL    string `json:"imageUrl" validate:"required,url"`
	Description string `json:"description" validate:"max=500"`
	TargetURL   string `json:"targetUrl" validate:"required,url"`
}
