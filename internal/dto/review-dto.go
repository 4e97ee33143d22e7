package dto

// ReviewApplicationRequest is the admin decision form. Status is checked
// against the allowed set by the review service.
type ReviewApplicationRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
	Notes  string `json:"notes" form:"notes" validate:"max=5000"`
}
