package model

type Local struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	City          string `json:"city"`
	Address       string `json:"address"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	OwnerID       string `json:"ownerId,omitempty"`
	CoverImageURL string `json:"coverImageUrl,omitempty"`
}

// LocalInput is the body of create and update requests.
type LocalInput struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	City    string `json:"city" validate:"required,min=2,max=80"`
	Address string `json:"address" validate:"required,min=2,max=200"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	OwnerID string `json:"ownerId,omitempty"`
}
