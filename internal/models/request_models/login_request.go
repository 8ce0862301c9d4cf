package request_models

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SignUpRequest struct {
	BusinessName string `json:"business_name" binding:"omitempty,min=2,max=100"`
	Name         string `json:"name" binding:"omitempty,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=6,max=72"`
}
