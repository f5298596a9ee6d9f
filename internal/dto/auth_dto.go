package dto

type RegisterRequest struct {
	Email                   string `json:"email" validate:"required,email,max=255"`
	Password                string `json:"password" validate:"required,min=8"`
	PasswordConfirm         string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName               string `json:"first_name" validate:"max=150"`
	LastName                string `json:"last_name" validate:"max=150"`
	Role                    string `json:"role" validate:"required,oneof=donor charity"`
	PhoneNumber             string `json:"phone_number" validate:"max=15"`
	Address                 string `json:"address"`
	City                    string `json:"city" validate:"max=100"`
	State                   string `json:"state" validate:"max=100"`
	ZipCode                 string `json:"zip_code" validate:"max=10"`
	OrganizationName        string `json:"organization_name" validate:"required_if=Role charity,max=255"`
	OrganizationDescription string `json:"organization_description"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access"`
	RefreshToken string       `json:"refresh"`
	User         UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh"`
}
