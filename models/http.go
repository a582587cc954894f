package models

// RegisterRequest is the body of the registration endpoint.
type RegisterRequest struct {
	FullName        string  `json:"fullName"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty"`
}

// VerifyEmailRequest is the body of the email verification endpoint.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the outcome of a successful registration attempt.
// DevOTP is only filled when the server runs outside production with
// code echoing enabled.
type Registration struct {
	User   User
	DevOTP string
}

// RegisterResponse acknowledges that a verification code was sent.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DevOTP  string `json:"devOtp,omitempty"`
}

// VerifyEmailResponse is returned once the account is activated.
type VerifyEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	ID    int64  `json:"id"`
	User  User   `json:"user"`
	Token string `json:"token"`
}

// MessageResponse is the generic body for acknowledgements and errors.
// Success is omitted unless explicitly set.
type MessageResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

// UploadImageResponse carries the public URL of an uploaded image.
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}
