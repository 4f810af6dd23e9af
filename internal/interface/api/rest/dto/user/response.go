package user

type (
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	Profile struct {
		User
		IsVerified bool   `json:"is_verified"`
		CreatedAt  string `json:"created_at"`
	}
	LoginResponse struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    User   `json:"user"`
	}
	SignupResponse struct {
		Message         string `json:"message"`
		VerificationURL string `json:"verification_url"`
	}
	VerifyResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)
