package validators

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Avatar *string `json:"profile_picture_url,omitempty" binding:"omitempty,url"`
	Bio    *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}
