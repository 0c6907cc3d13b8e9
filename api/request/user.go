package request

// RegisterForm mirrors the registration form field names. Validation is
// accumulated in the service layer rather than by binding tags, so the
// form always binds.
type RegisterForm struct {
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Email           string `form:"email"`
	IDNumber        string `form:"idnumber"`
	Gender          string `form:"gender"`
	PhoneNumber     string `form:"phonenumber"`
}

type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
