package templates

// VerifyEmailData holds variables for the user.verify_email scenario. The
// plaintext code appears only in rendered messages; API responses never echo it.
type VerifyEmailData struct {
	FullName   string
	Code       string
	TTLMinutes int
}

// VerifyEmail is the typed handle for the user.verify_email template.
var VerifyEmail = Expect[VerifyEmailData]("user.verify_email")

// PasswordResetData holds variables for the user.password_reset scenario.
type PasswordResetData struct {
	FullName string
	ResetURL string
}

// PasswordReset is the typed handle for the user.password_reset template.
var PasswordReset = Expect[PasswordResetData]("user.password_reset")
