package http

// credentialsRequest is the JSON body of the register and login endpoints.
// TelephoneNumber is only required on registration.
type credentialsRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	TelephoneNumber string `json:"telephone_number,omitempty"`
}

// resetConfirmRequest is the JSON body of the reset confirmation endpoint.
type resetConfirmRequest struct {
	Username    string `json:"username"`
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

// resetCodeResponse carries a freshly generated reset code back to the
// authenticated caller for out-of-band delivery.
type resetCodeResponse struct {
	Username  string `json:"username"`
	ResetCode string `json:"reset_code"`
}

// updateUserRequest is the JSON body of the administrative user update
// endpoint. The password hash is deliberately absent: passwords change only
// through the reset flow.
type updateUserRequest struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	TelephoneNumber string `json:"telephone_number"`
}

// userResponse is the public projection of a registered user. The password
// hash and any pending reset code never leave the server.
type userResponse struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	TelephoneNumber string `json:"telephone_number"`
}
