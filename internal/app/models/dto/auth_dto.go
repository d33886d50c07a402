package dto

// GoogleTokenRequest exchanges a Google ID token for a session
type GoogleTokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// SessionResponse is returned whenever a session is established
type SessionResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
	Email       string `json:"email" example:"200101001@iiitdmj.ac.in"`
	Role        string `json:"role" example:"student"`
	Redirect    string `json:"redirect" example:"/student"`
}

// DestinationResponse tells the client where a session should land
type DestinationResponse struct {
	Redirect  string `json:"redirect" example:"/admin"`
	Role      string `json:"role,omitempty" example:"admin"`
	Message   string `json:"message,omitempty"`
	SignedOut bool   `json:"signedOut"`
}

// MeResponse describes the current session
type MeResponse struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	RollNo    string `json:"rollNo,omitempty"`
	Provider  string `json:"provider"`
	ExpiresAt int64  `json:"expiresAt"`
}
