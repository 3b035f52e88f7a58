package identity

// LoginResult is returned by [Client.Login]. RefreshToken is empty when the
// deployment keeps the refresh credential on a server-managed channel.
type LoginResult struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	User         UserRecord `json:"user"`
}

// UserRecord is the profile shape returned by the identity service.
type UserRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role"`
	SubRole  string `json:"subRole,omitempty"`
}

// RegisterRequest is the input for [Client.Register].
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
}

// TokenPair is returned by [Client.Refresh]. RefreshToken is set only when
// the deployment opts into refresh-token rotation; an empty value means the
// prior refresh token stays valid.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
