package auth

// Principal is the authenticated identity attached to a request. Write-path
// handlers take attribution from here and never from client-supplied fields.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	NetID string `json:"netid"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin"`
	SSO   bool   `json:"sso,omitempty"`
}
