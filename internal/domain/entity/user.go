package entity

// User is the identity asserted by the identity service's access token
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
