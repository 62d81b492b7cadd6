package domain

// Profile is the locally stored user profile
type Profile struct {
	Name string `json:"name"`
	// Avatar is a base64 encoded JPEG thumbnail
	Avatar string `json:"avatar,omitempty"`
}
