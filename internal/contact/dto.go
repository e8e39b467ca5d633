package contact

// ToggleRequest marks or unmarks a phone number as an emergency contact
type ToggleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=40"`
	IsEmergency bool   `json:"isEmergency"`
}

// CountResponse reports how many emergency contacts the caller has
type CountResponse struct {
	Count int `json:"count"`
}
