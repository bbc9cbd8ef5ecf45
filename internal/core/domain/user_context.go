package domain

// UserContext is the ephemeral per-request snapshot of viewer attributes the
// targeting rules match against. It is owned by a single request and never
// persisted. Age is a pointer so an unknown age is distinguishable from 0.
type UserContext struct {
	UserID        string   `json:"user_id"`
	Age           *int     `json:"age,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Country       string   `json:"country,omitempty"`
	City          string   `json:"city,omitempty"`
	DeviceModel   string   `json:"device_model,omitempty"`
	OS            string   `json:"os,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	AppCategories []string `json:"app_categories,omitempty"`
	PageURL       string   `json:"page_url,omitempty"`
}
