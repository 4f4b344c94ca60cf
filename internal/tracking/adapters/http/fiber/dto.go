package fiber

// StartViewRequest is sent when a page view mounts.
// @Description View start payload
type StartViewRequest struct {
	SessionID   string `json:"session_id" example:"session_1735689600000_k3j9x0a1b"`
	Referrer    string `json:"referrer" example:"https://www.google.com/"`
	LandingPage string `json:"landing_page" example:"/"`
	Language    string `json:"language" example:"en-US"`
	PagePath    string `json:"page_path,omitempty" example:"/"`
	PageTitle   string `json:"page_title,omitempty" example:"Home"`
}

type StartViewResponse struct {
	ViewID    string `json:"view_id"`
	SessionID string `json:"session_id"`
}

type PageVisitRequest struct {
	PagePath  string `json:"page_path" example:"/about"`
	PageTitle string `json:"page_title" example:"About"`
}

type StatusResponse struct {
	Status      string `json:"status" example:"queued"`
	RequestedBy string `json:"requested_by,omitempty" example:"ops"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_page_visit"`
	Message string `json:"message" example:"page path is required"`
}
