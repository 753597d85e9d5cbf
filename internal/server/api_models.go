package server

// StartAuditRequest is the payload of POST /audits.
type StartAuditRequest struct {
	URL         string   `json:"url" example:"https://joesplumbing.com"`
	ClientName  string   `json:"client_name" example:"Joe's Plumbing"`
	Competitors []string `json:"competitors" example:"https://rival1.com"`
	MaxPages    int      `json:"max_pages" example:"30"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"audit not found"`
}
