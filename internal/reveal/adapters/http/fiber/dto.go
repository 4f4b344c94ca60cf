package fiber

// PlanRequest describes the reveal groups of a rendered page.
// @Description Reveal plan payload
type PlanRequest struct {
	DefaultStaggerMs *int               `json:"default_stagger_ms,omitempty" example:"80"`
	Groups           []PlanGroupRequest `json:"groups"`
}

type PlanGroupRequest struct {
	ID        string            `json:"id" example:"features"`
	StaggerMs *int              `json:"stagger_ms,omitempty" example:"120"`
	Items     []PlanItemRequest `json:"items"`
}

type PlanItemRequest struct {
	ID             string   `json:"id" example:"feature-1"`
	Classes        []string `json:"classes" example:"animate-fade-in-up"`
	Marker         bool     `json:"data_sr,omitempty"`
	Index          *int     `json:"index,omitempty"`
	StaggerMs      *int     `json:"stagger_ms,omitempty"`
	DelayMs        *int     `json:"delay_ms,omitempty"`
	AnimationDelay string   `json:"animation_delay,omitempty" example:"250ms"`
}

type PlanResponse struct {
	Groups []PlanGroupResponse `json:"groups"`
}

type PlanGroupResponse struct {
	ID    string             `json:"id"`
	Items []PlanItemResponse `json:"items"`
}

type PlanItemResponse struct {
	ID             string `json:"id"`
	DelayMs        int64  `json:"delay_ms" example:"240"`
	AnimationDelay string `json:"animation_delay" example:"240ms"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_reveal_document"`
	Message string `json:"message" example:"invalid reveal document: duplicate id \"hero\""`
}
