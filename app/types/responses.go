package types

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
	Role   string `json:"role"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type SessionResponse struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	Locale    string `json:"locale"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	ClosedAt  string `json:"closed_at,omitempty"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type EvaluationResponse struct {
	RubricScores    map[string]int         `json:"rubric_scores"`
	SummaryFeedback string                 `json:"summary_feedback"`
	DetectedIssues  map[string]interface{} `json:"detected_issues"`
}

type SendMessageResponse struct {
	UserMessage      *MessageResponse    `json:"user_message"`
	AssistantMessage *MessageResponse    `json:"assistant_message"`
	Evaluation       *EvaluationResponse `json:"evaluation"`
	CreditsLeft      int32               `json:"credits_left"`
}

type MessagesResponse struct {
	Messages []*MessageResponse `json:"messages"`
}

type ProductResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
}

type ProductsResponse struct {
	Products []*ProductResponse `json:"products"`
}

type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type WebhookResponse struct {
	Received     bool `json:"received"`
	Deduplicated bool `json:"deduplicated"`
	Processed    bool `json:"processed"`
}

type SlotResponse struct {
	ID          string `json:"id"`
	StartsAt    string `json:"starts_at"`
	DurationMin int32  `json:"duration_min"`
	Title       string `json:"title"`
}

type SlotsResponse struct {
	Slots []*SlotResponse `json:"slots"`
}

type ReserveResponse struct {
	Status  string           `json:"status"`
	Slot    *SlotResponse    `json:"slot"`
	Product *ProductResponse `json:"product,omitempty"`
}

type BookingResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	ClientNote string        `json:"client_note,omitempty"`
	Slot       *SlotResponse `json:"slot"`
	MeetingURL string        `json:"meeting_url,omitempty"`
}

type BookingsResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

type DiagnosticResponse struct {
	ID              string `json:"id"`
	RecommendedPlan string `json:"recommended_plan"`
}
