package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxClientNoteLength = 2000

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Locale   string `json:"locale"`
}

func NewRegisterRequestFromContext(ctx echo.Context) (*RegisterRequest, error) {
	req := &RegisterRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Locale = normalizeLocale(req.Locale)
	return req, nil
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 10 {
		return errors.New("password must be at least 10 characters")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewLoginRequestFromContext(ctx echo.Context) (*LoginRequest, error) {
	req := &LoginRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return req, nil
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type CreateSessionRequest struct {
	Mode   string `json:"mode"`
	Locale string `json:"locale"`
}

func NewCreateSessionRequestFromContext(ctx echo.Context) (*CreateSessionRequest, error) {
	req := &CreateSessionRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.Mode = strings.TrimSpace(req.Mode)
	req.Locale = normalizeLocale(req.Locale)
	return req, nil
}

func (r *CreateSessionRequest) Validate() error {
	if r.Mode == "" {
		return errors.New("mode is required")
	}
	return nil
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

func NewSendMessageRequestFromContext(ctx echo.Context) (*SendMessageRequest, error) {
	req := &SendMessageRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *SendMessageRequest) Validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}

type CheckoutRequest struct {
	ProductID string `json:"product_id"`
}

func NewCheckoutRequestFromContext(ctx echo.Context) (*CheckoutRequest, error) {
	req := &CheckoutRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	return req, nil
}

func (r *CheckoutRequest) Validate() error {
	if r.ProductID == "" {
		return errors.New("product_id is required")
	}
	return nil
}

type BookSlotRequest struct {
	ClientNote string `json:"client_note"`
}

func NewBookSlotRequestFromContext(ctx echo.Context) (*BookSlotRequest, error) {
	req := &BookSlotRequest{}
	// The body is optional for booking, an empty note is fine.
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.ClientNote = strings.TrimSpace(req.ClientNote)
	return req, nil
}

func (r *BookSlotRequest) Validate() error {
	if len(r.ClientNote) > maxClientNoteLength {
		return errors.New("client_note is too long")
	}
	return nil
}

type DiagnosticRequest struct {
	Reasons     []string `json:"reasons"`
	OtherReason string   `json:"other_reason"`
	Situation   string   `json:"situation"`
	History     string   `json:"history"`
	Goal        string   `json:"goal"`
}

func NewDiagnosticRequestFromContext(ctx echo.Context) (*DiagnosticRequest, error) {
	req := &DiagnosticRequest{}
	if err := ctx.Bind(req); err != nil {
		return nil, err
	}
	req.Situation = strings.TrimSpace(req.Situation)
	req.History = strings.TrimSpace(req.History)
	req.Goal = strings.TrimSpace(req.Goal)
	return req, nil
}

func (r *DiagnosticRequest) Validate() error {
	if len(r.Reasons) == 0 {
		return errors.New("at least one reason is required")
	}
	if r.Situation == "" || r.History == "" || r.Goal == "" {
		return errors.New("situation, history and goal are required")
	}
	return nil
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(locale, "de") {
		return "de"
	}
	if strings.HasPrefix(locale, "en") {
		return "en"
	}
	if locale == "" {
		return "de"
	}
	return "en"
}
