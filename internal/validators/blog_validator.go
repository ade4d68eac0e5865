package validators

import "strings"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type BlogPostCreateRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Content       string   `json:"content" validate:"required"`
	Category      string   `json:"category" validate:"omitempty,max=50"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	FeaturedImage string   `json:"featured_image" validate:"omitempty,max=500"`
	Status        string   `json:"status" validate:"omitempty,post_status"`
	Author        string   `json:"author" validate:"omitempty,max=100"`
}

// BlogPostUpdateRequest uses pointers so absent keys leave fields untouched.
type BlogPostUpdateRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Content       *string   `json:"content" validate:"omitempty,min=1"`
	Category      *string   `json:"category" validate:"omitempty,max=50"`
	Tags          *[]string `json:"tags" validate:"omitempty"`
	FeaturedImage *string   `json:"featured_image" validate:"omitempty,max=500"`
	Status        *string   `json:"status" validate:"omitempty,post_status"`
}

type InboundAttachment struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

// InboundEmailRequest accepts the flat relay payload as well as the
// batched form where messages arrive under "items". Key matching is
// case-insensitive, so "Subject" and "subject" both bind.
type InboundEmailRequest struct {
	Subject     string                `json:"subject"`
	HTML        string                `json:"html"`
	Text        string                `json:"text"`
	RawHTMLBody string                `json:"RawHtmlBody"`
	RawTextBody string                `json:"RawTextBody"`
	Attachments []InboundAttachment   `json:"attachments"`
	Items       []InboundEmailRequest `json:"items"`
}

// Message returns the effective message: the payload itself, or the first
// batched item when the top level carries no subject.
func (r *InboundEmailRequest) Message() *InboundEmailRequest {
	if strings.TrimSpace(r.Subject) == "" && len(r.Items) > 0 {
		return &r.Items[0]
	}
	return r
}

// Body prefers HTML and falls back to the plain-text part.
func (r *InboundEmailRequest) Body() (html string, text string) {
	html = r.HTML
	if html == "" {
		html = r.RawHTMLBody
	}
	text = r.Text
	if text == "" {
		text = r.RawTextBody
	}
	return html, text
}

func ValidateAdminLogin(req *AdminLoginRequest) ValidationErrors {
	req.Username = strings.TrimSpace(req.Username)
	return ValidateStruct(req)
}

func ValidateBlogPostCreate(req *BlogPostCreateRequest) ValidationErrors {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	return ValidateStruct(req)
}

func ValidateBlogPostUpdate(req *BlogPostUpdateRequest) ValidationErrors {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	return ValidateStruct(req)
}

func ValidateInboundEmail(req *InboundEmailRequest) ValidationErrors {
	msg := req.Message()
	if strings.TrimSpace(msg.Subject) == "" {
		return ValidationErrors{{Field: "subject", Tag: "required", Message: "subject is required"}}
	}
	return nil
}
