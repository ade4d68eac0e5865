package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"artisan/internal/config"
	"artisan/internal/metrics"
	"artisan/internal/models"
	"artisan/internal/utils"
	"artisan/pkg/email"
	"artisan/pkg/logger"
	"artisan/pkg/sms"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

type BlogAction string

const (
	BlogActionCreated   BlogAction = "created"
	BlogActionUpdated   BlogAction = "updated"
	BlogActionDeleted   BlogAction = "deleted"
	BlogActionPublished BlogAction = "published"
	BlogActionDraft     BlogAction = "draft"
)

// NotificationService renders and delivers transactional messages. Methods
// without an error result only log delivery failures.
type NotificationService interface {
	OrderPaid(ctx context.Context, order *models.Order)
	SubscriptionActivated(ctx context.Context, sub *models.Subscription)
	SubscriptionCancelled(ctx context.Context, sub *models.Subscription)

	NewsletterSubscribed(ctx context.Context, emailAddr, source string)
	NewsletterWelcome(ctx context.Context, emailAddr, couponCode string, discount int) error
	SyncContact(ctx context.Context, emailAddr, source string) (*email.ContactResult, error)

	ContactMessage(ctx context.Context, msg *models.ContactMessage) error
	ContactConfirmation(ctx context.Context, name, emailAddr string) error
	WorkshopVisit(ctx context.Context, visit *models.WorkshopVisit) error
	WorkshopConfirmation(ctx context.Context, name, emailAddr string) error
	RestockRequest(ctx context.Context, req *models.RestockRequest) error
	HorecaOrder(ctx context.Context, order *models.HorecaOrder) error
	HorecaConfirmation(ctx context.Context, order *models.HorecaOrder) error

	BlogEvent(ctx context.Context, action BlogAction, post *models.BlogPost)
}

type siteInfo struct {
	Name string
	URL  string
}

type templateView struct {
	Title string
	Site  siteInfo
	Now   time.Time
	Data  interface{}
}

type notificationService struct {
	email         email.EmailProvider
	chat          sms.SMSProvider
	emailCfg      *config.EmailConfig
	ownerWhatsApp string
	site          siteInfo
	html          *htmltemplate.Template
	text          *texttemplate.Template
	now           func() time.Time
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

var templateFuncs = map[string]interface{}{
	"money":    func(amount float64) string { return utils.FormatCurrency(amount, "EUR") },
	"date":     func(t interface{}) string { return formatTime(t, "02/01/2006") },
	"datetime": func(t interface{}) string { return formatTime(t, "02/01/2006 15:04") },
}

func formatTime(v interface{}, layout string) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout)
	case *time.Time:
		if t != nil {
			return t.Format(layout)
		}
	}
	return ""
}

func NewNotificationService(
	emailProvider email.EmailProvider,
	chatProvider sms.SMSProvider,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *logger.Logger,
) (NotificationService, error) {
	html, err := htmltemplate.New("email").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	text, err := texttemplate.New("chat").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chat templates: %w", err)
	}

	return &notificationService{
		email:         emailProvider,
		chat:          chatProvider,
		emailCfg:      cfg.Email,
		ownerWhatsApp: cfg.SMS.OwnerWhatsApp,
		site:          siteInfo{Name: cfg.Email.SenderName, URL: strings.TrimRight(cfg.App.FrontendURL, "/")},
		html:          html,
		text:          text,
		now:           time.Now,
		metrics:       m,
		logger:        logger,
	}, nil
}

func (s *notificationService) OrderPaid(ctx context.Context, order *models.Order) {
	_ = s.sendEmail(ctx, "order_owner", s.owner(),
		fmt.Sprintf("🛒 Nuevo Pedido #%s", order.OrderNumber), "Nuevo pedido recibido", "order_owner", order)

	if order.CustomerEmail != "" {
		_ = s.sendEmail(ctx, "order_customer", email.Address{Email: order.CustomerEmail, Name: order.CustomerName},
			fmt.Sprintf("✅ Pedido Confirmado #%s - %s", order.OrderNumber, s.site.Name), "¡Pedido confirmado!", "order_customer", order)
	}

	_ = s.sendChat(ctx, "order", "order_chat", order)
}

func (s *notificationService) SubscriptionActivated(ctx context.Context, sub *models.Subscription) {
	_ = s.sendEmail(ctx, "subscription_owner", s.owner(),
		fmt.Sprintf("🔄 Nueva Suscripción #%s", sub.SubscriptionNumber), "Nueva suscripción activada", "subscription_owner", sub)

	if sub.CustomerEmail != "" {
		_ = s.sendEmail(ctx, "subscription_customer", email.Address{Email: sub.CustomerEmail, Name: sub.CustomerName},
			fmt.Sprintf("Tu suscripción %s está activa - %s", sub.SubscriptionNumber, s.site.Name), "¡Suscripción activada!", "subscription_customer", sub)
	}

	_ = s.sendChat(ctx, "subscription", "subscription_chat", sub)
}

func (s *notificationService) SubscriptionCancelled(ctx context.Context, sub *models.Subscription) {
	_ = s.sendEmail(ctx, "subscription_cancelled", s.owner(),
		fmt.Sprintf("Suscripción cancelada #%s", sub.SubscriptionNumber), "Suscripción cancelada", "subscription_cancelled_owner", sub)
}

func (s *notificationService) NewsletterSubscribed(ctx context.Context, emailAddr, source string) {
	data := struct{ Email, Source string }{Email: emailAddr, Source: source}
	_ = s.sendEmail(ctx, "newsletter_owner", s.owner(),
		"📧 Nueva suscripción al newsletter", "Nueva suscripción al newsletter", "newsletter_owner", data)
}

func (s *notificationService) NewsletterWelcome(ctx context.Context, emailAddr, couponCode string, discount int) error {
	data := struct {
		Email      string
		CouponCode string
		Discount   int
	}{Email: emailAddr, CouponCode: couponCode, Discount: discount}

	return s.sendEmail(ctx, "newsletter_welcome", email.Address{Email: emailAddr},
		fmt.Sprintf("🌿 Bienvenido a la familia %s + Tu regalo (%d%% descuento)", s.site.Name, discount),
		"Bienvenido a la familia", "newsletter_welcome", data)
}

func (s *notificationService) SyncContact(ctx context.Context, emailAddr, source string) (*email.ContactResult, error) {
	contact := &email.Contact{Email: emailAddr}
	if s.emailCfg.NewsletterListID > 0 {
		contact.ListIDs = []int64{s.emailCfg.NewsletterListID}
	}
	if source != "" {
		contact.Attributes = map[string]interface{}{"ORIGEN": strings.ToUpper(source)}
	}

	result, err := s.email.UpsertContact(ctx, contact)
	s.metrics.Notification(s.email.Name(), "contact_sync", err)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("email", utils.MaskEmail(emailAddr)).Warn("Contact sync failed")
		return nil, err
	}
	return result, nil
}

func (s *notificationService) ContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return s.sendEmail(ctx, "contact_owner", s.owner(),
		fmt.Sprintf("📩 Nuevo mensaje de contacto de %s", msg.Name), "Nuevo mensaje de contacto", "contact_owner", msg)
}

func (s *notificationService) ContactConfirmation(ctx context.Context, name, emailAddr string) error {
	data := struct{ Name string }{Name: name}
	return s.sendEmail(ctx, "contact_customer", email.Address{Email: emailAddr, Name: name},
		fmt.Sprintf("Hemos recibido tu mensaje - %s", s.site.Name), "Gracias por escribirnos", "contact_customer", data)
}

func (s *notificationService) WorkshopVisit(ctx context.Context, visit *models.WorkshopVisit) error {
	return s.sendEmail(ctx, "workshop_owner", s.owner(),
		fmt.Sprintf("🫒 Solicitud de visita al obrador de %s", visit.Name), "Nueva solicitud de visita", "workshop_owner", visit)
}

func (s *notificationService) WorkshopConfirmation(ctx context.Context, name, emailAddr string) error {
	data := struct{ Name string }{Name: name}
	return s.sendEmail(ctx, "workshop_customer", email.Address{Email: emailAddr, Name: name},
		fmt.Sprintf("Solicitud de visita recibida - %s", s.site.Name), "Gracias por tu interés", "workshop_customer", data)
}

func (s *notificationService) RestockRequest(ctx context.Context, req *models.RestockRequest) error {
	return s.sendEmail(ctx, "restock_owner", s.owner(),
		fmt.Sprintf("🔔 Aviso de disponibilidad: %s", req.ProductName), "Solicitud de aviso de disponibilidad", "restock_owner", req)
}

func (s *notificationService) HorecaOrder(ctx context.Context, order *models.HorecaOrder) error {
	err := s.sendEmail(ctx, "horeca_owner", s.owner(),
		fmt.Sprintf("🏨 Nuevo Pedido HORECA - %s", order.EstablishmentName), "Nuevo pedido HORECA", "horeca_owner", order)
	if err == nil {
		_ = s.sendChat(ctx, "horeca", "horeca_chat", order)
	}
	return err
}

func (s *notificationService) HorecaConfirmation(ctx context.Context, order *models.HorecaOrder) error {
	return s.sendEmail(ctx, "horeca_customer", email.Address{Email: order.Email, Name: order.ContactName},
		fmt.Sprintf("Solicitud de Pedido HORECA Recibida - %s", s.site.Name), "Solicitud recibida", "horeca_customer", order)
}

var blogActionCopy = map[BlogAction]struct{ subject, title, description string }{
	BlogActionCreated:   {"✅ Nuevo post publicado: %s", "Post publicado", "Se ha publicado un nuevo post en el blog:"},
	BlogActionUpdated:   {"📝 Post actualizado: %s", "Post actualizado", "Se ha actualizado un post del blog:"},
	BlogActionDeleted:   {"🗑️ Post eliminado: %s", "Post eliminado", "Se ha eliminado un post del blog:"},
	BlogActionPublished: {"🚀 Borrador publicado: %s", "Borrador publicado", "Un borrador ha pasado a estar publicado:"},
	BlogActionDraft:     {"📋 Borrador guardado: %s", "Borrador guardado", "Se ha guardado un borrador en el blog:"},
}

func (s *notificationService) BlogEvent(ctx context.Context, action BlogAction, post *models.BlogPost) {
	wording, ok := blogActionCopy[action]
	if !ok {
		return
	}

	data := struct {
		Description string
		Post        *models.BlogPost
		URL         string
		ShowLink    bool
	}{
		Description: wording.description,
		Post:        post,
		URL:         fmt.Sprintf("%s/blog/%s", s.site.URL, post.Slug),
		ShowLink:    action != BlogActionDeleted && post.Status == models.PostStatusPublished,
	}

	to := email.Address{Email: s.emailCfg.BlogNotificationEmail}
	_ = s.sendEmail(ctx, "blog_"+string(action), to, fmt.Sprintf(wording.subject, post.Title), wording.title, "blog_event", data)
}

func (s *notificationService) owner() email.Address {
	return email.Address{Email: s.emailCfg.OwnerEmail, Name: "Administrador"}
}

func (s *notificationService) sendEmail(ctx context.Context, kind string, to email.Address, subject, title, tmpl string, data interface{}) error {
	var buf bytes.Buffer
	view := templateView{Title: title, Site: s.site, Now: s.now(), Data: data}
	if err := s.html.ExecuteTemplate(&buf, tmpl, view); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("template", tmpl).Error("Failed to render email")
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	_, err := s.email.SendEmail(ctx, &email.Message{
		To:          []email.Address{to},
		Subject:     subject,
		HTMLContent: buf.String(),
		Tags:        []string{kind},
	})
	s.metrics.Notification(s.email.Name(), kind, err)
	s.logger.WithContext(ctx).LogNotification("email", utils.MaskEmail(to.Email), subject, err)
	return err
}

func (s *notificationService) sendChat(ctx context.Context, kind, tmpl string, data interface{}) error {
	if s.chat == nil || s.ownerWhatsApp == "" {
		return nil
	}

	var buf bytes.Buffer
	view := templateView{Site: s.site, Now: s.now(), Data: data}
	if err := s.text.ExecuteTemplate(&buf, tmpl, view); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("template", tmpl).Error("Failed to render chat message")
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	_, err := s.chat.SendSMS(ctx, &sms.SMSRequest{
		To:      s.ownerWhatsApp,
		Message: buf.String(),
		Type:    "transactional",
	})
	s.metrics.Notification(s.chat.Name(), kind, err)
	s.logger.WithContext(ctx).LogNotification(s.chat.Name(), s.ownerWhatsApp, kind, err)
	return err
}
