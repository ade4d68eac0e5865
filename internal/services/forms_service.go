package services

import (
	"context"

	"artisan/internal/models"
	"artisan/internal/utils"
	"artisan/internal/validators"
	"artisan/pkg/logger"
)

const horecaNewsletterSource = "HORECA"

// FormsService relays the public storefront forms to the shop owner.
type FormsService interface {
	SendContactMessage(ctx context.Context, req *validators.ContactRequest) error
	RequestWorkshopVisit(ctx context.Context, req *validators.WorkshopVisitRequest) error
	RequestRestockNotice(ctx context.Context, req *validators.NotifyMeRequest) error
	// SubmitHorecaOrder fails only when the owner could not be told about
	// the order.
	SubmitHorecaOrder(ctx context.Context, req *validators.HorecaOrderRequest) error
}

type formsService struct {
	notifications NotificationService
	newsletter    NewsletterService
	logger        *logger.Logger
}

func NewFormsService(notifications NotificationService, newsletter NewsletterService, logger *logger.Logger) FormsService {
	return &formsService{
		notifications: notifications,
		newsletter:    newsletter,
		logger:        logger,
	}
}

func (s *formsService) SendContactMessage(ctx context.Context, req *validators.ContactRequest) error {
	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	}

	if err := s.notifications.ContactMessage(ctx, msg); err != nil {
		s.logFailure(ctx, "contact_owner", req.Email, err)
	}
	if err := s.notifications.ContactConfirmation(ctx, req.Name, req.Email); err != nil {
		s.logFailure(ctx, "contact_customer", req.Email, err)
	}
	return nil
}

func (s *formsService) RequestWorkshopVisit(ctx context.Context, req *validators.WorkshopVisitRequest) error {
	visit := &models.WorkshopVisit{
		Name:     req.Nombre,
		Email:    req.Email,
		Phone:    req.Telefono,
		Interest: req.Interes,
	}

	if err := s.notifications.WorkshopVisit(ctx, visit); err != nil {
		s.logFailure(ctx, "workshop_owner", req.Email, err)
	}
	if err := s.notifications.WorkshopConfirmation(ctx, req.Nombre, req.Email); err != nil {
		s.logFailure(ctx, "workshop_customer", req.Email, err)
	}
	return nil
}

func (s *formsService) RequestRestockNotice(ctx context.Context, req *validators.NotifyMeRequest) error {
	restock := &models.RestockRequest{
		ProductName:   req.ProductName,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	}

	if err := s.notifications.RestockRequest(ctx, restock); err != nil {
		s.logFailure(ctx, "restock_owner", req.CustomerEmail, err)
	}
	return nil
}

func (s *formsService) SubmitHorecaOrder(ctx context.Context, req *validators.HorecaOrderRequest) error {
	order := &models.HorecaOrder{
		EstablishmentName:   req.EstablishmentName,
		EstablishmentType:   req.EstablishmentType,
		ContactName:         req.ContactName,
		Phone:               req.Phone,
		Email:               req.Email,
		Address:             req.Address,
		City:                req.City,
		PostalCode:          req.PostalCode,
		Province:            req.Province,
		Quantity5L:          req.Quantity5L,
		QuantityTemprano:    req.QuantityTemprano,
		SubscribeNewsletter: req.SubscribeNewsletter,
		Comments:            req.Comments,
	}

	if order.SubscribeNewsletter && s.newsletter != nil {
		if _, err := s.newsletter.Subscribe(ctx, &validators.NewsletterSubscribeRequest{
			Email:  order.Email,
			Name:   order.ContactName,
			Source: horecaNewsletterSource,
		}); err != nil {
			s.logFailure(ctx, "horeca_newsletter", order.Email, err)
		}
	}

	if err := s.notifications.HorecaOrder(ctx, order); err != nil {
		return utils.NewUpstreamError("Error enviando notificación", err)
	}
	if err := s.notifications.HorecaConfirmation(ctx, order); err != nil {
		s.logFailure(ctx, "horeca_customer", order.Email, err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"establishment": order.EstablishmentName,
		"units":         order.TotalUnits(),
	}).Info("HORECA order received")
	return nil
}

func (s *formsService) logFailure(ctx context.Context, kind, recipient string, err error) {
	s.logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
		"kind":      kind,
		"recipient": utils.MaskEmail(recipient),
	}).Warn("Form notification failed")
}
