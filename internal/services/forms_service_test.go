package services

import (
	"context"
	"testing"

	"artisan/internal/utils"
	"artisan/internal/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormsService(env *testEnv) FormsService {
	newsletter := NewNewsletterService(env.coupons, env.notifications, env.cfg.Shop, env.log)
	return NewFormsService(env.notifications, newsletter, env.log)
}

func horecaRequest() *validators.HorecaOrderRequest {
	return &validators.HorecaOrderRequest{
		EstablishmentName: "Casa Paco",
		EstablishmentType: "restaurante",
		ContactName:       "Paco",
		Phone:             "+34600111222",
		Email:             "paco@casapaco.es",
		Address:           "Plaza 3",
		City:              "Úbeda",
		PostalCode:        "23400",
		Province:          "Jaén",
		Quantity5L:        4,
	}
}

func TestContactMessageNotifiesOwnerAndSender(t *testing.T) {
	env := newTestEnv(t)
	svc := newFormsService(env)

	err := svc.SendContactMessage(context.Background(), &validators.ContactRequest{
		Name: "Ana", Email: "ana@example.com", Message: "¿Enviáis a Francia?",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"📩 Nuevo mensaje de contacto de Ana"}, env.email.subjects("owner@shop.test"))
	assert.Len(t, env.email.subjects("ana@example.com"), 1)
}

func TestContactMessageIgnoresDeliveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.email.err = errProviderDown
	svc := newFormsService(env)

	assert.NoError(t, svc.SendContactMessage(context.Background(), &validators.ContactRequest{
		Name: "Ana", Email: "ana@example.com", Message: "hola",
	}))
	assert.NoError(t, svc.RequestWorkshopVisit(context.Background(), &validators.WorkshopVisitRequest{
		Nombre: "Ana", Email: "ana@example.com", Interes: "visita",
	}))
	assert.NoError(t, svc.RequestRestockNotice(context.Background(), &validators.NotifyMeRequest{
		ProductName: "Temprano 500ml", CustomerName: "Ana", CustomerEmail: "ana@example.com",
	}))
}

func TestRestockNoticeGoesToOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := newFormsService(env)

	require.NoError(t, svc.RequestRestockNotice(context.Background(), &validators.NotifyMeRequest{
		ProductName: "Temprano 500ml", CustomerName: "Ana", CustomerEmail: "ana@example.com",
	}))
	assert.Equal(t, []string{"🔔 Aviso de disponibilidad: Temprano 500ml"}, env.email.subjects("owner@shop.test"))
	assert.Empty(t, env.email.subjects("ana@example.com"))
}

func TestHorecaOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := newFormsService(env)

	req := horecaRequest()
	req.SubscribeNewsletter = true
	require.NoError(t, svc.SubmitHorecaOrder(context.Background(), req))

	assert.Contains(t, env.email.subjects("owner@shop.test"), "🏨 Nuevo Pedido HORECA - Casa Paco")
	assert.Contains(t, env.email.subjects("paco@casapaco.es"), "Solicitud de Pedido HORECA Recibida - Mikel's Earth")
	assert.Len(t, env.chat.messages, 1)

	require.Len(t, env.email.contacts, 1)
	assert.Equal(t, "HORECA", env.email.contacts[0].Attributes["ORIGEN"])
}

func TestHorecaOrderFailsWhenOwnerUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.email.failFor["owner@shop.test"] = true
	svc := newFormsService(env)

	err := svc.SubmitHorecaOrder(context.Background(), horecaRequest())
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindUpstream))
	assert.Equal(t, "Error enviando notificación", utils.AsAppError(err).Message)
	assert.Empty(t, env.email.subjects("paco@casapaco.es"))
	assert.Empty(t, env.chat.messages)
}

func TestHorecaOrderToleratesCustomerFailure(t *testing.T) {
	env := newTestEnv(t)
	env.email.failFor["paco@casapaco.es"] = true
	svc := newFormsService(env)

	assert.NoError(t, svc.SubmitHorecaOrder(context.Background(), horecaRequest()))
}
