package sms

import (
	"context"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

type TwilioProvider struct {
	client     *twilio.RestClient
	fromNumber string
	whatsApp   bool
}

func NewTwilioProvider(accountSID, authToken, fromNumber string, whatsApp bool) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioProvider{
		client:     client,
		fromNumber: fromNumber,
		whatsApp:   whatsApp,
	}
}

func (t *TwilioProvider) Name() string {
	if t.whatsApp {
		return "twilio-whatsapp"
	}
	return "twilio"
}

func (t *TwilioProvider) SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error) {
	params := &api.CreateMessageParams{}
	params.SetTo(t.address(request.To))
	params.SetFrom(t.address(t.getFromNumber(request.From)))
	params.SetBody(request.Message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return &SMSResponse{
			Status: "failed",
			Error:  err.Error(),
		}, err
	}

	out := &SMSResponse{Status: "sent"}
	if resp.Sid != nil {
		out.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		out.Status = string(*resp.Status)
	}
	return out, nil
}

// address adds the channel prefix Twilio expects for WhatsApp numbers.
func (t *TwilioProvider) address(number string) string {
	return formatAddress(number, t.whatsApp)
}

func formatAddress(number string, whatsApp bool) string {
	number = strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if !whatsApp || strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}

func (t *TwilioProvider) getFromNumber(from string) string {
	if from != "" {
		return from
	}
	return t.fromNumber
}
