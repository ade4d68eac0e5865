package validators

import (
	"fmt"
	"strings"

	"artisan/internal/utils"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone_number"`
	Message string `json:"message" validate:"required,max=5000"`
}

// WorkshopVisitRequest keeps the Spanish keys the storefront form posts.
type WorkshopVisitRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Telefono string `json:"telefono" validate:"omitempty,phone_number"`
	Interes  string `json:"interes" validate:"omitempty,max=100"`
}

type NotifyMeRequest struct {
	ProductName   string `json:"product_name" validate:"required,max=200"`
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	CustomerPhone string `json:"customer_phone" validate:"omitempty,phone_number"`
}

type HorecaOrderRequest struct {
	EstablishmentName   string `json:"establishmentName" validate:"required,max=200"`
	EstablishmentType   string `json:"establishmentType" validate:"required,max=100"`
	ContactName         string `json:"contactName" validate:"required,max=200"`
	Phone               string `json:"phone" validate:"required,phone_number"`
	Email               string `json:"email" validate:"required,email"`
	Address             string `json:"address" validate:"required,max=300"`
	City                string `json:"city" validate:"required,max=100"`
	PostalCode          string `json:"postalCode" validate:"required,max=20"`
	Province            string `json:"province" validate:"required,max=100"`
	Quantity5L          int    `json:"quantity5L" validate:"gte=0,lte=1000"`
	QuantityTemprano    int    `json:"quantityTemprano" validate:"gte=0,lte=10000"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter"`
	Comments            string `json:"comments" validate:"omitempty,max=2000"`
}

const defaultWorkshopInterest = "visita"

func ValidateContact(req *ContactRequest) ValidationErrors {
	errors := ValidateStruct(req)
	req.Email = utils.NormalizeEmail(req.Email)
	req.Name = SanitizeInput(req.Name)
	req.Message = SanitizeInput(req.Message)
	return errors
}

func ValidateWorkshopVisit(req *WorkshopVisitRequest) ValidationErrors {
	errors := ValidateStruct(req)
	req.Email = utils.NormalizeEmail(req.Email)
	req.Nombre = SanitizeInput(req.Nombre)
	if strings.TrimSpace(req.Interes) == "" {
		req.Interes = defaultWorkshopInterest
	}
	return errors
}

func ValidateNotifyMe(req *NotifyMeRequest) ValidationErrors {
	errors := ValidateStruct(req)
	req.CustomerEmail = utils.NormalizeEmail(req.CustomerEmail)
	req.CustomerName = SanitizeInput(req.CustomerName)
	req.ProductName = SanitizeInput(req.ProductName)
	return errors
}

// ValidateHorecaOrder reports missing fields in Spanish, matching the
// wholesale form's copy, and requires at least one product.
func ValidateHorecaOrder(req *HorecaOrderRequest) ValidationErrors {
	errors := ValidateStruct(req)
	for i := range errors {
		if errors[i].Tag == "required" {
			errors[i].Message = fmt.Sprintf("El campo %s es obligatorio", errors[i].Field)
		}
	}

	if req.Quantity5L == 0 && req.QuantityTemprano == 0 {
		errors = append(errors, ValidationError{
			Field:   "quantity",
			Tag:     "min_products",
			Message: "Debes seleccionar al menos un producto",
		})
	}

	req.Email = utils.NormalizeEmail(req.Email)
	req.Comments = SanitizeInput(req.Comments)
	return errors
}
