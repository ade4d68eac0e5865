package models

// ContactMessage is a message from the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

type WorkshopVisit struct {
	Name     string
	Email    string
	Phone    string
	Interest string
}

// RestockRequest asks to be told when a sold-out product is back.
type RestockRequest struct {
	ProductName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// HorecaOrder is a wholesale request from a hotel, restaurant or caterer.
type HorecaOrder struct {
	EstablishmentName   string
	EstablishmentType   string
	ContactName         string
	Phone               string
	Email               string
	Address             string
	City                string
	PostalCode          string
	Province            string
	Quantity5L          int
	QuantityTemprano    int
	SubscribeNewsletter bool
	Comments            string
}

func (h *HorecaOrder) TotalUnits() int {
	return h.Quantity5L + h.QuantityTemprano
}
