package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

// HandleCustomerList returns all customers ordered by name.
// Route: GET /api/customers
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		customers, err := services.ListCustomers(app)
		if err != nil {
			return ServiceError(e, "customer_list", err)
		}
		return e.JSON(http.StatusOK, customers)
	}
}

// HandleCustomerCreate stores a new customer.
// Route: POST /api/customers
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var c services.Customer
		if err := e.BindBody(&c); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}
		c.ID = ""

		created, err := services.CreateCustomer(app, c)
		if err != nil {
			return ServiceError(e, "customer_create", err)
		}
		return e.JSON(http.StatusCreated, created)
	}
}
