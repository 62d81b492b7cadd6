package handler

import (
	"net/http"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// BillsHandler handles recurring bill HTTP requests
type BillsHandler struct {
	billsService *service.BillsService
}

// NewBillsHandler creates a new BillsHandler
func NewBillsHandler(billsService *service.BillsService) *BillsHandler {
	return &BillsHandler{billsService: billsService}
}

// BillResponse represents a recurring bill in API responses
type BillResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	DueDate     int    `json:"dueDate"`
	DueDateText string `json:"dueDateText"`
	NextDueDate string `json:"nextDueDate"`
	Interval    string `json:"interval"`
	Duration    string `json:"duration"`
	Occurrences int    `json:"occurrences,omitempty"`
	Category    string `json:"category"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// UpcomingBillResponse represents a bill due within the upcoming window
type UpcomingBillResponse struct {
	BillResponse
	DaysUntilDue int `json:"daysUntilDue"`
}

// GetBills handles GET /api/v1/bills
func (h *BillsHandler) GetBills(c echo.Context) error {
	bills := h.billsService.Bills()
	response := make([]BillResponse, len(bills))
	for i, b := range bills {
		response[i] = h.toBillResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBill handles GET /api/v1/bills/:id
func (h *BillsHandler) GetBill(c echo.Context) error {
	bill, err := h.billsService.Bill(c.Param("id"))
	if err != nil {
		return serviceError(c, err, "get bill")
	}
	return c.JSON(http.StatusOK, h.toBillResponse(bill))
}

// CreateBill handles POST /api/v1/bills
func (h *BillsHandler) CreateBill(c echo.Context) error {
	var req domain.Bill
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.CreatedAt = nil

	bill, err := h.billsService.AddBill(req)
	if err != nil {
		return serviceError(c, err, "create bill")
	}
	return c.JSON(http.StatusCreated, h.toBillResponse(bill))
}

// UpdateBill handles PUT /api/v1/bills/:id
func (h *BillsHandler) UpdateBill(c echo.Context) error {
	var req domain.Bill
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	req.ID = c.Param("id")
	req.CreatedAt = nil

	bill, err := h.billsService.UpdateBill(req)
	if err != nil {
		return serviceError(c, err, "update bill")
	}
	return c.JSON(http.StatusOK, h.toBillResponse(bill))
}

// DeleteBill handles DELETE /api/v1/bills/:id
func (h *BillsHandler) DeleteBill(c echo.Context) error {
	if err := h.billsService.DeleteBill(c.Param("id")); err != nil {
		return serviceError(c, err, "delete bill")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUpcoming handles GET /api/v1/bills/upcoming
func (h *BillsHandler) GetUpcoming(c echo.Context) error {
	return c.JSON(http.StatusOK, h.toUpcomingResponses(h.billsService.Upcoming()))
}

// Refresh handles POST /api/v1/bills/refresh
func (h *BillsHandler) Refresh(c echo.Context) error {
	return c.JSON(http.StatusOK, h.toUpcomingResponses(h.billsService.Refresh()))
}

func (h *BillsHandler) toBillResponse(b domain.Bill) BillResponse {
	return toBillResponse(b, h.billsService.NextDueDate(b))
}

func (h *BillsHandler) toUpcomingResponses(upcoming []domain.UpcomingBill) []UpcomingBillResponse {
	response := make([]UpcomingBillResponse, len(upcoming))
	for i, u := range upcoming {
		response[i] = UpcomingBillResponse{
			BillResponse: h.toBillResponse(u.Bill),
			DaysUntilDue: u.DaysUntilDue,
		}
	}
	return response
}

func toBillResponse(b domain.Bill, nextDue time.Time) BillResponse {
	response := BillResponse{
		ID:          b.ID,
		Name:        b.Name,
		Amount:      money(b.Amount),
		DueDate:     b.DueDate,
		DueDateText: service.DueDateText(b.DueDate),
		NextDueDate: nextDue.Format("2006-01-02"),
		Interval:    string(b.Interval),
		Duration:    string(b.Duration),
		Occurrences: b.Occurrences,
		Category:    string(b.Category),
		Notes:       b.Notes,
	}
	if b.CreatedAt != nil {
		response.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	return response
}
