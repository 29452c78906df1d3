package main

import (
	"net/http"
	"strings"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

type createOrderRequest struct {
	OrderNumber string            `json:"order_number"`
	Status      string            `json:"status"`
	Items       *[]data.OrderItem `json:"items"`
	TotalItems  *int              `json:"total_items"`
}

type createSOSRequest struct {
	Location *string `json:"location"`
	Status   string  `json:"status"`
}

func (req *createOrderRequest) validate() error {
	if strings.TrimSpace(req.OrderNumber) == "" {
		return apperrors.Validation("order_number is required")
	}
	if req.Status == "" {
		req.Status = data.OrderProcessing
	}
	if !data.ValidOrderStatus(req.Status) {
		return apperrors.Validation("status must be one of processing, ready, completed")
	}
	if req.Items == nil {
		return apperrors.Validation("items is required")
	}
	if req.TotalItems == nil {
		return apperrors.Validation("total_items is required")
	}
	for _, item := range *req.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return apperrors.Validation("items require a product_name")
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("item quantity must be positive")
		}
	}
	if *req.TotalItems < 0 {
		return apperrors.Validation("total_items must not be negative")
	}
	return nil
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	order := &data.Order{
		UserID:      user.ID,
		OrderNumber: req.OrderNumber,
		Status:      req.Status,
		Items:       *req.Items,
		TotalItems:  *req.TotalItems,
	}
	if err := s.orders.CreateOrder(r.Context(), order); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	orders, err := s.orders.ListOrders(r.Context(), user.ID, data.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCreateSOS(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req createSOSRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Status == "" {
		req.Status = data.SOSSent
	}
	if !data.ValidSOSStatus(req.Status) {
		writeError(w, r, apperrors.Validation("status must be one of sent, acknowledged, resolved"))
		return
	}

	alert := &data.SOSAlert{UserID: user.ID, Location: req.Location, Status: req.Status}
	if err := s.sos.CreateAlert(r.Context(), alert); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleListSOS(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	alerts, err := s.sos.ListAlerts(r.Context(), user.ID, data.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}
