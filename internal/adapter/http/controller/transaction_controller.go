package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/middleware"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/adapter/http/models"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/commons"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/logger"
	"github.com/MACKENA05/Alpha-Bank-Backend/internal/usecase/service_interfaces"
)

type TransactionController struct {
	deposits    service_interfaces.DepositService
	withdrawals service_interfaces.WithdrawalService
	history     service_interfaces.HistoryService
}

func NewTransactionController(
	deposits service_interfaces.DepositService,
	withdrawals service_interfaces.WithdrawalService,
	history service_interfaces.HistoryService,
) *TransactionController {
	return &TransactionController{
		deposits:    deposits,
		withdrawals: withdrawals,
		history:     history,
	}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	deposit := http.HandlerFunc(c.deposit)
	withdraw := http.HandlerFunc(c.withdraw)
	history := http.HandlerFunc(c.transactionHistory)
	byReference := http.HandlerFunc(c.transactionByReference)

	if authMiddleware != nil {
		deposit = authMiddleware(deposit).ServeHTTP
		withdraw = authMiddleware(withdraw).ServeHTTP
		history = authMiddleware(history).ServeHTTP
		byReference = authMiddleware(byReference).ServeHTTP
	}

	mux.Handle("/transactions/deposit", http.HandlerFunc(deposit))
	mux.Handle("/transactions/withdraw", http.HandlerFunc(withdraw))
	mux.Handle("/transactions/history", http.HandlerFunc(history))
	mux.Handle("/transactions/", http.HandlerFunc(byReference))
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionReceipt]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionReceipt]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.deposits.Deposit(r.Context(), req, middleware.IdentityFrom(r.Context()))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionReceipt]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionReceipt]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.withdrawals.Withdraw(r.Context(), req, middleware.IdentityFrom(r.Context()))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) transactionHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransactionHistoryResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	req := historyRequestFromQuery(r)

	response, err := c.history.GetTransactionHistory(r.Context(), req, middleware.IdentityFrom(r.Context()))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *TransactionController) transactionByReference(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransactionDetail]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	referenceNumber := strings.Trim(strings.TrimPrefix(r.URL.Path, "/transactions/"), "/")
	if referenceNumber == "" || strings.Contains(referenceNumber, "/") {
		response := commons.ErrorResponse[models.TransactionDetail]("reference number is required")
		writeJSON(w, http.StatusNotFound, response)
		logResponse(r, http.StatusNotFound, response, start)
		return
	}

	response, err := c.history.GetTransactionByReference(r.Context(), referenceNumber, middleware.IdentityFrom(r.Context()))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func historyRequestFromQuery(r *http.Request) models.TransactionHistoryRequest {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))

	return models.TransactionHistoryRequest{
		AccountNumber:        query.Get("accountNumber"),
		StartDate:            query.Get("startDate"),
		EndDate:              query.Get("endDate"),
		TransactionType:      query.Get("transactionType"),
		TransactionDirection: query.Get("transactionDirection"),
		MinAmount:            query.Get("minAmount"),
		MaxAmount:            query.Get("maxAmount"),
		Page:                 page,
		Size:                 size,
		SortBy:               query.Get("sortBy"),
		SortDirection:        query.Get("sortDirection"),
	}
}
