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
	"github.com/shopspring/decimal"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.HandlerFunc(c.accounts)
	totals := http.HandlerFunc(c.totalBalance)
	low := http.HandlerFunc(c.lowBalance)
	search := http.HandlerFunc(c.search)
	byNumber := http.HandlerFunc(c.accountByNumber)

	if authMiddleware != nil {
		collection = authMiddleware(collection).ServeHTTP
		totals = authMiddleware(totals).ServeHTTP
		low = authMiddleware(low).ServeHTTP
		search = authMiddleware(search).ServeHTTP
		byNumber = authMiddleware(byNumber).ServeHTTP
	}

	mux.Handle("/accounts", http.HandlerFunc(collection))
	mux.Handle("/accounts/balance/total", http.HandlerFunc(totals))
	mux.Handle("/accounts/balance/low", http.HandlerFunc(low))
	mux.Handle("/accounts/search", http.HandlerFunc(search))
	mux.Handle("/accounts/", http.HandlerFunc(byNumber))
}

func (c *AccountController) accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.createAccount(w, r)
	case http.MethodGet:
		c.listAccounts(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
	}
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreateAccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req, middleware.IdentityFrom(r.Context()))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListAccounts(r.Context(), middleware.IdentityFrom(r.Context()))
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

func (c *AccountController) accountByNumber(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	accountNumber := strings.Trim(strings.TrimPrefix(r.URL.Path, "/accounts/"), "/")
	if accountNumber == "" || strings.Contains(accountNumber, "/") {
		response := commons.ErrorResponse[models.AccountResponse]("account number is required")
		writeJSON(w, http.StatusNotFound, response)
		logResponse(r, http.StatusNotFound, response, start)
		return
	}

	response, err := c.service.GetAccount(r.Context(), accountNumber, middleware.IdentityFrom(r.Context()))
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

func (c *AccountController) totalBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TotalBalanceResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.TotalSystemBalance(r.Context(), middleware.IdentityFrom(r.Context()))
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

func (c *AccountController) lowBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.LowBalanceAccountsResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	rawThreshold := strings.TrimSpace(r.URL.Query().Get("threshold"))
	threshold, err := decimal.NewFromString(rawThreshold)
	if err != nil {
		response := commons.ErrorResponse[models.LowBalanceAccountsResponse]("validation failed", "threshold must be a decimal amount")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.LowBalanceAccounts(r.Context(), threshold, middleware.IdentityFrom(r.Context()))
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

func (c *AccountController) search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.AccountSearchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	size, _ := strconv.Atoi(query.Get("size"))

	response, err := c.service.SearchAccounts(r.Context(), query.Get("query"), page, size, middleware.IdentityFrom(r.Context()))
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
