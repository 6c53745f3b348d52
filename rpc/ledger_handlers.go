package rpc

import (
	"net/http"
	"strconv"
)

type getBalanceParams struct {
	Caller string `json:"caller"`
}

type balanceResult struct {
	Balance string `json:"balance"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params getBalanceParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	balance, err := s.node.GetBalance(caller)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, balanceResult{Balance: strconv.FormatUint(balance, 10)})
}

type depositParams struct {
	Caller    string `json:"caller"`
	MaxAmount string `json:"maxAmount"`
	Attached  string `json:"attached"`
}

type depositResult struct {
	Accepted string `json:"accepted"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params depositParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	maxAmount, err := parseAmount(params.MaxAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	attached, err := parseAmount(params.Attached)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	accepted, err := s.node.Deposit(caller, maxAmount, attached)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, depositResult{Accepted: strconv.FormatUint(accepted, 10)})
}

type withdrawParams struct {
	Caller      string `json:"caller"`
	MaxAmount   string `json:"maxAmount"`
	Destination string `json:"destination"`
}

type withdrawResult struct {
	Withdrawn string `json:"withdrawn"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params withdrawParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	maxAmount, err := parseAmount(params.MaxAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	destination := caller
	if params.Destination != "" {
		destination, err = resolveCaller(params.Destination)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	withdrawn, err := s.node.Withdraw(r.Context(), caller, maxAmount, destination)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, withdrawResult{Withdrawn: strconv.FormatUint(withdrawn, 10)})
}
