package rpc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"defind/core"
	"defind/crypto"
	"defind/native/common"
	"defind/native/ledger"
	"defind/native/search"
	"defind/native/stake"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000

	codeAnonymousCaller      = -32030
	codeNotOwner             = -32031
	codeInsufficientFunds    = -32032
	codeWithdrawalInProgress = -32033
	codeBalanceOverflow      = -32034
)

// Server exposes the node's operation surface over JSON-RPC 2.0.
type Server struct {
	node      *core.Node
	authToken string
}

// NewServer creates an RPC server for the node. A bearer token for mutating
// methods is taken from DEFIND_RPC_TOKEN when set.
func NewServer(node *core.Node) *Server {
	token := strings.TrimSpace(os.Getenv("DEFIND_RPC_TOKEN"))
	return &Server{
		node:      node,
		authToken: token,
	}
}

// Start serves the RPC endpoint on its own listener.
func (s *Server) Start(addr string) error {
	fmt.Printf("Starting JSON-RPC server on %s\n", addr)
	mux := http.NewServeMux()
	mux.Handle("/", s)
	return http.ListenAndServe(addr, mux)
}

// ServeHTTP implements http.Handler so the server can also be mounted behind
// the gateway router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handle(w, r)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "failed to read request body", nil)
		return
	}
	if len(body) > maxRequestBytes {
		writeError(w, http.StatusRequestEntityTooLarge, nil, codeInvalidRequest, "request body too large", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON-RPC request", err.Error())
		return
	}

	switch req.Method {
	case "search_getBalance":
		s.handleGetBalance(w, r, &req)
	case "search_deposit":
		s.handleDeposit(w, r, &req)
	case "search_withdraw":
		s.handleWithdraw(w, r, &req)
	case "search_getStakes":
		s.handleGetStakes(w, r, &req)
	case "search_applyStakeDelta":
		s.handleApplyStakeDelta(w, r, &req)
	case "search_setDescription":
		s.handleSetDescription(w, r, &req)
	case "search_getWebsites":
		s.handleGetWebsites(w, r, &req)
	case "search_removeWebsite":
		s.handleRemoveWebsite(w, r, &req)
	case "search_query":
		s.handleSearch(w, r, &req)
	case "search_getEvents":
		s.handleGetEvents(w, r, &req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
	}
}

type rpcAuthError struct {
	Code    int
	Message string
	Data    interface{}
}

func (s *Server) requireAuth(r *http.Request) *rpcAuthError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &rpcAuthError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &rpcAuthError{Code: codeUnauthorized, Message: "invalid bearer token"}
	}
	return nil
}

// resolveCaller maps the request's caller field to an identity. An absent
// caller resolves to the anonymous sentinel, which every guarded operation
// rejects.
func resolveCaller(caller string) (crypto.Identity, error) {
	trimmed := strings.TrimSpace(caller)
	if trimmed == "" {
		return crypto.Anonymous, nil
	}
	return crypto.DecodeIdentity(trimmed)
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

// writeEngineError maps engine failures onto JSON-RPC error codes.
func writeEngineError(w http.ResponseWriter, req *RPCRequest, err error) {
	var insufficientStake *stake.InsufficientStakeError
	var insufficientCredits *stake.InsufficientCreditsError
	switch {
	case errors.Is(err, common.ErrAnonymousCaller):
		writeError(w, http.StatusUnauthorized, req.ID, codeAnonymousCaller, err.Error(), nil)
	case errors.Is(err, common.ErrNotOwner):
		writeError(w, http.StatusForbidden, req.ID, codeNotOwner, err.Error(), nil)
	case errors.Is(err, ledger.ErrWithdrawalInProgress):
		writeError(w, http.StatusConflict, req.ID, codeWithdrawalInProgress, err.Error(), nil)
	case errors.Is(err, stake.ErrInsufficientUnstakedBalance):
		writeError(w, http.StatusBadRequest, req.ID, codeInsufficientFunds, err.Error(), nil)
	case errors.As(err, &insufficientStake):
		writeError(w, http.StatusBadRequest, req.ID, codeInsufficientFunds, err.Error(), insufficientStake.Term)
	case errors.As(err, &insufficientCredits):
		writeError(w, http.StatusBadRequest, req.ID, codeInsufficientFunds, err.Error(), insufficientCredits.Term)
	case errors.Is(err, ledger.ErrBalanceOverflow), errors.Is(err, stake.ErrBalanceOverflow):
		writeError(w, http.StatusBadRequest, req.ID, codeBalanceOverflow, err.Error(), nil)
	case errors.Is(err, search.ErrInvalidPageSize):
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, err.Error(), nil)
	}
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(&RPCResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Result:  result,
	})
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&RPCResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}
