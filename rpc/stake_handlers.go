package rpc

import (
	"fmt"
	"net/http"

	"defind/core/types"
)

type getStakesParams struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
	Link   string `json:"link"`
}

func (s *Server) handleGetStakes(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params getStakesParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	owner := caller
	if params.Owner != "" {
		owner, err = resolveCaller(params.Owner)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	entries, err := s.node.GetStakes(caller, types.Website{Owner: owner, Link: params.Link})
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, stakeEntryResults(entries))
}

type stakeDeltaParam struct {
	Op    string `json:"op"`
	Term  string `json:"term"`
	Value int64  `json:"value"`
}

type applyStakeDeltaParams struct {
	Caller string            `json:"caller"`
	Link   string            `json:"link"`
	Deltas []stakeDeltaParam `json:"deltas"`
}

func (s *Server) handleApplyStakeDelta(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params applyStakeDeltaParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	deltas := make([]types.StakeDelta, 0, len(params.Deltas))
	for _, delta := range params.Deltas {
		op, err := parseStakeDeltaOp(delta.Op)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
		deltas = append(deltas, types.StakeDelta{Op: op, Term: delta.Term, Value: delta.Value})
	}
	entries, err := s.node.ApplyStakeDelta(caller, params.Link, deltas)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, stakeEntryResults(entries))
}

func parseStakeDeltaOp(op string) (types.StakeDeltaOp, error) {
	switch op {
	case "add":
		return types.StakeDeltaAdd, nil
	case "remove":
		return types.StakeDeltaRemove, nil
	default:
		return 0, fmt.Errorf("unknown stake delta op %q", op)
	}
}
