package rpc

import (
	"net/http"
)

type searchParams struct {
	Terms          []string `json:"terms"`
	Page           uint64   `json:"page"`
	EntriesPerPage uint64   `json:"entriesPerPage"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params searchParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	results, err := s.node.Search(params.Terms, params.Page, params.EntriesPerPage)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, descriptionResults(results))
}
