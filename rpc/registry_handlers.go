package rpc

import (
	"net/http"

	"defind/core/types"
)

type setDescriptionParams struct {
	Caller      string `json:"caller"`
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

type ackResult struct {
	OK bool `json:"ok"`
}

func (s *Server) handleSetDescription(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params setDescriptionParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	desc := types.WebsiteDescription{
		Name:        params.Name,
		Link:        params.Link,
		Description: params.Description,
	}
	if err := s.node.SetDescription(caller, desc); err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{OK: true})
}

type getWebsitesParams struct {
	Caller string `json:"caller"`
}

func (s *Server) handleGetWebsites(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params getWebsitesParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	descs, err := s.node.GetWebsites(caller)
	if err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, descriptionResults(descs))
}

type removeWebsiteParams struct {
	Caller string `json:"caller"`
	Link   string `json:"link"`
}

func (s *Server) handleRemoveWebsite(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params removeWebsiteParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := resolveCaller(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.node.RemoveWebsite(caller, params.Link); err != nil {
		writeEngineError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{OK: true})
}
