package rpc

import (
	"net/http"

	"defind/core/types"
)

type eventsParams struct {
	Limit int `json:"limit"`
}

// EventResult is the wire shape of one recorded event.
type EventResult struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params eventsParams
	if len(req.Params) > 0 {
		if err := decodeParams(req, &params); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	if params.Limit < 0 {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "limit must not be negative", nil)
		return
	}
	writeResult(w, req.ID, eventResults(s.node.Events(params.Limit)))
}

func eventResults(events []types.Event) []EventResult {
	out := make([]EventResult, 0, len(events))
	for _, evt := range events {
		attrs := make(map[string]string, len(evt.Attributes))
		for k, v := range evt.Attributes {
			attrs[k] = v
		}
		out = append(out, EventResult{Type: evt.Type, Attributes: attrs})
	}
	return out
}
