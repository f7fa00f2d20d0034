package server

import (
	"io"
	"net/http"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
	protocolx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/protocol"
)

// maxEnvelopeBytes bounds inbound request envelopes.
const maxEnvelopeBytes = 1 << 20

// handleMCP accepts one request envelope and answers with the matching
// response or error envelope. Envelope validation failures are HTTP errors;
// action failures are error envelopes on a 200.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEnvelopeBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocolx.NewError("read request body: "+err.Error(), contractx.CodeValidation, "", ""))
		return
	}

	env, err := protocolx.ValidateRequest(raw)
	if err != nil {
		code := contractx.CodeOf(err)
		writeJSON(w, contractx.HTTPStatusOf(code), protocolx.NewError(err.Error(), code, env.RequestID, env.Action))
		return
	}

	writeJSON(w, http.StatusOK, s.gw.Handle(r.Context(), env))
}
