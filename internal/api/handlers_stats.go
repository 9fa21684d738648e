package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{}
	if s.stats != nil {
		resp["latency"] = s.stats.Snapshot()
	}
	if s.runner != nil {
		resp["queue_depth"] = s.runner.QueueDepth()
		resp["jobs"] = s.runner.JobCount()
	}
	writeJSON(w, http.StatusOK, resp)
}
