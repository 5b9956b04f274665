package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"GameStore/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) ListHandler() http.HandlerFunc { return s.list }

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error")
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}
