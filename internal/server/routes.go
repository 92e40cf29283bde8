package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/opportunities", handler(s.getV1Opportunities))
		r.Get("/status", handler(s.getV1Status))
		r.Put("/threshold", handler(s.putV1Threshold))
		r.Post("/scans", handler(s.postV1Scans))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(r.Context(), w, err)
		}
	}
}
