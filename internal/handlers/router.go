package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter builds the API route table. Management routes go through the
// mocked auth middleware, public routes do not.
func NewRouter(linkHandler *LinkHandler, log zerolog.Logger, jwtSecret []byte) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger(log))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/public/links/{linkID}", linkHandler.GetLink).Methods("GET")
	router.HandleFunc("/api/public/links/{linkID}/pay", linkHandler.PayLink).Methods("POST")

	managed := router.PathPrefix("/api/payment-links").Subrouter()
	managed.Use(MockAuth(jwtSecret))
	managed.HandleFunc("", linkHandler.ListLinks).Methods("GET")
	managed.HandleFunc("", linkHandler.CreateLink).Methods("POST")
	managed.HandleFunc("/{linkID}", linkHandler.GetLink).Methods("GET")
	managed.HandleFunc("/{linkID}", linkHandler.DeleteLink).Methods("DELETE")

	return router
}
