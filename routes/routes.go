package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checktwfriends/handlers"
	"checktwfriends/monitoring"
)

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(friendHandler *handlers.FriendHandler, auth *BasicAuth) http.Handler {
	router := mux.NewRouter()

	// Tracked-friend routes, all behind operator auth
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)
	api.HandleFunc("/friends", friendHandler.GetFriends).Methods("GET")
	api.HandleFunc("/friends/check", friendHandler.CheckFriends).Methods("GET")
	api.HandleFunc("/friends/need_unfollow", friendHandler.GetNeedUnfollow).Methods("GET")
	api.HandleFunc("/friends/need_unfollow/{handle}", friendHandler.UpdateNeedUnfollow).Methods("PATCH")
	api.HandleFunc("/friends/unfollow", friendHandler.Unfollow).Methods("DELETE")

	// Add metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
