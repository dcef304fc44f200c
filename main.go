package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"checktwfriends/config"
	"checktwfriends/database"
	"checktwfriends/handlers"
	"checktwfriends/logger"
	"checktwfriends/repositories"
	"checktwfriends/routes"
	"checktwfriends/service"
	"checktwfriends/twitter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}

	logger.InitLogger()

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logrus.Fatalf("Database error: %v", err)
	}

	repo := repositories.NewFriendRepository(db)

	// One client per process; credentials are fixed at construction.
	client := twitter.NewClient(twitter.Credentials{
		ConsumerKey:       cfg.ConsumerKey,
		ConsumerSecret:    cfg.ConsumerSecret,
		AccessToken:       cfg.AccessToken,
		AccessTokenSecret: cfg.AccessTokenSecret,
	})

	reconciler := service.NewReconciler(client, repo, cfg.FriendPageSize, cfg.FriendPageLimit)
	unfollower := service.NewUnfollower(client, repo)

	friendHandler := handlers.NewFriendHandler(repo, reconciler, unfollower)
	auth := &routes.BasicAuth{User: cfg.APIUser, PasswordHash: cfg.APIPasswordHash}

	handler := routes.SetupRoutes(friendHandler, auth)

	logrus.Infof("Server running on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logrus.Fatal(err)
	}
}
