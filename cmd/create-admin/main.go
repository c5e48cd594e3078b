package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"statusboard/internal/config"
	"statusboard/internal/store"
	"statusboard/internal/user"
)

// Registers an account and flags it as admin, or promotes an existing one.
func main() {
	email := flag.String("email", "", "institutional email of the admin account")
	password := flag.String("password", "", "initial password (ignored when promoting)")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: create-admin -email admin@nyu.edu -password <password>")
	}

	cfg := config.Load()
	mongoStore, err := store.NewMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer mongoStore.Close(ctx)

	repo := user.NewRepo(mongoStore.DB)
	users := user.NewService(repo, cfg.EmailDomain, cfg.MinPasswordLen)

	existing, err := repo.FindByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("lookup failed: %v", err)
	}

	if existing == nil {
		if *password == "" {
			log.Fatal("-password is required when the account does not exist yet")
		}
		acct, err := users.Register(ctx, *email, *password)
		if err != nil {
			log.Fatalf("register failed: %v", err)
		}
		existing = &acct
	}

	res, err := mongoStore.DB.Collection("users").UpdateOne(ctx,
		bson.M{"email": existing.Email},
		bson.M{"$set": bson.M{"admin": true}})
	if err != nil || res.MatchedCount == 0 {
		log.Fatalf("admin promotion failed: %v", err)
	}

	log.Printf("admin ready: %s (netid %s)", existing.Email, existing.NetID)
}
