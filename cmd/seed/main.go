package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"statusboard/internal/board"
	"statusboard/internal/config"
	"statusboard/internal/store"
)

// Seeds the sample campus printers and study spaces. Existing records (by
// name) are left alone, so the command is safe to run repeatedly.
func main() {
	cfg := config.Load()

	mongoStore, err := store.NewMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer mongoStore.Close(ctx)

	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("index creation failed: %v", err)
	}

	repo := board.NewRepo(mongoStore.DB)

	printers := []board.Printer{
		{Name: "Bobst Library - Main Floor Printer", Location: "Elmer Holmes Bobst Library - 1st Floor", Building: "Bobst Library", Floor: "1"},
		{Name: "Bobst Library - Second Floor Printer", Location: "Elmer Holmes Bobst Library - 2nd Floor", Building: "Bobst Library", Floor: "2"},
		{Name: "Kimmel Center - Student Lounge Printer", Location: "Kimmel Center for University Life - 2nd Floor Student Lounge", Building: "Kimmel Center", Floor: "2"},
		{Name: "Courant Institute - Computer Lab Printer", Location: "Warren Weaver Hall - Room 101", Building: "Courant Institute", Floor: "1"},
		{Name: "Tandon School - Rogers Hall Printer", Location: "Rogers Hall - 3rd Floor Computer Lab", Building: "Tandon School of Engineering", Floor: "3"},
		{Name: "Stern School - Tisch Hall Printer", Location: "Henry Kaufman Management Center - 2nd Floor", Building: "Stern School of Business", Floor: "2"},
		{Name: "Silver Center - Student Services Printer", Location: "Silver Center - 1st Floor Student Services", Building: "Silver Center", Floor: "1"},
	}

	spaces := []board.Space{
		{Name: "Bobst Quiet Zone", Building: "Bobst Library", Floor: "9", Description: "Silent study floor", Capacity: 120},
		{Name: "Kimmel Commons", Building: "Kimmel Center", Floor: "2", Description: "Open collaborative lounge", Capacity: 80},
		{Name: "Courant Reading Room", Building: "Courant Institute", Floor: "12", Description: "Math library reading room", Capacity: 40},
	}

	inserted := 0
	for _, p := range printers {
		n, err := mongoStore.DB.Collection("printers").CountDocuments(ctx, bson.M{"name": p.Name})
		if err != nil {
			log.Fatalf("printer lookup failed: %v", err)
		}
		if n > 0 {
			continue
		}
		if _, err := repo.InsertPrinter(ctx, p); err != nil {
			log.Fatalf("printer insert failed: %v", err)
		}
		inserted++
	}
	for _, s := range spaces {
		n, err := mongoStore.DB.Collection("spaces").CountDocuments(ctx, bson.M{"name": s.Name})
		if err != nil {
			log.Fatalf("space lookup failed: %v", err)
		}
		if n > 0 {
			continue
		}
		if _, err := repo.InsertSpace(ctx, s); err != nil {
			log.Fatalf("space insert failed: %v", err)
		}
		inserted++
	}

	log.Printf("seed complete, %d records inserted", inserted)
}
