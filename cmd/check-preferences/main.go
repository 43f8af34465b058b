package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"google.golang.org/api/iterator"

	"github.com/quakeboard/api/internal/platform/config"
	firestoreclient "github.com/quakeboard/api/internal/platform/firestore"
)

// check-preferences dumps every document of the Firestore preferences
// collection, for debugging the firestore preferences backend.
func main() {
	ctx := context.Background()
	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.PreferencesBackend != config.BackendFirestore {
		log.Fatalf("PREFERENCES_BACKEND is %q, nothing to check in Firestore", cfg.PreferencesBackend)
	}

	client, source, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("firestore init: %v", err)
	}
	defer client.Close()
	fmt.Printf("Project: %s (credentials: %s)\n\n", cfg.FirebaseProjectID, source)

	iter := client.Collection("preferences").Documents(ctx)
	count := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Fatalf("iterate preferences: %v", err)
		}
		count++

		data, err := json.MarshalIndent(doc.Data(), "", "  ")
		if err != nil {
			log.Fatalf("marshal %s: %v", doc.Ref.ID, err)
		}
		fmt.Printf("%s:\n%s\n", doc.Ref.ID, data)
	}

	if count == 0 {
		fmt.Println("No preferences stored; the dashboard will use the light theme.")
		return
	}
	fmt.Printf("\n%d preference(s)\n", count)
}
