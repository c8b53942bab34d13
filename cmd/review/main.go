package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	apphandler "github.com/careerbridge/careerbridge/backend/go-services/internal/application/handler"
	apprepo "github.com/careerbridge/careerbridge/backend/go-services/internal/application/repository"
	appservice "github.com/careerbridge/careerbridge/backend/go-services/internal/application/service"
	"github.com/careerbridge/careerbridge/backend/go-services/internal/database"
	postingrepo "github.com/careerbridge/careerbridge/backend/go-services/internal/posting/repository"
)

// Standalone review API: the application/status surface without uploads,
// identity or caching. Useful for demos and frontend development.
func main() {
	port := os.Getenv("REVIEW_SERVICE_PORT")
	if port == "" {
		port = "5020"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Prefer Mongo-backed repositories when MONGODB_URI is provided.
	var postings apphandler.PostingStore = postingrepo.NewMemoryRepo()
	var applications apprepo.Repository = apprepo.NewMemoryRepo()
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repos", err)
		} else {
			db := client.Database(os.Getenv("MONGODB_DATABASE"))
			postings = postingrepo.NewMongoRepo(db.Collection("postings"))
			applications = apprepo.NewMongoRepo(db.Collection("applications"))
		}
	}

	h := apphandler.New(appservice.NewService(applications), postings, nil, nil)
	h.Register(r.Group("/api/v1"))

	log.Printf("review service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
