package main

import (
	"context"
	"log"

	"github.com/pawledger/registry-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("registry API failed: %v", err)
	}
}
