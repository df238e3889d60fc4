package main

import (
	"log"

	tool "github.com/foodshareapp/foodshare-backend/internal/tools/loadgen"
)

func main() {
	if err := tool.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
