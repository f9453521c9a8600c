package main

import (
	"log"

	"github.com/krevetko/job-scout/cmd"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
