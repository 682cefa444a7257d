package main

import (
	"context"
	"log"

	"github.com/nsqlite/sqlitetour/internal/sqlitetour"
)

func main() {
	if err := sqlitetour.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
