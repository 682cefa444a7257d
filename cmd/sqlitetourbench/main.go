package main

import (
	"context"
	"log"

	"github.com/nsqlite/sqlitetour/internal/sqlitetourbench"
)

func main() {
	if err := sqlitetourbench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
