package main

import (
	"db-sync/cmd"

	_ "github.com/lib/pq"
)

func main() {
	cmd.Execute()
}
