package main

import (
	"os"

	"tunectl/internal/tunectl"
)

func main() {
	os.Exit(tunectl.Main())
}
