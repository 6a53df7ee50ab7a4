package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/vitalis/internal/cli"
)

func main() {
	cli.Execute()
}
