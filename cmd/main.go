package main

import (
	"os"

	"github.com/gadzooks/quiz-superbowl-seahawks-patriots-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
