package main

import (
	"fmt"
	"os"

	"yashubustudio/textcloud/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "textcloud: %v\n", err)
		os.Exit(1)
	}
}
