package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("starting")
	defer fmt.Println("never printed")

	if len(os.Args) > 2 {
		os.Exit(2) // want "direct os.Exit call in main.main"
	}

	func() {
		os.Exit(1) // want "direct os.Exit call in main.main"
	}()

	exit(0)
}

func exit(code int) {
	os.Exit(code)
}
