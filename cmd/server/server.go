package main

import (
	"contact-hub/internal"
)

func main() {
	internal.Init()
}
