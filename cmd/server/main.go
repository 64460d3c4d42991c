package main

import "etugal/internal/app"

func main() {
	app.Run()
}
