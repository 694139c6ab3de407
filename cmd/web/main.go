package main

import "healthtrack_backend/internal/app"

func main() {
	app.Run()
}
