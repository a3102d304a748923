package main

import "kra360/internal/app/server"

func main() {
	server.Run()
}
