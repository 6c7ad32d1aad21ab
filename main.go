package main

import (
	_ "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/pkg/logger/autoload"
)

func main() {
	Execute()
}
