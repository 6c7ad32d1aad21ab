package main

import (
	"fmt"
	"os"
	"strings"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
	"gopkg.in/yaml.v3"
)

func defaultOrders() []contractx.Order {
	return []contractx.Order{
		{ID: "ORD-001", Description: "Preparar una hamburguesa con queso cheddar y tocino"},
		{ID: "ORD-002", Description: "Preparar una pizza familiar con pepperoni y extra queso"},
		{ID: "ORD-003", Description: "Preparar un hot dog con todas las salsas y cebolla caramelizada"},
		{ID: "ORD-004", Description: "Preparar dos hamburguesas dobles con queso y pepinillos"},
		{ID: "ORD-005", Description: "Preparar una pizza vegetariana con champiñones y aceitunas"},
	}
}

type orderFile struct {
	Orders []contractx.Order `yaml:"orders"`
}

// loadOrders reads a YAML order list. Both a bare list and an `orders:` key
// are accepted; orders without an id are numbered by position.
func loadOrders(path string) ([]contractx.Order, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return defaultOrders(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	return parseOrders(raw)
}

func parseOrders(raw []byte) ([]contractx.Order, error) {
	var orders []contractx.Order

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse orders file: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&orders); err != nil {
			return nil, fmt.Errorf("parse orders list: %w", err)
		}
	} else {
		var file orderFile
		if err := node.Decode(&file); err != nil {
			return nil, fmt.Errorf("parse orders file: %w", err)
		}
		orders = file.Orders
	}

	if len(orders) == 0 {
		return nil, fmt.Errorf("orders file contains no orders")
	}
	for i := range orders {
		if strings.TrimSpace(orders[i].ID) == "" {
			orders[i].ID = fmt.Sprintf("ORD-%03d", i+1)
		}
	}
	return orders, nil
}
