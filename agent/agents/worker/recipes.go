package worker

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/diego-hdz1/A2A-MCP-RestaurantDemo/agent/contract"
)

// Kind is the closed set of kitchen stations. Its value is the card id.
type Kind string

const (
	KindBurger Kind = "hamburguesa"
	KindHotDog Kind = "hotdog"
	KindPizza  Kind = "pizza"
)

// Kinds returns every station in registration order.
func Kinds() []Kind {
	return []Kind{KindBurger, KindHotDog, KindPizza}
}

type step struct {
	label    string
	duration time.Duration
}

type recipe struct {
	card        contractx.CapabilityCard
	item        string
	toolItem    string
	steps       []step
	ingredients []string
	validate    bool
	qualities   []string
	details     map[string]string
	render      func(res contractx.PreparationResult) string
}

func recipeFor(kind Kind, url string) (recipe, error) {
	switch kind {
	case KindBurger:
		return burgerRecipe(url), nil
	case KindHotDog:
		return hotDogRecipe(url), nil
	case KindPizza:
		return pizzaRecipe(url), nil
	default:
		return recipe{}, fmt.Errorf("%w: unknown worker kind %q", contractx.ErrValidation, kind)
	}
}

func newCard(kind Kind, name, description, url string, skill contractx.Skill) contractx.CapabilityCard {
	return contractx.CapabilityCard{
		ID:                 string(kind),
		DisplayName:        name,
		Description:        description,
		URL:                url,
		Version:            "1.0.0",
		Skills:             []contractx.Skill{skill},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}
}

func burgerRecipe(url string) recipe {
	return recipe{
		card: newCard(KindBurger,
			"Hamburguesa Chef",
			"Agente especializado en preparación de hamburguesas gourmet con ingredientes premium",
			url,
			contractx.Skill{
				ID:          "hamburguesa-preparar",
				Name:        "Preparar Hamburguesa",
				Description: "Prepara una hamburguesa gourmet con ingredientes especificados",
				Tags:        []string{"hamburguesa", "carne", "parrilla", "comida rápida", "gourmet"},
				Examples: []string{
					"Preparar una hamburguesa con queso",
					"Quiero una hamburguesa doble con tocino",
					"Hamburguesa vegetariana",
				},
			},
		),
		item:     "hamburguesa",
		toolItem: "Hamburguesa Gourmet",
		steps: []step{
			{"Preparando la carne de res premium", 1000 * time.Millisecond},
			{"Cocinando a la parrilla a punto medio", 1500 * time.Millisecond},
			{"Tostando el pan brioche", 800 * time.Millisecond},
			{"Añadiendo vegetales frescos", 700 * time.Millisecond},
			{"Agregando queso cheddar artesanal", 500 * time.Millisecond},
			{"Empaquetando con cuidado", 500 * time.Millisecond},
		},
		ingredients: []string{"carne", "queso", "lechuga", "tomate", "salsa especial"},
		validate:    true,
		qualities:   []string{"excelente", "muy buena", "premium"},
		details:     map[string]string{"temperature": "Caliente (75°C)"},
		render: func(res contractx.PreparationResult) string {
			check := "Completado ✓"
			if res.QualityCheck == "" {
				check = "No disponible"
			}
			return "Hamburguesa preparada exitosamente!\n\n" +
				"Detalles:\n" +
				fmt.Sprintf("  • Calidad: %s\n", res.Quality) +
				fmt.Sprintf("  • Tiempo: %.1fs\n", res.PreparationTime.Seconds()) +
				fmt.Sprintf("  • Ingredientes: %s\n", strings.Join(res.Ingredients, ", ")) +
				fmt.Sprintf("  • Temperatura: %s\n", res.Details["temperature"]) +
				"  • MCP Quality Check: " + check
		},
	}
}

func hotDogRecipe(url string) recipe {
	return recipe{
		card: newCard(KindHotDog,
			"Hot Dog Master",
			"Agente especializado en preparación de hot dogs artesanales estilo Nueva York",
			url,
			contractx.Skill{
				ID:          "hotdog-preparar",
				Name:        "Preparar Hot Dog",
				Description: "Prepara un hot dog artesanal con toppings personalizados",
				Tags:        []string{"hot dog", "salchicha", "comida rápida", "artesanal"},
				Examples: []string{
					"Preparar un hot dog con mostaza",
					"Hot dog con todas las salsas",
					"Quiero un hot dog estilo Nueva York",
				},
			},
		),
		item:     "hot_dog",
		toolItem: "Hot Dog Estilo Nueva York",
		steps: []step{
			{"Seleccionando salchicha premium", 800 * time.Millisecond},
			{"Asando a la perfección", 1200 * time.Millisecond},
			{"Calentando pan especial", 600 * time.Millisecond},
			{"Agregando cebolla caramelizada", 500 * time.Millisecond},
			{"Añadiendo salsas gourmet", 400 * time.Millisecond},
			{"Presentación final", 400 * time.Millisecond},
		},
		ingredients: []string{"mostaza dijon", "ketchup orgánico", "cebolla crujiente", "jalapeños"},
		qualities:   []string{"excepcional", "muy buena", "excelente"},
		details:     map[string]string{"style": "Estilo Nueva York"},
		render: func(res contractx.PreparationResult) string {
			return "Hot Dog preparado con maestría!\n\n" +
				"Detalles:\n" +
				fmt.Sprintf("  • Calidad: %s\n", res.Quality) +
				fmt.Sprintf("  • Tiempo: %.1fs\n", res.PreparationTime.Seconds()) +
				fmt.Sprintf("  • Toppings: %s\n", strings.Join(res.Ingredients, ", ")) +
				fmt.Sprintf("  • Estilo: %s", res.Details["style"])
		},
	}
}

func pizzaRecipe(url string) recipe {
	return recipe{
		card: newCard(KindPizza,
			"Pizza Artisan",
			"Agente especializado en preparación de pizzas artesanales al horno de piedra estilo napolitano",
			url,
			contractx.Skill{
				ID:          "pizza-preparar",
				Name:        "Preparar Pizza",
				Description: "Prepara una pizza artesanal al horno de piedra con ingredientes frescos",
				Tags:        []string{"pizza", "horno", "masa", "italiano", "artesanal", "napolitana"},
				Examples: []string{
					"Preparar una pizza margherita",
					"Pizza con pepperoni",
					"Quiero una pizza vegetariana grande",
				},
			},
		),
		item:     "pizza",
		toolItem: "Pizza Napolitana mediana",
		steps: []step{
			{"Amasando la masa artesanal", 1500 * time.Millisecond},
			{"Esparciendo salsa de tomate San Marzano", 700 * time.Millisecond},
			{"Agregando mozzarella di bufala", 800 * time.Millisecond},
			{"Distribuyendo ingredientes premium", 1000 * time.Millisecond},
			{"Horneando en horno de piedra a 450°C", 2000 * time.Millisecond},
			{"Cortando en porciones perfectas", 500 * time.Millisecond},
			{"Presentación en caja artesanal", 500 * time.Millisecond},
		},
		ingredients: []string{"pepperoni premium", "champiñones frescos", "albahaca", "extra queso"},
		qualities:   []string{"magistral", "excelente", "premium"},
		details:     map[string]string{"size": "mediana", "temperature": "Servida a 85°C"},
		render: func(res contractx.PreparationResult) string {
			return "Pizza preparada al estilo napolitano!\n\n" +
				"Detalles:\n" +
				fmt.Sprintf("  • Calidad: %s\n", res.Quality) +
				fmt.Sprintf("  • Tiempo: %.1fs\n", res.PreparationTime.Seconds()) +
				fmt.Sprintf("  • Tamaño: %s\n", res.Details["size"]) +
				fmt.Sprintf("  • Ingredientes: %s\n", strings.Join(res.Ingredients, ", ")) +
				fmt.Sprintf("  • Temperatura: %s", res.Details["temperature"])
		},
	}
}
