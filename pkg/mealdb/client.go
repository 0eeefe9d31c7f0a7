// Package mealdb is a small client for TheMealDB recipe API.
package mealdb

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/anonto42/food-roulette/backend/pkg/upstream"
)

// ErrNoMeals is returned when the API answers with an empty meal list.
var ErrNoMeals = errors.New("no meals returned")

const maxIngredients = 20

// Meal is a recipe as returned by lookup, search and random. Ingredient slots
// strIngredient1..strIngredient20 are collected into Slots.
type Meal struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Category     string `json:"strCategory"`
	Area         string `json:"strArea"`
	Instructions string `json:"strInstructions"`
	Thumbnail    string `json:"strMealThumb"`
	YouTube      string `json:"strYoutube"`

	Slots [maxIngredients]string `json:"-"`
}

// Ingredients returns the used ingredient slots in order.
func (m Meal) Ingredients() []string {
	var out []string
	for _, s := range m.Slots {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Summary is an entry of the filter endpoints, which carry no details.
type Summary struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

// API is what the handlers need from the recipe service.
type API interface {
	SearchByName(ctx context.Context, name string) (*Meal, error)
	LookupByID(ctx context.Context, id string) (*Meal, error)
	FilterByArea(ctx context.Context, area string) ([]Summary, error)
	FilterByCategory(ctx context.Context, category string) ([]Summary, error)
	Random(ctx context.Context) (*Meal, error)
}

// Client implements API over HTTP.
type Client struct {
	http *upstream.Client
}

// NewClient wraps an upstream client pointed at the API base URL.
func NewClient(c *upstream.Client) *Client {
	return &Client{http: c}
}

// SearchByName returns the first meal whose title matches name.
func (c *Client) SearchByName(ctx context.Context, name string) (*Meal, error) {
	return c.first(ctx, "search.php", url.Values{"s": {name}})
}

func (c *Client) LookupByID(ctx context.Context, id string) (*Meal, error) {
	return c.first(ctx, "lookup.php", url.Values{"i": {id}})
}

func (c *Client) Random(ctx context.Context) (*Meal, error) {
	return c.first(ctx, "random.php", nil)
}

// FilterByArea lists the meals of a cuisine ("Italian", "British", ...).
func (c *Client) FilterByArea(ctx context.Context, area string) ([]Summary, error) {
	return c.filter(ctx, url.Values{"a": {area}})
}

func (c *Client) FilterByCategory(ctx context.Context, category string) ([]Summary, error) {
	return c.filter(ctx, url.Values{"c": {category}})
}

func (c *Client) first(ctx context.Context, path string, params url.Values) (*Meal, error) {
	var resp struct {
		Meals []map[string]any `json:"meals"`
	}
	if err := c.http.GetJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, ErrNoMeals
	}
	m := decodeMeal(resp.Meals[0])
	return &m, nil
}

func (c *Client) filter(ctx context.Context, params url.Values) ([]Summary, error) {
	var resp struct {
		Meals []Summary `json:"meals"`
	}
	if err := c.http.GetJSON(ctx, "filter.php", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, ErrNoMeals
	}
	return resp.Meals, nil
}

// decodeMeal reads the flat payload; absent and null fields stay empty.
func decodeMeal(raw map[string]any) Meal {
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	m := Meal{
		ID:           str("idMeal"),
		Name:         str("strMeal"),
		Category:     str("strCategory"),
		Area:         str("strArea"),
		Instructions: str("strInstructions"),
		Thumbnail:    str("strMealThumb"),
		YouTube:      str("strYoutube"),
	}
	for i := range maxIngredients {
		m.Slots[i] = str("strIngredient" + strconv.Itoa(i+1))
	}
	return m
}

// PickRandom returns one entry of list chosen uniformly.
func PickRandom(list []Summary) (Summary, error) {
	if len(list) == 0 {
		return Summary{}, fmt.Errorf("pick random: %w", ErrNoMeals)
	}
	return list[rand.IntN(len(list))], nil
}
