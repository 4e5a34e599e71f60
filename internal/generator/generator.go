package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Person is one generated :Person vertex.
type Person struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	City     string    `json:"city"`
	Age      int       `json:"age"`
	Score    float64   `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Friendship is one generated :KNOWS edge.
type Friendship struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Since  time.Time `json:"since"`
	Weight float64   `json:"weight"`
}

// Dataset contains the generated people and friendships.
type Dataset struct {
	People      []Person     `json:"people"`
	Friendships []Friendship `json:"friendships"`
}

// Generator produces a synthetic social graph.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	cities        []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumPeople <= 0 {
		cfg.NumPeople = DefaultConfig().NumPeople
	}
	if cfg.NumFriendships < 0 {
		cfg.NumFriendships = DefaultConfig().NumFriendships
	}
	if cfg.SharedCityChance <= 0 {
		cfg.SharedCityChance = DefaultConfig().SharedCityChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises people and friendships. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	people := make([]Person, g.cfg.NumPeople)
	epoch := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < g.cfg.NumPeople; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		first, last := g.randomName()
		people[i] = Person{
			ID:       fmt.Sprintf("P-%06d", i+1),
			Name:     first + " " + last,
			Email:    g.randomEmail(first, last, i+1),
			City:     g.maybeSharedCity(),
			Age:      18 + g.rand.Intn(60),
			Score:    float64(g.rand.Intn(10000)) / 100,
			JoinedAt: epoch.Add(time.Duration(g.rand.Intn(365*24)) * time.Hour),
		}
	}

	var friendships []Friendship
	if len(people) > 1 {
		friendships = make([]Friendship, g.cfg.NumFriendships)
	}
	for i := range friendships {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		fromIdx := g.rand.Intn(len(people))
		toIdx := g.rand.Intn(len(people))
		if fromIdx == toIdx {
			toIdx = (toIdx + 1) % len(people)
		}

		from, to := people[fromIdx], people[toIdx]
		since := from.JoinedAt
		if to.JoinedAt.After(since) {
			since = to.JoinedAt
		}
		friendships[i] = Friendship{
			From:   from.ID,
			To:     to.ID,
			Since:  since.Add(time.Duration(g.rand.Intn(30*24)) * time.Hour),
			Weight: float64(g.rand.Intn(100)+1) / 100,
		}
	}

	return Dataset{People: people, Friendships: friendships}, nil
}

// PersonStatements renders one CREATE statement per person.
func PersonStatements(people []Person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, fmt.Sprintf(
			"CREATE (:Person {id: %s, name: %s, email: %s, city: %s, age: %d, score: %s, joined_at: %s})",
			quote(p.ID), quote(p.Name), quote(p.Email), quote(p.City), p.Age,
			strconv.FormatFloat(p.Score, 'f', -1, 64), quote(p.JoinedAt.Format(time.RFC3339)),
		))
	}
	return out
}

// FriendshipStatements renders one MATCH ... CREATE statement per
// friendship. Both endpoints must already exist.
func FriendshipStatements(friendships []Friendship) []string {
	out := make([]string, 0, len(friendships))
	for _, f := range friendships {
		out = append(out, fmt.Sprintf(
			"MATCH (a:Person {id: %s}), (b:Person {id: %s}) CREATE (a)-[:KNOWS {since: %s, weight: %s}]->(b)",
			quote(f.From), quote(f.To), quote(f.Since.Format(time.RFC3339)),
			strconv.FormatFloat(f.Weight, 'f', -1, 64),
		))
	}
	return out
}

// quote renders s as a Cypher string literal without backslash escapes,
// which cypher() wrapping would double. Generated strings never contain
// both quote characters.
func quote(s string) string {
	if strings.ContainsRune(s, '\'') {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}

func (g *Generator) maybeSharedCity() string {
	if len(g.cities) > 0 && g.rand.Float64() < g.cfg.SharedCityChance {
		return g.cities[g.rand.Intn(len(g.cities))]
	}
	city := g.nameFragments.cities[g.rand.Intn(len(g.nameFragments.cities))]
	g.cities = append(g.cities, city)
	return city
}

func (g *Generator) randomName() (string, string) {
	return g.nameFragments.first[g.rand.Intn(len(g.nameFragments.first))],
		g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))]
}

func (g *Generator) randomEmail(first, last string, n int) string {
	domain := g.nameFragments.domains[g.rand.Intn(len(g.nameFragments.domains))]
	return fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), n, domain)
}

type nameFragments struct {
	first   []string
	last    []string
	domains []string
	cities  []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:   []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:    []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "O'Neil"},
		domains: []string{"example.com", "mail.com", "graph.dev", "people.net"},
		cities:  []string{"San Francisco", "New York", "Seattle", "Austin", "Chicago", "Miami", "Denver", "Boston", "Los Angeles"},
	}
}
