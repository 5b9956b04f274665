package catalog

import "context"

// Product is a catalog entry. The catalog is loaded once at startup and
// never mutated; List must return entries in insertion order.
type Product struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Price  int64    `json:"price"`
	Genre  string   `json:"genre"`
	Tags   []string `json:"tags"`
	Rating float64  `json:"rating"`
	Cover  string   `json:"cover"`
}

type Store interface {
	List(ctx context.Context) ([]Product, error)
	Ping(ctx context.Context) error
}

// Seed is the built-in demo catalog.
func Seed() []Product {
	return []Product{
		{
			ID:     1,
			Title:  "RacerX: Neon Nights",
			Price:  499,
			Genre:  "Racing",
			Tags:   []string{"Singleplayer", "Arcade"},
			Rating: 4.5,
			Cover:  "https://images.unsplash.com/photo-1542751371-adc38448a05e?q=80&w=800&auto=format&fit=crop&ixlib=rb-4.0.3&s=aa6e5bd9c3c7b1f3e8a6e2fb3f13a6b8",
		},
		{
			ID:     2,
			Title:  "CyberQuest: Origins",
			Price:  799,
			Genre:  "Action",
			Tags:   []string{"Multiplayer", "Sci-Fi"},
			Rating: 4.7,
			Cover:  "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?q=80&w=800&auto=format&fit=crop&ixlib=rb-4.0.3&s=0e3a7c0b6f3b2e9b7c4a4d9b2a3a6c6c",
		},
	}
}
