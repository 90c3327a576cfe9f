package db

import "ticketyboo/entities"

// SeedEvents is the catalog the service starts with when seeding is enabled.
func SeedEvents() []entities.Event {
	return []entities.Event{
		{
			ID:               1,
			Category:         entities.CategoryConcert,
			Name:             "Rock Legends Live",
			Artist:           "The Thunder Band",
			Venue:            "O2 Arena, London",
			Date:             "2026-03-15",
			Time:             "19:00",
			Price:            entities.MustMoney("65.00"),
			AvailableTickets: 150,
			Description:      "Experience an unforgettable night of rock music with The Thunder Band!",
		},
		{
			ID:               2,
			Category:         entities.CategoryFilm,
			Name:             "Classic Cinema Night",
			Artist:           "The Godfather",
			Venue:            "BFI Southbank, London",
			Date:             "2026-03-20",
			Time:             "20:00",
			Price:            entities.MustMoney("12.50"),
			AvailableTickets: 200,
			Description:      "Join us for a special screening of this timeless masterpiece.",
		},
		{
			ID:               3,
			Category:         entities.CategoryComedy,
			Name:             "Stand-Up Spectacular",
			Artist:           "Sarah Johnson",
			Venue:            "The Comedy Store, Manchester",
			Date:             "2026-03-25",
			Time:             "21:00",
			Price:            entities.MustMoney("28.00"),
			AvailableTickets: 80,
			Description:      "Get ready to laugh until your sides hurt with Sarah Johnson!",
		},
		{
			ID:               4,
			Category:         entities.CategoryConcert,
			Name:             "Jazz Night",
			Artist:           "Blue Note Quintet",
			Venue:            "Ronnie Scott's, London",
			Date:             "2026-04-01",
			Time:             "20:30",
			Price:            entities.MustMoney("42.00"),
			AvailableTickets: 100,
			Description:      "An evening of smooth jazz with the acclaimed Blue Note Quintet.",
		},
		{
			ID:               5,
			Category:         entities.CategoryFilm,
			Name:             "Sci-Fi Marathon",
			Artist:           "Blade Runner & The Matrix",
			Venue:            "Odeon Leicester Square, London",
			Date:             "2026-04-10",
			Time:             "18:00",
			Price:            entities.MustMoney("16.50"),
			AvailableTickets: 120,
			Description:      "Double feature of two groundbreaking sci-fi films.",
		},
		{
			ID:               6,
			Category:         entities.CategoryComedy,
			Name:             "Improv Night",
			Artist:           "The Comedy Crew",
			Venue:            "The Glee Club, Birmingham",
			Date:             "2026-04-15",
			Time:             "19:30",
			Price:            entities.MustMoney("20.00"),
			AvailableTickets: 60,
			Description:      "Hilarious improvised comedy based on audience suggestions!",
		},
	}
}
