package entities

type Category string

const (
	CategoryConcert Category = "concert"
	CategoryFilm    Category = "film"
	CategoryComedy  Category = "comedy"
)

var Categories = []Category{CategoryConcert, CategoryFilm, CategoryComedy}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Event is a ticketed occurrence. AvailableTickets is the only field that
// changes after the event enters the catalog.
type Event struct {
	ID               int64    `json:"id"`
	Category         Category `json:"type"`
	Name             string   `json:"name"`
	Artist           string   `json:"artist"`
	Venue            string   `json:"venue"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Price            Money    `json:"price"`
	AvailableTickets int      `json:"availableTickets"`
	Description      string   `json:"description"`
}
