package reviews

import "time"

// Review is a single book review owned by a user. The only mutation after
// creation is owner-authorized deletion.
type Review struct {
	ID        int64     `json:"id"`
	BookTitle string    `json:"bookTitle"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	Mood      string    `json:"mood"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author carries the display name joined into listings.
type Author struct {
	Name string `json:"name"`
}

// ReviewWithAuthor is the listing projection: the review plus its author.
type ReviewWithAuthor struct {
	Review
	Users Author `json:"users"`
}

// Moods is the fixed label set a review may carry.
var Moods = []string{"alucinante", "relajante", "emotivo", "intelectual", "inspirador"}
