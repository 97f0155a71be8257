package models

// Item type constants
const (
	ItemTypeHunger = "hunger"
	ItemTypeMood   = "mood"
)

// DefaultUserID is the single local player the client talks about
const DefaultUserID = 1

const defaultPictureURL = "/assets/images/author.jpg"

// ValidItemTypes is a map of item types the client knows how to render
var ValidItemTypes = map[string]bool{
	ItemTypeHunger: true,
	ItemTypeMood:   true,
}

// IsValidItemType checks if an item type is known
func IsValidItemType(t string) bool {
	return ValidItemTypes[t]
}

// DefaultProducts returns the catalog seeded into an empty products table
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Dog Biscuits", Type: ItemTypeHunger, Bonus: 10, Price: 5, PictureURL: defaultPictureURL},
		{ID: 2, Name: "Meaty Bone", Type: ItemTypeHunger, Bonus: 20, Price: 8, PictureURL: defaultPictureURL},
		{ID: 3, Name: "Toy Ball", Type: ItemTypeMood, Bonus: 15, Price: 6, PictureURL: defaultPictureURL},
	}
}

// DefaultUser returns the player row seeded into an empty users table
func DefaultUser() User {
	return User{ID: DefaultUserID, Name: "Player", Balance: 0}
}
