package puzzle

import "github.com/wheelwords/wheelwords-go/internal/model"

// Entry is one puzzle template in a catalog
type Entry struct {
	Text   string
	Format model.PuzzleFormat
}

// Catalog maps category names to puzzle templates. It is injected into
// the Generator as a read-only resource so it can be swapped in tests.
type Catalog map[string][]Entry

// DefaultCatalog returns the built-in puzzle catalog
func DefaultCatalog() Catalog {
	return Catalog{
		"Phrase": {
			{Text: "GREAT IDEA"},
			{Text: "PIECE OF CAKE"},
			{Text: "ONCE IN A BLUE MOON"},
			{Text: "BETTER LATE THAN NEVER"},
			{Text: "OUT OF THE FRYING PAN"},
		},
		"Before & After": {
			{Text: "WHEEL OF FORTUNE COOKIE", Format: model.FormatBeforeAfter},
			{Text: "HAPPY BIRTHDAY CAKE WALK", Format: model.FormatBeforeAfter},
		},
		"Rhyme Time": {
			{Text: "SNUG AS A BUG IN A RUG", Format: model.FormatRhyme},
			{Text: "SEE YOU LATER ALLIGATOR", Format: model.FormatRhyme},
		},
		"Same Letter": {
			{Text: "BUSY BUZZING BUMBLEBEES", Format: model.FormatSameLetter},
			{Text: "PERFECTLY POLISHED PEARLS", Format: model.FormatSameLetter},
		},
		"Then & Now": {
			{Text: "RECORD PLAYER STREAMING MUSIC", Format: model.FormatThenNow},
		},
		"What Are You Doing?": {
			{Text: "WALKING THE DOG", Format: model.FormatQuestion},
			{Text: "BAKING CHOCOLATE CHIP COOKIES", Format: model.FormatQuestion},
		},
	}
}
