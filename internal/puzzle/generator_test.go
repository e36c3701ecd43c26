package puzzle

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/mocks"
)

type GeneratorSuite struct {
	suite.Suite
	random *mocks.MockRandom
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
}

func (s *GeneratorSuite) catalog() Catalog {
	return Catalog{
		"Phrase": {
			{Text: "GREAT IDEA"},
			{Text: "PIECE OF CAKE"},
		},
		"Event": {
			{Text: "BLOCK PARTY"},
		},
	}
}

func (s *GeneratorSuite) TestNextDrawsFromWholeCatalog() {
	gen := NewGenerator(s.catalog(), s.random)

	// Candidates sort by category then text; index 0 is the Event entry
	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("BLOCK PARTY", pz.Text)
	s.Equal("Event", pz.Category)
}

func (s *GeneratorSuite) TestNextRespectsCategory() {
	gen := NewGenerator(s.catalog(), s.random)

	pz, err := gen.Next("Phrase")
	s.Require().NoError(err)
	s.Equal("GREAT IDEA", pz.Text)
	s.Equal("Phrase", pz.Category)
}

func (s *GeneratorSuite) TestNextNeverRepeatsUntilExhausted() {
	gen := NewGenerator(s.catalog(), s.random)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		pz, err := gen.Next("")
		s.Require().NoError(err)
		s.False(seen[pz.Text], "repeated %q before exhausting the catalog", pz.Text)
		seen[pz.Text] = true
	}
	s.Len(seen, 3)
}

func (s *GeneratorSuite) TestNextResetsAfterExhaustion() {
	gen := NewGenerator(s.catalog(), s.random)

	for i := 0; i < 3; i++ {
		_, err := gen.Next("")
		s.Require().NoError(err)
	}

	// Fourth draw starts a fresh cycle instead of failing
	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("BLOCK PARTY", pz.Text)
}

func (s *GeneratorSuite) TestNextUnknownCategoryFails() {
	gen := NewGenerator(s.catalog(), s.random)

	_, err := gen.Next("Occupation")
	s.ErrorIs(err, ErrEmptyCatalog)
}

func (s *GeneratorSuite) TestNextEmptyCatalogFails() {
	gen := NewGenerator(Catalog{}, s.random)

	_, err := gen.Next("")
	s.ErrorIs(err, ErrEmptyCatalog)
}

func (s *GeneratorSuite) TestMarkUsedExcludesExternallyDrawnPuzzle() {
	gen := NewGenerator(s.catalog(), s.random)

	gen.MarkUsed("BLOCK PARTY")

	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("GREAT IDEA", pz.Text)
}

func (s *GeneratorSuite) TestResetClearsUsedSet() {
	gen := NewGenerator(s.catalog(), s.random)

	_, err := gen.Next("")
	s.Require().NoError(err)
	gen.Reset()

	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("BLOCK PARTY", pz.Text)
}

func (s *GeneratorSuite) TestRandomIndexSelectsWithinCandidates() {
	s.random.QueueIntn(2)
	gen := NewGenerator(s.catalog(), s.random)

	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("PIECE OF CAKE", pz.Text)
}

func (s *GeneratorSuite) TestDefaultCatalogIsPlayable() {
	gen := NewGenerator(DefaultCatalog(), s.random)

	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.NotEmpty(pz.Text)
	s.NotEmpty(pz.Category)
	s.NotNil(pz.Revealed)
	s.NotEmpty(pz.SpecialFormat)
}

func (s *GeneratorSuite) TestPuzzleTextIsUppercased() {
	gen := NewGenerator(Catalog{"Phrase": {{Text: "great idea"}}}, s.random)

	pz, err := gen.Next("")
	s.Require().NoError(err)
	s.Equal("GREAT IDEA", pz.Text)
}
