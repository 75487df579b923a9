package rankings

import "github.com/KooshaS/top-soccer-matches/internal/model"

var fallbackClubs = [...]model.RankedEntity{
	{Rank: 1, Name: "Real Madrid", Country: "ESP", Points: 136},
	{Rank: 2, Name: "Manchester City", Country: "ENG", Points: 133},
	{Rank: 3, Name: "Bayern München", Country: "GER", Points: 131},
	{Rank: 4, Name: "Liverpool", Country: "ENG", Points: 126},
	{Rank: 5, Name: "Paris Saint-Germain", Country: "FRA", Points: 123},
	{Rank: 6, Name: "Internazionale", Country: "ITA", Points: 120},
	{Rank: 7, Name: "Chelsea", Country: "ENG", Points: 118},
	{Rank: 8, Name: "Borussia Dortmund", Country: "GER", Points: 116},
	{Rank: 9, Name: "AS Roma", Country: "ITA", Points: 114},
	{Rank: 10, Name: "FC Barcelona", Country: "ESP", Points: 112},
	{Rank: 11, Name: "Manchester United", Country: "ENG", Points: 110},
	{Rank: 12, Name: "Arsenal", Country: "ENG", Points: 108},
	{Rank: 13, Name: "Bayer Leverkusen", Country: "GER", Points: 106},
	{Rank: 14, Name: "Atlético Madrid", Country: "ESP", Points: 104},
	{Rank: 15, Name: "Benfica", Country: "POR", Points: 102},
	{Rank: 16, Name: "Atalanta", Country: "ITA", Points: 100},
	{Rank: 17, Name: "Villarreal", Country: "ESP", Points: 98},
	{Rank: 18, Name: "FC Porto", Country: "POR", Points: 96},
	{Rank: 19, Name: "AC Milan", Country: "ITA", Points: 94},
	{Rank: 20, Name: "RB Leipzig", Country: "GER", Points: 92},
	{Rank: 21, Name: "Lazio", Country: "ITA", Points: 90},
	{Rank: 22, Name: "Juventus", Country: "ITA", Points: 88},
	{Rank: 23, Name: "Eintracht Frankfurt", Country: "GER", Points: 86},
	{Rank: 24, Name: "Club Brugge", Country: "BEL", Points: 84},
	{Rank: 25, Name: "Glasgow Rangers", Country: "SCO", Points: 82},
}

// Fallback returns a fresh copy of the fixed 25-club ranking used when the
// live table cannot be read. The list is not truncated to any configured cap.
func Fallback() []model.RankedEntity {
	out := make([]model.RankedEntity, len(fallbackClubs))
	copy(out, fallbackClubs[:])
	return out
}
