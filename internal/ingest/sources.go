package ingest

// DefaultSources is the fixed list of cricket reference pages loaded by the
// batch ingestion job.
var DefaultSources = []string{
	"https://en.wikipedia.org/wiki/Cricket",
	"https://en.wikipedia.org/wiki/International_cricket",
	"https://en.wikipedia.org/wiki/International_Cricket_Council",
	"https://en.wikipedia.org/wiki/Cricket_World_Cup",
	"https://en.wikipedia.org/wiki/2024_Men%27s_T20_World_Cup",
	"https://en.wikipedia.org/wiki/2026_Men%27s_T20_World_Cup",
	"https://en.wikipedia.org/wiki/2025_Women%27s_Cricket_World_Cup",
	"https://en.wikipedia.org/wiki/Under-19_Men%27s_Cricket_World_Cup",
	"https://en.wikipedia.org/wiki/Lists_of_cricket_records",
	"https://en.wikipedia.org/wiki/ICC_Men%27s_Test_Team_Rankings",
	"https://en.wikipedia.org/wiki/ICC_Cricket_Hall_of_Fame",
	"https://en.wikipedia.org/wiki/History_of_cricket",
	"https://en.wikipedia.org/wiki/List_of_International_Cricket_Council_members",
}
