package chesscom

// archivesResponse lists the monthly archive URLs available for a player,
// oldest first.
type archivesResponse struct {
	Archives []string `json:"archives"`
}

// archiveGamesResponse is one month's batch of finished games.
type archiveGamesResponse struct {
	Games []apiGame `json:"games"`
}

// apiGame is the Chess.com published-data game payload. Opening and move
// data only exist inside the embedded PGN text.
type apiGame struct {
	URL         string    `json:"url"`
	UUID        string    `json:"uuid"`
	PGN         string    `json:"pgn"`
	TimeControl string    `json:"time_control"`
	TimeClass   string    `json:"time_class"`
	Rules       string    `json:"rules"`
	Rated       bool      `json:"rated"`
	EndTime     int64     `json:"end_time"`
	White       apiPlayer `json:"white"`
	Black       apiPlayer `json:"black"`
}

type apiPlayer struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}
