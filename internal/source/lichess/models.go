package lichess

// apiGame is one record of the Lichess NDJSON game export.
type apiGame struct {
	ID         string `json:"id"`
	Rated      bool   `json:"rated"`
	Variant    string `json:"variant"`
	Speed      string `json:"speed"`
	Perf       string `json:"perf"`
	CreatedAt  int64  `json:"createdAt"`  // ms epoch
	LastMoveAt int64  `json:"lastMoveAt"` // ms epoch
	Status     string `json:"status"`
	Winner     string `json:"winner"` // "white", "black" or absent
	Moves      string `json:"moves"`
	Players    struct {
		White apiPlayer `json:"white"`
		Black apiPlayer `json:"black"`
	} `json:"players"`
	Opening *struct {
		ECO  string `json:"eco"`
		Name string `json:"name"`
	} `json:"opening"`
	Clock *struct {
		Initial   int `json:"initial"`
		Increment int `json:"increment"`
	} `json:"clock"`
}

type apiPlayer struct {
	User *struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	} `json:"user"`
	Rating     int  `json:"rating"`
	RatingDiff *int `json:"ratingDiff"`
}

func (p *apiPlayer) name() string {
	if p.User == nil {
		return ""
	}
	return p.User.Name
}
