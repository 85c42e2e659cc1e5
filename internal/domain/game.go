package domain

import "time"

// Source identifies the external platform a game was imported from.
type Source string

const (
	SourceChessCom Source = "chesscom"
	SourceLichess  Source = "lichess"
)

// TimeClass is the canonical time-control class.
type TimeClass string

const (
	TimeClassBullet    TimeClass = "bullet"
	TimeClassBlitz     TimeClass = "blitz"
	TimeClassRapid     TimeClass = "rapid"
	TimeClassClassical TimeClass = "classical"
)

// Color is the side the tracked player held.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Result is the game outcome from the tracked player's perspective.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Termination describes how the game ended, regardless of who won.
type Termination string

const (
	TerminationCheckmate    Termination = "checkmate"
	TerminationResignation  Termination = "resignation"
	TerminationTimeout      Termination = "timeout"
	TerminationStalemate    Termination = "stalemate"
	TerminationInsufficient Termination = "insufficient-material"
	TerminationRepetition   Termination = "repetition"
	TerminationAgreement    Termination = "agreement"
	TerminationAbandoned    Termination = "abandoned"
	TerminationOther        Termination = "other"
)

const (
	// UnknownECO and UnknownOpeningName are used when a source payload
	// carries no parseable opening metadata.
	UnknownECO         = "Unknown"
	UnknownOpeningName = "Unknown Opening"
)

// Opening is the ECO classification of the game's opening.
type Opening struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
}

// Opponent is the other player in a game.
type Opponent struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// Clock holds optional time-usage enrichments. Not every source reports
// every field.
type Clock struct {
	InitialTime   int       `json:"initialTime"` // seconds
	Increment     int       `json:"increment"`   // seconds per move
	TimeRemaining *int      `json:"timeRemaining,omitempty"`
	AvgMoveTime   *float64  `json:"avgMoveTime,omitempty"`
	MoveTimes     []float64 `json:"moveTimes,omitempty"`
}

// Analysis holds engine-evaluation results. It is populated asynchronously
// by the external evaluation service, never by the sync path.
type Analysis struct {
	Accuracy     *float64   `json:"accuracy,omitempty"`
	Blunders     int        `json:"blunders"`
	Mistakes     int        `json:"mistakes"`
	Inaccuracies int        `json:"inaccuracies"`
	ACPL         *float64   `json:"acpl,omitempty"`
	AnalyzedAt   *time.Time `json:"analyzedAt,omitempty"`
}

// Game is the canonical, platform-independent game record. Every adapter
// produces this shape and all analytics consume it.
//
// (UserID, Source, ExternalID) is unique.
type Game struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	ExternalID string `json:"externalId"` // platform-native game id
	Source     Source `json:"source"`

	PlayedAt time.Time `json:"playedAt"`

	TimeClass   TimeClass   `json:"timeClass"`
	PlayerColor Color       `json:"playerColor"`
	Result      Result      `json:"result"`
	Termination Termination `json:"termination"`

	Opening      Opening  `json:"opening"`
	Opponent     Opponent `json:"opponent"`
	PlayerRating int      `json:"playerRating"`
	RatingChange *int     `json:"ratingChange,omitempty"` // not all sources report it
	MoveCount    int      `json:"moveCount"`
	Rated        bool     `json:"rated"`
	GameURL      string   `json:"gameUrl"`

	Clock    *Clock    `json:"clock,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// HasAnalysis reports whether engine evaluation has been recorded for the game.
func (g *Game) HasAnalysis() bool {
	return g.Analysis != nil && g.Analysis.AnalyzedAt != nil
}
