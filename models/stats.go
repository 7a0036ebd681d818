package models

// WagerStats represents settled-wager statistics for a user
type WagerStats struct {
	TotalWagers   int   `db:"total_wagers"`
	TotalWon      int   `db:"total_won"`
	TotalLost     int   `db:"total_lost"`
	AmountWagered int64 `db:"amount_wagered"`
	AmountWon     int64 `db:"amount_won"`
}

// ScoreboardEntry represents a user's entry in the scoreboard
type ScoreboardEntry struct {
	Rank     int
	Username string
	Balance  int64
	Stats    *WagerStats
}

// UserStats represents detailed statistics for a single user
type UserStats struct {
	Username string
	Balance  int64
	Stats    *WagerStats
}
