package models

// TokenGate restricts joining a channel to users holding at least MinBalance
// of the named token. Balances are plain bookkeeping rows; chain lookups are
// out of scope.
type TokenGate struct {
	ChannelID   int64  `json:"channel_id,string"`
	TokenSymbol string `json:"token_symbol"`
	MinBalance  int64  `json:"min_balance"`
}

// Balance is a user's recorded holding of one token.
type Balance struct {
	UserID      int64  `json:"user_id,string"`
	TokenSymbol string `json:"token_symbol"`
	Amount      int64  `json:"amount"`
}
