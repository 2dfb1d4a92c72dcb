package store

import "github.com/rp-bot/AbletonBuddy/internal/types"

var (
	_ types.ThreadStore     = (*Store)(nil)
	_ types.AutomationStore = (*Store)(nil)
)
