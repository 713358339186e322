package entitlement

import (
	"strconv"

	"github.com/Amarjit99/JobPortal-sub003/internal/model"
)

// Balance is the credit position for one action kind.
type Balance struct {
	Kind      ActionKind `json:"kind"`
	Used      int        `json:"used"`
	Limit     int        `json:"limit"`
	Unlimited bool       `json:"unlimited"`
}

// Remaining returns the units left, as shown to the user.
func (b Balance) Remaining() string {
	if b.Unlimited {
		return "Unlimited"
	}
	remaining := b.Limit - b.Used
	if remaining < 0 {
		remaining = 0
	}
	return strconv.Itoa(remaining)
}

// Balances reports the credit position for every action kind on an active
// subscription term.
func Balances(sub *model.UserSubscription) []Balance {
	kinds := []ActionKind{ActionJobPosting, ActionFeaturedJob, ActionResumeCredit}

	balances := make([]Balance, 0, len(kinds))
	for _, kind := range kinds {
		limit := kind.Limit(&sub.Plan)
		balances = append(balances, Balance{
			Kind:      kind,
			Used:      kind.Used(sub),
			Limit:     limit,
			Unlimited: limit == 0,
		})
	}
	return balances
}
