package cart

import "github.com/nhc-marketplace/storefront/internal/apiclient"

type View struct {
	Items          []apiclient.CartItem `json:"items"`
	Summary        Summary              `json:"summary"`
	Promo          *Promo               `json:"promo,omitempty"`
	PendingRemoval *int64               `json:"pendingRemoval,omitempty"`
	Loading        bool                 `json:"loading"`
	Removing       bool                 `json:"removing"`
	Clearing       bool                 `json:"clearing"`
	ApplyingPromo  bool                 `json:"applyingPromo"`
	Empty          bool                 `json:"empty"`
}

func (c *Composer) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Items:         append([]apiclient.CartItem{}, c.items...),
		Summary:       CalculateSummary(c.items, c.promo, c.policy),
		Loading:       c.loading,
		Removing:      c.removing,
		Clearing:      c.clearing,
		ApplyingPromo: c.applying,
		Empty:         len(c.items) == 0,
	}
	if c.promo != nil {
		p := *c.promo
		v.Promo = &p
	}
	if c.pending != nil {
		id := *c.pending
		v.PendingRemoval = &id
	}
	return v
}
