package domain

// DefaultBoard is the starter board written when no document exists yet.
func DefaultBoard() *Board {
	b := NewBoard()
	b.Pillars = []Pillar{
		{Icon: "📦", Name: "Delivery", Color: "#1565C0", Desc: "Ship what was promised, on time"},
		{Icon: "🤝", Name: "Customer Trust", Color: "#2E7D32", Desc: "Support as a competitive moat"},
		{Icon: "📈", Name: "Growth", Color: "#F0380F", Desc: "Expand markets and convert momentum into revenue"},
	}
	b.Owners = []Owner{
		{Name: "Roy", Initials: "RY", Color: "#F0380F"},
	}
	b.Functions = []Function{
		{Key: "operations", Label: "Operations", Color: "#6A1B9A"},
		{Key: "fulfillment", Label: "Fulfillment / Shipping", Color: "#1565C0"},
		{Key: "website", Label: "Website", Color: "#2E7D32"},
	}
	b.Columns["now"] = []Card{
		{
			Title:    "Resolve customs import block",
			Priority: PriorityHigh,
			Owner:    "Roy",
			Fn:       "fulfillment",
			Pillar:   "Delivery",
			Link:     "[[Shipping/Spain]]",
			Note:     "Coordinate with the freight forwarder on HS codes and VAT documentation.",
		},
	}
	b.Columns["next"] = []Card{
		{Title: "Store optimization pass", Priority: PriorityLow, Fn: "website", Pillar: "Growth"},
	}
	b.Columns["waiting"] = []Card{
		{Title: "Certifications for new markets", Priority: PriorityHigh, Pillar: "Growth", Note: "Awaiting test lab results from the supplier."},
	}
	b.Columns["done"] = []Card{
		{Title: "Backer surveys closed", Priority: PriorityLow, Owner: "Roy", Fn: "operations", Pillar: "Growth"},
	}
	return b
}
