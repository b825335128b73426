package domain

// Priority levels a card may carry. Anything else is clamped to medium.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ColumnKeys lists the four workflow columns in their canonical order.
var ColumnKeys = []string{"now", "next", "waiting", "done"}

// Pillar is a strategic theme cards may reference by name.
type Pillar struct {
	Icon  string `json:"icon"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Desc  string `json:"desc"`
}

// Owner is a team member cards may reference by name.
type Owner struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// Function is a user-defined tag cards may reference by key.
type Function struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Card is a single board item. Its column membership is its position in
// Board.Columns; there is no column field here.
type Card struct {
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	Owner      string `json:"owner"`
	Fn         string `json:"fn"`
	Pillar     string `json:"pillar"`
	Link       string `json:"link"`
	Due        string `json:"due"`
	MovedAt    string `json:"movedAt"`
	Note       string `json:"note"`
	NextAction string `json:"nextAction"`
}

// Board is the root aggregate persisted as a single Markdown document.
type Board struct {
	Pillars   []Pillar          `json:"pillars"`
	Owners    []Owner           `json:"owners"`
	Functions []Function        `json:"functions"`
	Columns   map[string][]Card `json:"columns"`
}

// NewBoard returns an empty board with all four columns present.
func NewBoard() *Board {
	b := &Board{
		Pillars:   []Pillar{},
		Owners:    []Owner{},
		Functions: []Function{},
		Columns:   map[string][]Card{},
	}
	for _, key := range ColumnKeys {
		b.Columns[key] = []Card{}
	}
	return b
}

// Normalize repairs a client-submitted board in place: all four columns
// present, foreign column keys dropped, priorities clamped to the known set.
func (b *Board) Normalize() {
	if b.Columns == nil {
		b.Columns = map[string][]Card{}
	}
	cols := map[string][]Card{}
	for _, key := range ColumnKeys {
		cards := b.Columns[key]
		if cards == nil {
			cards = []Card{}
		}
		for i := range cards {
			switch cards[i].Priority {
			case PriorityHigh, PriorityMedium, PriorityLow:
			default:
				cards[i].Priority = PriorityMedium
			}
		}
		cols[key] = cards
	}
	b.Columns = cols
	if b.Pillars == nil {
		b.Pillars = []Pillar{}
	}
	if b.Owners == nil {
		b.Owners = []Owner{}
	}
	if b.Functions == nil {
		b.Functions = []Function{}
	}
}
