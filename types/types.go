// Package types defines the shared data structures for the fidoquest core.
// This package contains only type definitions and constants, no logic.
package types

// Event is a domain event delivered through the event bus.
// Data carries the event-type specific payload.
type Event struct {
	Type      string
	Timestamp int64
	Data      map[string]any
}

// Effect is a single named state mutation dispatched into the store.
type Effect struct {
	Type   string
	Params map[string]any
}

// StepType classifies how a quest step is completed.
type StepType string

const (
	StepEvent     StepType = "EVENT"
	StepCommand   StepType = "COMMAND"
	StepCondition StepType = "CONDITION"
	StepManual    StepType = "MANUAL"
)

// RewardType classifies a quest reward.
type RewardType string

const (
	RewardSkill RewardType = "SKILL"
	RewardItem  RewardType = "ITEM"
	RewardStat  RewardType = "STAT"
	RewardMoney RewardType = "MONEY"
)

// QuestStep is an atomic unit of quest progress.
type QuestStep struct {
	ID          string
	Type        StepType
	Event       string
	Command     string
	Condition   string
	Description string
	Metadata    map[string]any
}

// Reward is granted once when its quest completes.
type Reward struct {
	Type  RewardType
	Key   string // skill or stat name
	Item  string
	Delta int
}

// Branch routes a player-choice quest to one of several next quests.
type Branch struct {
	Event     string
	Metadata  map[string]any
	NextQuest string
}

// Quest is a static quest definition. Never mutated after load.
type Quest struct {
	ID            string
	Act           int
	Title         string
	Description   string
	Hints         []string
	Prerequisites []string
	Steps         []QuestStep
	Rewards       []Reward
	NextQuest     string // "" = end of chain or decided by Branches
	CompletesAct  int    // 0 = does not complete an act
	Branches      []Branch
}

// QuestProgress is the player's mutable progress through the quest graph.
type QuestProgress struct {
	Active       string              `json:"active"`
	Completed    []string            `json:"completed"`
	StepProgress map[string][]string `json:"step_progress"`
	HintLevel    int                 `json:"hint_level"`
}

// Phase is the coarse time of day.
type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

// GameState holds the clock, act counter and terminal conditions.
type GameState struct {
	Day            int    `json:"day"`
	TimeMinutes    int    `json:"time_minutes"`
	Phase          Phase  `json:"phase"`
	ZMH            bool   `json:"zmh"`
	Act            int    `json:"act"`
	LastBillDay    int    `json:"last_bill_day"`
	GameOver       bool   `json:"game_over"`
	GameOverReason string `json:"game_over_reason,omitempty"`
}

// Stats are the player's numeric meters.
type Stats struct {
	Sanity     int `json:"sanity"`
	Atmosphere int `json:"atmosphere"`
	Money      int `json:"money"`
	Debt       int `json:"debt"`
}

// Player holds the player's runtime state.
type Player struct {
	Stats     Stats          `json:"stats"`
	Skills    map[string]int `json:"skills"`
	Inventory []string       `json:"inventory"`
}

// TerminalMode selects which command handlers are active.
type TerminalMode string

const (
	ModeIdle     TerminalMode = "IDLE"
	ModeBBSMenu  TerminalMode = "BBS_MENU"
	ModeBBSFiles TerminalMode = "BBS_FILES"
	ModeBBSChat  TerminalMode = "BBS_CHAT"
)

// Network holds modem and BBS session state.
type Network struct {
	Connected bool            `json:"connected"`
	BBS       string          `json:"bbs,omitempty"`
	Number    string          `json:"number,omitempty"`
	Program   string          `json:"program,omitempty"` // running DOS program, "" = shell
	Mode      TerminalMode    `json:"mode"`
	Flags     map[string]bool `json:"flags"`
}

// State is the complete mutable game state. Plain data only, so it
// serializes without loss.
type State struct {
	GameState GameState     `json:"game_state"`
	Player    Player        `json:"player"`
	Network   Network       `json:"network"`
	Quests    QuestProgress `json:"quests"`
}
