// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nathoo/fidoquest/engine/random"
	"github.com/nathoo/fidoquest/engine/vfs"
	"github.com/nathoo/fidoquest/types"
)

// FormatVersion is bumped whenever SaveData changes incompatibly.
const FormatVersion = 1

// Runtime is the session state kept outside types.State.
type Runtime struct {
	SessionID   string
	RNGSeed     int64
	RNGPosition int64
	Random      random.Memory
	Files       vfs.Snapshot
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     int                 `json:"version"`
	SessionID   string              `json:"session"`
	SavedAt     time.Time           `json:"saved_at"`
	GameState   types.GameState     `json:"game_state"`
	Player      types.Player        `json:"player"`
	Network     types.Network       `json:"network"`
	Quests      types.QuestProgress `json:"quests"`
	RNGSeed     int64               `json:"rng_seed"`
	RNGPosition int64               `json:"rng_position"`
	Random      random.Memory       `json:"random"`
	Files       vfs.Snapshot        `json:"files"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, rt Runtime, now time.Time) ([]byte, error) {
	data := SaveData{
		Version:     FormatVersion,
		SessionID:   rt.SessionID,
		SavedAt:     now.UTC(),
		GameState:   s.GameState,
		Player:      s.Player,
		Network:     s.Network,
		Quests:      s.Quests,
		RNGSeed:     rt.RNGSeed,
		RNGPosition: rt.RNGPosition,
		Random:      rt.Random,
		Files:       rt.Files,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version > FormatVersion {
		return nil, fmt.Errorf("save format %d is newer than supported %d", sd.Version, FormatVersion)
	}
	// Ensure maps and slices are never nil after load.
	if sd.Player.Skills == nil {
		sd.Player.Skills = map[string]int{}
	}
	if sd.Player.Inventory == nil {
		sd.Player.Inventory = []string{}
	}
	if sd.Network.Flags == nil {
		sd.Network.Flags = map[string]bool{}
	}
	if sd.Network.Mode == "" {
		sd.Network.Mode = types.ModeIdle
	}
	if sd.Quests.Completed == nil {
		sd.Quests.Completed = []string{}
	}
	if sd.Quests.StepProgress == nil {
		sd.Quests.StepProgress = map[string][]string{}
	}
	if sd.Random.Cooldowns == nil {
		sd.Random.Cooldowns = map[string]int{}
	}
	if sd.Files.Files == nil {
		sd.Files.Files = map[string]string{}
	}
	return &sd, nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *types.State, sd *SaveData) {
	s.GameState = sd.GameState
	s.Player = sd.Player
	s.Network = sd.Network
	s.Quests = sd.Quests
}

// Runtime returns the non-state part of the save.
func (sd *SaveData) Runtime() Runtime {
	return Runtime{
		SessionID:   sd.SessionID,
		RNGSeed:     sd.RNGSeed,
		RNGPosition: sd.RNGPosition,
		Random:      sd.Random,
		Files:       sd.Files,
	}
}

// Path returns the file for a named slot under dir.
func Path(dir, slot string) string {
	if slot == "" {
		slot = "quicksave"
	}
	return filepath.Join(dir, slot+".json")
}

// WriteFile stores data in the named slot, creating dir if needed.
func WriteFile(dir, slot string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	return os.WriteFile(Path(dir, slot), data, 0o644)
}

// ReadFile reads and decodes the named slot.
func ReadFile(dir, slot string) (*SaveData, error) {
	data, err := os.ReadFile(Path(dir, slot))
	if err != nil {
		return nil, err
	}
	sd, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("reading save %s: %w", slot, err)
	}
	return sd, nil
}
