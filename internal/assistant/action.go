package assistant

import (
	"fmt"

	"binhoard-api/internal/common"
)

// ActionType discriminates the closed set of mutation intents the model may
// emit. Unknown types are dropped during interpretation, never executed.
type ActionType string

const (
	ActionAddItems    ActionType = "add_items"
	ActionRemoveItems ActionType = "remove_items"
	ActionModifyItem  ActionType = "modify_item"
	ActionCreateBin   ActionType = "create_bin"
	ActionDeleteBin   ActionType = "delete_bin"
	ActionAddTags     ActionType = "add_tags"
	ActionRemoveTags  ActionType = "remove_tags"
	ActionModifyTag   ActionType = "modify_tag"
	ActionSetArea     ActionType = "set_area"
	ActionSetNotes    ActionType = "set_notes"
	ActionSetIcon     ActionType = "set_icon"
	ActionSetColor    ActionType = "set_color"
)

// IsValid checks if the ActionType is one of the closed set
func (t ActionType) IsValid() bool {
	switch t {
	case ActionAddItems, ActionRemoveItems, ActionModifyItem,
		ActionCreateBin, ActionDeleteBin,
		ActionAddTags, ActionRemoveTags, ActionModifyTag,
		ActionSetArea, ActionSetNotes, ActionSetIcon, ActionSetColor:
		return true
	default:
		return false
	}
}

// Action is one typed mutation intent. The model names the target bin by
// human-readable name; resolution attaches the identifier. Only the fields
// relevant to the declared type are populated.
type Action struct {
	Type    ActionType   `json:"type"`
	BinName string       `json:"bin_name,omitempty"`
	BinID   common.BinID `json:"bin_id,omitempty"`

	// add_items / remove_items
	Items []string `json:"items,omitempty"`

	// modify_item
	OldItem string `json:"old_item,omitempty"`
	NewItem string `json:"new_item,omitempty"`

	// add_tags / remove_tags
	Tags []string `json:"tags,omitempty"`

	// modify_tag
	OldTag string `json:"old_tag,omitempty"`
	NewTag string `json:"new_tag,omitempty"`

	// create_bin
	Name string `json:"name,omitempty"`

	// create_bin / set_area
	AreaName string         `json:"area_name,omitempty"`
	AreaID   *common.AreaID `json:"area_id,omitempty"`

	// create_bin / set_notes
	Notes string           `json:"notes,omitempty"`
	Mode  common.NotesMode `json:"mode,omitempty"`

	// create_bin / set_icon / set_color
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// RequiresBin reports whether the action must resolve to exactly one
// existing bin before it is executable. Only create_bin stands alone.
func (a Action) RequiresBin() bool {
	return a.Type != ActionCreateBin
}

// Validate checks that the required fields for the declared type are all
// present. Interpretation drops any action failing this check rather than
// failing the whole call.
func (a Action) Validate() error {
	if !a.Type.IsValid() {
		return fmt.Errorf("unknown action type '%s'", a.Type)
	}

	if a.RequiresBin() && a.BinName == "" && a.BinID == "" {
		return fmt.Errorf("action '%s' requires a bin_name", a.Type)
	}

	switch a.Type {
	case ActionAddItems, ActionRemoveItems:
		if len(a.Items) == 0 {
			return fmt.Errorf("action '%s' requires a non-empty items list", a.Type)
		}
	case ActionModifyItem:
		if a.OldItem == "" || a.NewItem == "" {
			return fmt.Errorf("action 'modify_item' requires old_item and new_item")
		}
	case ActionCreateBin:
		if a.Name == "" {
			return fmt.Errorf("action 'create_bin' requires a name")
		}
	case ActionDeleteBin:
		// bin reference already checked above
	case ActionAddTags, ActionRemoveTags:
		if len(a.Tags) == 0 {
			return fmt.Errorf("action '%s' requires a non-empty tags list", a.Type)
		}
	case ActionModifyTag:
		if a.OldTag == "" || a.NewTag == "" {
			return fmt.Errorf("action 'modify_tag' requires old_tag and new_tag")
		}
	case ActionSetArea:
		if a.AreaName == "" && a.AreaID == nil {
			return fmt.Errorf("action 'set_area' requires area_name or area_id")
		}
	case ActionSetNotes:
		if a.Mode != "" && !a.Mode.IsValid() {
			return fmt.Errorf("action 'set_notes' has invalid mode '%s'", a.Mode)
		}
	case ActionSetIcon:
		if a.Icon == "" {
			return fmt.Errorf("action 'set_icon' requires an icon")
		}
	case ActionSetColor:
		if a.Color == "" {
			return fmt.Errorf("action 'set_color' requires a color")
		}
	}

	return nil
}

// NotesModeOrDefault returns the set_notes mode, defaulting to replace
func (a Action) NotesModeOrDefault() common.NotesMode {
	if a.Mode == "" {
		return common.NotesModeReplace
	}
	return a.Mode
}
