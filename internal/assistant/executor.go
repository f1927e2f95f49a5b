package assistant

import (
	"fmt"
	"strings"

	"binhoard-api/internal/common"
	"binhoard-api/internal/events"
	"binhoard-api/internal/inventory"

	"go.uber.org/zap"
)

// ActionFailure records one action that could not be applied
type ActionFailure struct {
	Index int        `json:"index"`
	Type  ActionType `json:"type"`
	Error string     `json:"error"`
}

// ExecutionOutcome summarizes one command run. Completed of Total is always
// reported so partial success is explicit, and every delete carries an undo
// reference.
type ExecutionOutcome struct {
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
	Failures  []ActionFailure `json:"failures,omitempty"`
	Undo      []UndoRef       `json:"undo,omitempty"`
}

// Executor applies approved actions against the inventory store. Actions
// run sequentially in the order returned by the model: later actions may
// depend on state changed by earlier ones, and sequencing avoids two
// concurrent writes to the same bin record.
type Executor struct {
	repo     inventory.Repository
	undo     *UndoStore
	eventBus events.EventBus
	logger   *zap.Logger
}

// NewExecutor creates a new Executor instance
func NewExecutor(repo inventory.Repository, undo *UndoStore, eventBus events.EventBus, logger *zap.Logger) *Executor {
	return &Executor{
		repo:     repo,
		undo:     undo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Execute applies the approved actions one by one. Each action's effect is
// wrapped so a failure is counted and logged but never aborts the rest of
// the queue.
func (e *Executor) Execute(userID common.UserID, locationID common.LocationID, actions []Action) *ExecutionOutcome {
	outcome := &ExecutionOutcome{
		Total:    len(actions),
		Failures: []ActionFailure{},
		Undo:     []UndoRef{},
	}

	for i, action := range actions {
		undoRef, err := e.apply(locationID, action)
		if err != nil {
			e.logger.Warn("Action failed during execution",
				zap.Int("index", i),
				zap.String("type", string(action.Type)),
				zap.Error(err))
			outcome.Failures = append(outcome.Failures, ActionFailure{
				Index: i,
				Type:  action.Type,
				Error: err.Error(),
			})
		} else {
			outcome.Completed++
			if undoRef != nil {
				outcome.Undo = append(outcome.Undo, *undoRef)
			}
		}

		executedEvent := events.ActionExecuted{
			Event:      events.NewEvent(),
			UserID:     string(userID),
			LocationID: string(locationID),
			ActionType: string(action.Type),
			BinID:      string(action.BinID),
			Succeeded:  err == nil,
		}
		if err != nil {
			executedEvent.Error = err.Error()
		}
		e.eventBus.Publish(events.TopicActionExecuted, executedEvent)
	}

	e.eventBus.Publish(events.TopicExecutionCompleted, events.ExecutionCompleted{
		Event:      events.NewEvent(),
		UserID:     string(userID),
		LocationID: string(locationID),
		Completed:  outcome.Completed,
		Total:      outcome.Total,
	})

	e.logger.Info("Execution run finished",
		zap.String("userID", string(userID)),
		zap.Int("completed", outcome.Completed),
		zap.Int("total", outcome.Total))

	return outcome
}

// apply dispatches one action. The switch over ActionType is the single
// place per-variant semantics live.
func (e *Executor) apply(locationID common.LocationID, action Action) (*UndoRef, error) {
	switch action.Type {
	case ActionAddItems:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Items = append(bin.Items, action.Items...)
		})
	case ActionRemoveItems:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Items = removeAllFold(bin.Items, action.Items)
		})
	case ActionModifyItem:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Items = renameFirstFold(bin.Items, action.OldItem, action.NewItem)
		})
	case ActionAddTags:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Tags = unionFold(bin.Tags, action.Tags)
		})
	case ActionRemoveTags:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Tags = removeAllFold(bin.Tags, action.Tags)
		})
	case ActionModifyTag:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Tags = renameFirstFold(bin.Tags, action.OldTag, action.NewTag)
		})
	case ActionCreateBin:
		return nil, e.createBin(locationID, action)
	case ActionDeleteBin:
		return e.deleteBin(locationID, action)
	case ActionSetArea:
		return nil, e.setArea(locationID, action)
	case ActionSetNotes:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			switch action.NotesModeOrDefault() {
			case common.NotesModeClear:
				bin.Notes = ""
			case common.NotesModeAppend:
				if bin.Notes == "" {
					bin.Notes = action.Notes
				} else {
					bin.Notes = bin.Notes + "\n" + action.Notes
				}
			default:
				bin.Notes = action.Notes
			}
		})
	case ActionSetIcon:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Icon = action.Icon
		})
	case ActionSetColor:
		return nil, e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
			bin.Color = action.Color
		})
	default:
		return nil, fmt.Errorf("unknown action type '%s'", action.Type)
	}
}

// mutateBin is the read-modify-write pattern for bin field updates. The bin
// is re-read immediately before mutating so the snapshot staleness window
// narrows to a single round trip.
func (e *Executor) mutateBin(locationID common.LocationID, binID common.BinID, mutate func(*inventory.Bin)) error {
	bin, err := e.repo.GetBinByID(binID)
	if err != nil {
		return err
	}

	mutate(bin)

	if err := e.repo.UpdateBin(bin); err != nil {
		return err
	}

	e.publishChanged(locationID, binID, "updated")
	return nil
}

// createBin creates a bin, creating its area on demand when the named area
// does not exist yet
func (e *Executor) createBin(locationID common.LocationID, action Action) error {
	bin := &inventory.Bin{
		LocationID: locationID,
		Name:       action.Name,
		Items:      inventory.StringList(action.Items),
		Tags:       inventory.StringList(action.Tags),
		Notes:      action.Notes,
		Icon:       action.Icon,
		Color:      action.Color,
	}

	if action.AreaID != nil {
		bin.AreaID = action.AreaID
	} else if action.AreaName != "" {
		areaID, err := e.resolveOrCreateArea(locationID, action.AreaName)
		if err != nil {
			return err
		}
		bin.AreaID = &areaID
	}

	if err := e.repo.CreateBin(bin); err != nil {
		return err
	}

	e.publishChanged(locationID, bin.ID, "created")
	return nil
}

// deleteBin captures a full pre-delete snapshot before removing the record,
// so the returned undo reference can recreate the bin with its original
// identifier and short code
func (e *Executor) deleteBin(locationID common.LocationID, action Action) (*UndoRef, error) {
	bin, err := e.repo.GetBinByID(action.BinID)
	if err != nil {
		return nil, err
	}

	snapshot := *bin

	if err := e.repo.DeleteBin(action.BinID); err != nil {
		return nil, err
	}

	token := e.undo.Put(snapshot)
	e.publishChanged(locationID, action.BinID, "deleted")

	return &UndoRef{
		Token:   token,
		BinID:   snapshot.ID,
		BinName: snapshot.Name,
	}, nil
}

// setArea assigns a bin to an area, creating the area on demand like
// create_bin does
func (e *Executor) setArea(locationID common.LocationID, action Action) error {
	areaID := action.AreaID
	if areaID == nil {
		resolved, err := e.resolveOrCreateArea(locationID, action.AreaName)
		if err != nil {
			return err
		}
		areaID = &resolved
	}

	return e.mutateBin(locationID, action.BinID, func(bin *inventory.Bin) {
		bin.AreaID = areaID
	})
}

// resolveOrCreateArea matches an area by name case-insensitively against
// the live store, creating it when absent
func (e *Executor) resolveOrCreateArea(locationID common.LocationID, name string) (common.AreaID, error) {
	area, err := e.repo.GetAreaByName(locationID, name)
	if err == nil {
		return area.ID, nil
	}
	if !inventory.IsNotFoundError(err) {
		return "", err
	}

	newArea := &inventory.Area{
		LocationID: locationID,
		Name:       name,
	}
	if err := e.repo.CreateArea(newArea); err != nil {
		return "", err
	}

	e.logger.Info("Created area on demand",
		zap.String("areaID", string(newArea.ID)),
		zap.String("name", name))
	return newArea.ID, nil
}

func (e *Executor) publishChanged(locationID common.LocationID, binID common.BinID, change string) {
	e.eventBus.Publish(events.TopicInventoryChanged, events.InventoryChanged{
		Event:      events.NewEvent(),
		LocationID: string(locationID),
		BinID:      string(binID),
		Change:     change,
	})
}

// List helpers. Matching is case-insensitive throughout; replacement values
// keep the casing the model produced.

// removeAllFold returns existing without any element that case-insensitively
// matches one of toRemove
func removeAllFold(existing []string, toRemove []string) []string {
	kept := make([]string, 0, len(existing))
	for _, value := range existing {
		matched := false
		for _, candidate := range toRemove {
			if strings.EqualFold(value, candidate) {
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, value)
		}
	}
	return kept
}

// renameFirstFold replaces only the first case-insensitive match, mapping
// element-wise rather than rewriting the whole list
func renameFirstFold(existing []string, oldValue, newValue string) []string {
	result := make([]string, len(existing))
	replaced := false
	for i, value := range existing {
		if !replaced && strings.EqualFold(value, oldValue) {
			result[i] = newValue
			replaced = true
		} else {
			result[i] = value
		}
	}
	return result
}

// unionFold appends only additions not already present, so repeated
// application yields the same set
func unionFold(existing []string, additions []string) []string {
	result := append([]string(nil), existing...)
	for _, addition := range additions {
		present := false
		for _, value := range result {
			if strings.EqualFold(value, addition) {
				present = true
				break
			}
		}
		if !present {
			result = append(result, addition)
		}
	}
	return result
}
