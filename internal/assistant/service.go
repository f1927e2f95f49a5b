package assistant

import (
	"context"
	"time"
	"unicode/utf8"

	"binhoard-api/internal/common"
	"binhoard-api/internal/config"
	"binhoard-api/internal/events"
	"binhoard-api/internal/inventory"

	"go.uber.org/zap"
)

// Service is the inbound boundary of the command pipeline
type Service interface {
	// InterpretCommand turns free text into a resolved, reviewable action list
	InterpretCommand(userID common.UserID, req CommandRequest) (*InterpretationResult, error)

	// ExecuteApproved runs the approved subset of the pending command.
	// includedIndexes selects actions by position; nil means all included.
	ExecuteApproved(userID common.UserID, includedIndexes []int) (*ExecutionOutcome, error)

	// CancelCommand discards the pending command with no store effect
	CancelCommand(userID common.UserID) error

	// UndoDelete recreates a bin from a captured delete snapshot
	UndoDelete(token string) (*inventory.Bin, error)

	// AnalyzePhoto suggests a bin catalog entry from photo payloads
	AnalyzePhoto(req PhotoRequest) (*PhotoSuggestion, error)

	// DictateItems splits dictated text into individual item names
	DictateItems(req DictationRequest) (*DictationResult, error)

	// TestConnection verifies a provider config without a full prompt
	TestConnection(cfg ProviderConfig) error

	// Close stops background routines
	Close()
}

// CommandRequest carries one interpretation request
type CommandRequest struct {
	Text           string            `json:"text" validate:"required"`
	LocationID     common.LocationID `json:"location_id" validate:"required"`
	Provider       ProviderConfig    `json:"provider"`
	PromptOverride string            `json:"prompt_override,omitempty"`
}

// PhotoRequest carries one photo-analysis request
type PhotoRequest struct {
	Provider     ProviderConfig `json:"provider"`
	Images       []ImagePayload `json:"images" validate:"required"`
	ExistingTags []string       `json:"existing_tags,omitempty"`
}

// DictationRequest carries one dictation-to-items request
type DictationRequest struct {
	Provider      ProviderConfig `json:"provider"`
	Text          string         `json:"text" validate:"required"`
	ExistingItems []string       `json:"existing_items,omitempty"`
	BinName       string         `json:"bin_name,omitempty"`
}

// service implements the Service interface
type service struct {
	gateway     Gateway
	interpreter *Interpreter
	repo        inventory.Repository
	executor    *Executor
	undoStore   *UndoStore
	sessions    *SessionManager
	eventBus    events.EventBus
	logger      *zap.Logger
	cfg         config.AssistantConfig
}

// NewService creates the assistant service and its collaborators
func NewService(eventBus events.EventBus, logger *zap.Logger, cfg config.AssistantConfig, undoCfg config.UndoConfig, repo inventory.Repository, gateway Gateway) Service {
	undoStore := NewUndoStore(
		time.Duration(undoCfg.SnapshotTTL)*time.Second,
		time.Duration(undoCfg.CleanupInterval)*time.Second,
		logger,
	)

	return &service{
		gateway:     gateway,
		interpreter: NewInterpreter(gateway, logger),
		repo:        repo,
		executor:    NewExecutor(repo, undoStore, eventBus, logger),
		undoStore:   undoStore,
		sessions:    NewSessionManager(),
		eventBus:    eventBus,
		logger:      logger,
		cfg:         cfg,
	}
}

// InterpretCommand implements the Service interface
func (s *service) InterpretCommand(userID common.UserID, req CommandRequest) (*InterpretationResult, error) {
	if req.Text == "" {
		return nil, common.ValidationError{Field: "text", Message: "command text is required"}
	}
	if utf8.RuneCountInString(req.Text) > s.cfg.MaxCommandChars {
		return nil, common.ValidationError{Field: "text", Message: "command text exceeds maximum length"}
	}
	if req.LocationID == "" {
		return nil, common.ValidationError{Field: "location_id", Message: "location is required"}
	}

	session := s.sessionFor(userID)

	req.Provider = s.providerWithDefaults(req.Provider)
	if err := req.Provider.Validate(); err != nil {
		session.State, _ = Transition(session.State, EventProviderMissing)
		s.sessions.SetSession(userID, session)
		return nil, ErrProviderNotConfigured{Reason: err.Error()}
	}

	state, err := Transition(session.State, EventSubmit)
	if err != nil {
		return nil, err
	}
	session.State = state
	session.LocationID = req.LocationID
	s.sessions.SetSession(userID, session)

	result, err := s.interpret(userID, req)
	if err != nil {
		// interpretation errors never leave a partial action list behind
		session.State, _ = Transition(session.State, EventInterpretFailed)
		session.Actions = nil
		session.Included = nil
		s.sessions.SetSession(userID, session)
		return nil, err
	}

	session.State, _ = Transition(session.State, EventInterpreted)
	session.Actions = result.Actions
	session.Included = make([]bool, len(result.Actions))
	for i := range session.Included {
		session.Included[i] = true // default: everything approved
	}
	session.Interpretation = result.Interpretation
	s.sessions.SetSession(userID, session)

	s.eventBus.Publish(events.TopicCommandInterpreted, events.CommandInterpreted{
		Event:          events.NewEvent(),
		UserID:         string(userID),
		LocationID:     string(req.LocationID),
		ActionCount:    len(result.Actions),
		Interpretation: result.Interpretation,
	})

	return result, nil
}

// interpret builds the snapshot and runs the interpreter under a deadline
func (s *service) interpret(userID common.UserID, req CommandRequest) (*InterpretationResult, error) {
	bins, err := s.repo.ListBinsByLocation(req.LocationID)
	if err != nil {
		return nil, err
	}
	areas, err := s.repo.ListAreasByLocation(req.LocationID)
	if err != nil {
		return nil, err
	}

	cmdCtx := NewCommandContext(req.LocationID, bins, areas)

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout())
	defer cancel()

	result, err := s.interpreter.Interpret(ctx, req.Provider, req.Text, cmdCtx, req.PromptOverride)
	if err != nil {
		return nil, err
	}

	result.Actions = ResolveActions(result.Actions, cmdCtx)

	s.logger.Info("Command interpreted",
		zap.String("userID", string(userID)),
		zap.Int("actions", len(result.Actions)))

	return result, nil
}

// ExecuteApproved implements the Service interface
func (s *service) ExecuteApproved(userID common.UserID, includedIndexes []int) (*ExecutionOutcome, error) {
	session, exists := s.sessions.GetSession(userID)
	if !exists || session.State != StatePreview {
		return nil, ErrNoPendingCommand{UserID: string(userID)}
	}

	if includedIndexes != nil {
		for i := range session.Included {
			session.Included[i] = false
		}
		for _, idx := range includedIndexes {
			if idx >= 0 && idx < len(session.Included) {
				session.Included[idx] = true
			}
		}
	}

	approved := session.ApprovedActions()
	if len(approved) == 0 {
		return nil, common.ValidationError{Field: "included_indexes", Message: "at least one action must be included"}
	}

	state, err := Transition(session.State, EventConfirm)
	if err != nil {
		return nil, err
	}
	session.State = state
	s.sessions.SetSession(userID, session)

	outcome := s.executor.Execute(userID, session.LocationID, approved)

	// execution always returns to idle, regardless of individual failures
	session.State, _ = Transition(session.State, EventExecutionDone)
	s.sessions.DeleteSession(userID)

	return outcome, nil
}

// CancelCommand implements the Service interface
func (s *service) CancelCommand(userID common.UserID) error {
	session, exists := s.sessions.GetSession(userID)
	if !exists || session.State != StatePreview {
		return ErrNoPendingCommand{UserID: string(userID)}
	}

	s.sessions.DeleteSession(userID)
	s.logger.Info("Pending command cancelled", zap.String("userID", string(userID)))
	return nil
}

// UndoDelete implements the Service interface
func (s *service) UndoDelete(token string) (*inventory.Bin, error) {
	snapshot, exists := s.undoStore.Take(token)
	if !exists {
		return nil, common.NotFoundError{Resource: "UndoSnapshot", ID: token}
	}

	// Recreate with the original identifier and short code so printed
	// labels keep pointing at the same bin
	if err := s.repo.CreateBin(snapshot); err != nil {
		return nil, err
	}

	s.eventBus.Publish(events.TopicInventoryChanged, events.InventoryChanged{
		Event:      events.NewEvent(),
		LocationID: string(snapshot.LocationID),
		BinID:      string(snapshot.ID),
		Change:     "restored",
	})

	s.logger.Info("Bin restored from undo snapshot",
		zap.String("binID", string(snapshot.ID)))
	return snapshot, nil
}

// AnalyzePhoto implements the Service interface
func (s *service) AnalyzePhoto(req PhotoRequest) (*PhotoSuggestion, error) {
	if len(req.Images) == 0 {
		return nil, common.ValidationError{Field: "images", Message: "at least one image is required"}
	}
	req.Provider = s.providerWithDefaults(req.Provider)
	if err := req.Provider.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout())
	defer cancel()

	responseText, err := s.gateway.Complete(ctx, req.Provider, CompletionRequest{
		System:       BuildPhotoPrompt(req.ExistingTags),
		User:         "Analyze the attached photo(s) and suggest a catalog entry.",
		Images:       req.Images,
		JSONResponse: true,
		Temperature:  0.2,
		MaxTokens:    1024,
	})
	if err != nil {
		return nil, err
	}

	suggestion, err := parseJSONPayload[PhotoSuggestion](responseText)
	if err != nil {
		return nil, err
	}
	if suggestion.Items == nil {
		suggestion.Items = []string{}
	}
	if suggestion.Tags == nil {
		suggestion.Tags = []string{}
	}

	return suggestion, nil
}

// DictateItems implements the Service interface
func (s *service) DictateItems(req DictationRequest) (*DictationResult, error) {
	if req.Text == "" {
		return nil, common.ValidationError{Field: "text", Message: "dictation text is required"}
	}
	req.Provider = s.providerWithDefaults(req.Provider)
	if err := req.Provider.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout())
	defer cancel()

	responseText, err := s.gateway.Complete(ctx, req.Provider, CompletionRequest{
		System:       BuildDictationPrompt(req.ExistingItems, req.BinName),
		User:         req.Text,
		JSONResponse: true,
		Temperature:  0.1,
		MaxTokens:    1024,
	})
	if err != nil {
		return nil, err
	}

	result, err := parseJSONPayload[DictationResult](responseText)
	if err != nil {
		return nil, err
	}
	if result.Items == nil {
		result.Items = []string{}
	}

	return result, nil
}

// TestConnection implements the Service interface
func (s *service) TestConnection(cfg ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout())
	defer cancel()

	return s.gateway.TestConnection(ctx, cfg)
}

// Close implements the Service interface
func (s *service) Close() {
	s.sessions.Stop()
	s.undoStore.Stop()
}

// providerWithDefaults fills provider and model from config when the caller
// omits them. The API key always comes from the caller.
func (s *service) providerWithDefaults(cfg ProviderConfig) ProviderConfig {
	if cfg.Provider == "" {
		cfg.Provider = ProviderKind(s.cfg.DefaultProvider)
	}
	if cfg.Model == "" {
		cfg.Model = s.cfg.DefaultModel
	}
	return cfg
}

func (s *service) requestTimeout() time.Duration {
	timeout := time.Duration(s.cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return timeout
}

// sessionFor returns the user's current session or a fresh idle one
func (s *service) sessionFor(userID common.UserID) *CommandSession {
	if session, exists := s.sessions.GetSession(userID); exists {
		return session
	}
	return &CommandSession{
		UserID: userID,
		State:  StateIdle,
	}
}
