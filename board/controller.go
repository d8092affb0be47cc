package board

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"prism-board/domain"
	"prism-board/view"
)

// Controller owns the board state of one namespace: the document, the active
// board and the edit session. It is not safe for concurrent use; Session
// serializes calls.
type Controller struct {
	store     Gateway
	prefs     PreferenceStore
	journal   Journal
	statuses  []string
	namespace string
	logger    *log.Entry

	doc         *view.Document
	activeBoard string
	edit        *domain.EditSession
}

// Config holds the collaborators of a Controller.
type Config struct {
	Store     Gateway
	Prefs     PreferenceStore
	Journal   Journal
	Statuses  []string
	Namespace string
	Logger    *log.Logger
}

// NewController builds a controller with an empty document.
func NewController(cfg Config) *Controller {
	statuses := cfg.Statuses
	if len(statuses) == 0 {
		statuses = domain.DefaultStatuses
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Controller{
		store:     cfg.Store,
		prefs:     cfg.Prefs,
		journal:   cfg.Journal,
		statuses:  append([]string(nil), statuses...),
		namespace: cfg.Namespace,
		logger:    logger.WithField("namespace", cfg.Namespace),
		doc:       view.NewDocument(statuses),
	}
}

// Document returns a snapshot of the rendered page.
func (c *Controller) Document() *view.Document {
	return c.doc.Clone()
}

// ActiveBoard returns the displayed board; ok is false when there is none.
func (c *Controller) ActiveBoard() (string, bool) {
	return c.activeBoard, c.activeBoard != ""
}

// Session returns the current edit session, nil when none was opened.
func (c *Controller) Session() *domain.EditSession {
	return c.edit
}

// Statuses returns the configured column statuses.
func (c *Controller) Statuses() []string {
	return append([]string(nil), c.statuses...)
}

// Load applies the persisted chrome flags and renders boards and tasks.
func (c *Controller) Load(ctx context.Context) error {
	prefs, err := c.prefs.Preferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	c.doc.SidebarVisible = prefs.ShowSidebar
	c.doc.ApplyTheme(prefs.LightTheme)
	return c.Refresh(ctx)
}

// Refresh derives the boards from storage, resolves the active board and
// rebuilds the whole document.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.store.GetTasks(ctx)
	if err != nil {
		return err
	}
	boards := domain.ListBoards(tasks)
	view.RenderBoardNav(c.doc, boards)
	if c.doc.BoardManagerOpen() {
		view.PopulateBoardList(c.doc, boards)
	}

	persisted, ok, err := c.prefs.ActiveBoard(ctx)
	if err != nil {
		return fmt.Errorf("load active board: %w", err)
	}
	active, ok := domain.ResolveActiveBoard(persisted, ok, boards)
	if !ok {
		c.activeBoard = ""
		c.doc.Header = ""
		view.ClearColumns(c.doc)
		return nil
	}
	if active != persisted {
		if err := c.prefs.SetActiveBoard(ctx, active); err != nil {
			return err
		}
	}
	c.activeBoard = active
	c.doc.Header = active
	view.StyleActiveBoard(c.doc, active)
	c.renderTasks(tasks)
	return nil
}

func (c *Controller) renderTasks(tasks []domain.Task) {
	// Missing columns are logged by the renderer and never fail a mutation.
	_ = view.RenderBoard(c.doc, c.activeBoard, tasks, c.statuses)
}

// SetActiveBoard switches the displayed board and persists the choice.
func (c *Controller) SetActiveBoard(ctx context.Context, name string) error {
	tasks, err := c.store.GetTasks(ctx)
	if err != nil {
		return err
	}
	if !domain.HasBoard(domain.ListBoards(tasks), name) {
		return fmt.Errorf("select %q: %w", name, domain.ErrBoardNotFound)
	}
	if err := c.prefs.SetActiveBoard(ctx, name); err != nil {
		return err
	}
	c.activeBoard = name
	c.doc.Header = name
	view.StyleActiveBoard(c.doc, name)
	c.renderTasks(tasks)
	return nil
}

// HasUnsavedChanges reports whether the live edit form differs from the
// snapshot taken when it opened.
func (c *Controller) HasUnsavedChanges() bool {
	return c.edit.Changed(c.doc.EditFields())
}

// OpenCreateTask shows the new task dialog. It refuses while the edit dialog
// holds unsaved changes.
func (c *Controller) OpenCreateTask(_ context.Context) error {
	if c.doc.EditTaskOpen() && c.HasUnsavedChanges() {
		c.doc.Alert(domain.UnsavedChangesAlert)
		return domain.ErrUnsavedChanges
	}
	c.closeEdit(domain.SessionCancelled)
	c.doc.SetModal(view.ModalCreateTask, true)
	c.doc.Overlay = true
	return nil
}

// CancelCreateTask hides the new task dialog and drops the draft.
func (c *Controller) CancelCreateTask(_ context.Context) error {
	c.doc.SetModal(view.ModalCreateTask, false)
	c.doc.Overlay = false
	c.doc.ResetCreateForm()
	return nil
}

// CreateTask validates fields and stores a new task on the active board.
// Without an active board nothing is stored.
func (c *Controller) CreateTask(ctx context.Context, fields domain.TaskFields) (domain.Task, error) {
	c.doc.CreateForm = view.Form{Title: fields.Title, Description: fields.Description, Status: fields.Status}
	title, err := domain.ValidateTitle(fields.Title)
	if err != nil {
		c.doc.Alert(err.Error())
		return domain.Task{}, err
	}
	if c.activeBoard == "" {
		err := &domain.ValidationError{Field: "board", Message: domain.NoBoardAlert}
		c.doc.Alert(err.Message)
		return domain.Task{}, err
	}
	status := fields.Status
	if status == "" {
		status = c.statuses[0]
	}
	task := domain.Task{
		ID:          domain.NewTaskID(),
		Title:       title,
		Description: fields.Description,
		Status:      status,
		Board:       c.activeBoard,
	}
	created, err := c.store.CreateNewTask(ctx, task)
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	if created == nil {
		return domain.Task{}, domain.ErrCreateFailed
	}
	_ = view.AppendTask(c.doc, *created)
	c.doc.SetModal(view.ModalCreateTask, false)
	c.doc.Overlay = false
	c.doc.ResetCreateForm()
	c.publish(ctx, domain.Mutation{Type: domain.MutationTaskCreated, TaskID: created.ID, Board: created.Board})
	return *created, c.Refresh(ctx)
}

// OpenEditSession snapshots the task with id and shows it in the edit dialog.
func (c *Controller) OpenEditSession(ctx context.Context, id string) error {
	tasks, err := c.store.GetTasks(ctx)
	if err != nil {
		return err
	}
	var task *domain.Task
	for i := range tasks {
		if tasks[i].ID == id {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		return fmt.Errorf("open %s: %w", id, domain.ErrTaskNotFound)
	}
	c.closeEdit(domain.SessionCancelled)
	c.edit = domain.OpenEditSession(*task)
	c.doc.FillEditForm(*task)
	c.doc.SetModal(view.ModalEditTask, true)
	return nil
}

// UpdateEditForm applies live input to the edit dialog.
func (c *Controller) UpdateEditForm(_ context.Context, patch domain.FormPatch) error {
	if !c.edit.IsOpen() {
		return domain.ErrNoEditSession
	}
	c.doc.SetEditFields(patch.Apply(c.doc.EditFields()))
	return nil
}

// SaveTask replaces the edited task with the form content. Id and board
// come from the snapshot.
func (c *Controller) SaveTask(ctx context.Context) error {
	if !c.edit.IsOpen() {
		return domain.ErrNoEditSession
	}
	fields := c.doc.EditFields()
	title, err := domain.ValidateTitle(fields.Title)
	if err != nil {
		c.doc.Alert(err.Error())
		return err
	}
	base := c.edit.Baseline()
	updated := domain.Task{
		ID:          base.ID,
		Title:       title,
		Description: fields.Description,
		Status:      fields.Status,
		Board:       base.Board,
	}
	if err := c.store.PutTask(ctx, base.ID, updated); err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	c.closeEdit(domain.SessionSaved)
	c.publish(ctx, domain.Mutation{Type: domain.MutationTaskUpdated, TaskID: base.ID, Board: base.Board})
	return c.Refresh(ctx)
}

// DeleteTask removes the edited task.
func (c *Controller) DeleteTask(ctx context.Context) error {
	if !c.edit.IsOpen() {
		return domain.ErrNoEditSession
	}
	base := c.edit.Baseline()
	if err := c.store.DeleteTask(ctx, base.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	c.closeEdit(domain.SessionDeleted)
	c.publish(ctx, domain.Mutation{Type: domain.MutationTaskDeleted, TaskID: base.ID, Board: base.Board})
	return c.Refresh(ctx)
}

// CancelEdit closes the edit dialog without persisting anything.
func (c *Controller) CancelEdit(_ context.Context) error {
	c.closeEdit(domain.SessionCancelled)
	return nil
}

func (c *Controller) closeEdit(outcome domain.SessionState) {
	if c.edit.IsOpen() {
		c.edit.Close(outcome)
	}
	c.doc.SetModal(view.ModalEditTask, false)
	c.doc.ClearEditForm()
}

// CreateBoard adds a placeholder task so the board named name exists.
func (c *Controller) CreateBoard(ctx context.Context, name string) error {
	c.doc.NewBoardName = name
	board, err := domain.ValidateBoardName(name)
	if err != nil {
		c.doc.Alert(err.Error())
		return err
	}
	created, err := c.store.CreateNewTask(ctx, domain.Task{
		ID:     domain.NewTaskID(),
		Title:  domain.PlaceholderTitle,
		Status: c.statuses[0],
		Board:  board,
	})
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	if created == nil {
		return domain.ErrCreateFailed
	}
	c.doc.NewBoardName = ""
	c.doc.SetModal(view.ModalBoardManager, false)
	c.publish(ctx, domain.Mutation{Type: domain.MutationBoardCreated, TaskID: created.ID, Board: board})
	return c.Refresh(ctx)
}

// DeleteBoard removes every task of the board named name in one write.
func (c *Controller) DeleteBoard(ctx context.Context, name string) error {
	tasks, err := c.store.GetTasks(ctx)
	if err != nil {
		return err
	}
	rest := domain.WithoutBoard(tasks, name)
	removed := len(tasks) - len(rest)
	if removed > 0 {
		if err := c.store.ReplaceTasks(ctx, rest); err != nil {
			return fmt.Errorf("delete board: %w", err)
		}
		if c.edit.IsOpen() && c.edit.Baseline().Board == name {
			c.closeEdit(domain.SessionDeleted)
		}
		c.publish(ctx, domain.Mutation{Type: domain.MutationBoardDeleted, Board: name, Count: removed})
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	view.PopulateBoardList(c.doc, domain.ListBoards(rest))
	return nil
}

// OpenBoardManager lists the boards and shows the manager dialog.
func (c *Controller) OpenBoardManager(ctx context.Context) error {
	tasks, err := c.store.GetTasks(ctx)
	if err != nil {
		return err
	}
	view.PopulateBoardList(c.doc, domain.ListBoards(tasks))
	c.doc.SetModal(view.ModalBoardManager, true)
	return nil
}

// CloseBoardManager hides the manager dialog.
func (c *Controller) CloseBoardManager(_ context.Context) error {
	c.doc.SetModal(view.ModalBoardManager, false)
	return nil
}

// ToggleSidebar shows or hides the sidebar and persists the choice.
func (c *Controller) ToggleSidebar(ctx context.Context, show bool) error {
	if err := c.prefs.SetShowSidebar(ctx, show); err != nil {
		return err
	}
	c.doc.SidebarVisible = show
	return nil
}

// ToggleTheme switches between light and dark theme and persists the choice.
func (c *Controller) ToggleTheme(ctx context.Context, light bool) error {
	if err := c.prefs.SetLightTheme(ctx, light); err != nil {
		return err
	}
	c.doc.ApplyTheme(light)
	return nil
}

func (c *Controller) publish(ctx context.Context, m domain.Mutation) {
	if c.journal == nil {
		return
	}
	m.Namespace = c.namespace
	if err := c.journal.Publish(ctx, m); err != nil {
		c.logger.WithError(err).WithField("mutation", m.Type).Warn("journal publish failed")
	}
}

// IsClientError reports whether err was caused by the request rather than storage.
func IsClientError(err error) bool {
	return domain.IsValidation(err) ||
		errors.Is(err, domain.ErrUnsavedChanges) ||
		errors.Is(err, domain.ErrNoEditSession) ||
		errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrBoardNotFound) ||
		errors.Is(err, domain.ErrUnknownEvent) ||
		errors.Is(err, domain.ErrInvalidPayload)
}
