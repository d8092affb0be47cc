package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"prism-board/domain"
	"prism-board/storage"
	"prism-board/view"
)

type recordingJournal struct {
	mutations []domain.Mutation
	err       error
}

func (j *recordingJournal) Publish(_ context.Context, m domain.Mutation) error {
	j.mutations = append(j.mutations, m)
	return j.err
}

func (j *recordingJournal) types() []string {
	out := make([]string, 0, len(j.mutations))
	for _, m := range j.mutations {
		out = append(out, m.Type)
	}
	return out
}

type fixture struct {
	ctrl    *Controller
	kv      *storage.Memory
	store   *storage.TaskStore
	prefs   *storage.PreferenceStore
	journal *recordingJournal
}

func newFixture(t *testing.T, tasks ...domain.Task) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemory()
	store := storage.NewTaskStore(kv)
	if tasks != nil {
		if err := store.ReplaceTasks(ctx, tasks); err != nil {
			t.Fatalf("seed tasks: %v", err)
		}
	}
	f := &fixture{
		kv:      kv,
		store:   store,
		prefs:   storage.NewPreferenceStore(kv),
		journal: &recordingJournal{},
	}
	logger, _ := logtest.NewNullLogger()
	f.ctrl = NewController(Config{
		Store:     f.store,
		Prefs:     f.prefs,
		Journal:   f.journal,
		Namespace: "test",
		Logger:    logger,
	})
	if err := f.ctrl.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	return f
}

func (f *fixture) tasks(t *testing.T) []domain.Task {
	t.Helper()
	tasks, err := f.store.GetTasks(context.Background())
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	return tasks
}

func itemTitles(doc *view.Document, status string) []string {
	col, ok := doc.Column(status)
	if !ok {
		return nil
	}
	out := []string{}
	for _, it := range col.Items {
		out = append(out, it.Title)
	}
	return out
}

var taskA = domain.Task{ID: "1", Title: "A", Status: "todo", Board: "X"}

func TestLoadResolvesFirstBoard(t *testing.T) {
	f := newFixture(t, taskA, domain.Task{ID: "2", Title: "B", Status: "done", Board: "Z"})

	board, ok := f.ctrl.ActiveBoard()
	if !ok || board != "X" {
		t.Fatalf("active board = %q %v", board, ok)
	}
	persisted, ok, _ := f.prefs.ActiveBoard(context.Background())
	if !ok || persisted != "X" {
		t.Fatalf("fallback not persisted: %q %v", persisted, ok)
	}
	doc := f.ctrl.Document()
	if doc.Header != "X" {
		t.Fatalf("header = %q", doc.Header)
	}
	want := []view.BoardButton{{Name: "X", Active: true}, {Name: "Z"}}
	if diff := cmp.Diff(want, doc.Boards); diff != "" {
		t.Fatalf("board nav mismatch (-want +got):\n%s", diff)
	}
	if got := itemTitles(doc, "todo"); !cmp.Equal(got, []string{"A"}) {
		t.Fatalf("todo column = %v", got)
	}
	if got := itemTitles(doc, "done"); len(got) != 0 {
		t.Fatalf("done column should not show other boards: %v", got)
	}
}

func TestLoadKeepsPersistedBoard(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	store := storage.NewTaskStore(kv)
	prefs := storage.NewPreferenceStore(kv)
	_ = store.ReplaceTasks(ctx, []domain.Task{taskA, {ID: "2", Title: "B", Status: "todo", Board: "Z"}})
	_ = prefs.SetActiveBoard(ctx, "Z")
	_ = prefs.SetLightTheme(ctx, true)

	ctrl := NewController(Config{Store: store, Prefs: prefs})
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if board, _ := ctrl.ActiveBoard(); board != "Z" {
		t.Fatalf("active board = %q", board)
	}
	doc := ctrl.Document()
	if !doc.LightTheme || doc.Logo != view.LogoLight {
		t.Fatalf("theme not applied: %v %s", doc.LightTheme, doc.Logo)
	}
}

func TestLoadWithoutTasks(t *testing.T) {
	f := newFixture(t)
	if _, ok := f.ctrl.ActiveBoard(); ok {
		t.Fatalf("expected no active board")
	}
	doc := f.ctrl.Document()
	if doc.Header != "" || len(doc.Boards) != 0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestCreateBoardThenDeleteBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)

	if err := f.ctrl.CreateBoard(ctx, "Y"); err != nil {
		t.Fatalf("create board: %v", err)
	}
	tasks := f.tasks(t)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %+v", tasks)
	}
	if got := domain.ListBoards(tasks); !cmp.Equal(got, []string{"X", "Y"}) {
		t.Fatalf("boards = %v", got)
	}
	placeholder := tasks[1]
	if placeholder.Title != domain.PlaceholderTitle || placeholder.Status != "todo" || placeholder.Board != "Y" {
		t.Fatalf("unexpected placeholder: %+v", placeholder)
	}

	if err := f.ctrl.DeleteBoard(ctx, "X"); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	tasks = f.tasks(t)
	if diff := cmp.Diff([]domain.Task{placeholder}, tasks); diff != "" {
		t.Fatalf("remaining tasks mismatch (-want +got):\n%s", diff)
	}
	if got := domain.ListBoards(tasks); !cmp.Equal(got, []string{"Y"}) {
		t.Fatalf("boards = %v", got)
	}
	if board, _ := f.ctrl.ActiveBoard(); board != "Y" {
		t.Fatalf("active board should fall back to Y, got %q", board)
	}
	doc := f.ctrl.Document()
	if !cmp.Equal(doc.BoardList, []string{"Y"}) {
		t.Fatalf("board list = %v", doc.BoardList)
	}
	if diff := cmp.Diff([]string{domain.MutationBoardCreated, domain.MutationBoardDeleted}, f.journal.types()); diff != "" {
		t.Fatalf("journal mismatch (-want +got):\n%s", diff)
	}
	if f.journal.mutations[1].Count != 1 || f.journal.mutations[1].Namespace != "test" {
		t.Fatalf("unexpected mutation: %+v", f.journal.mutations[1])
	}
}

func TestDeleteBoardEqualsFilter(t *testing.T) {
	ctx := context.Background()
	initial := []domain.Task{
		taskA,
		{ID: "2", Title: "B", Status: "doing", Board: "Y"},
		{ID: "3", Title: "C", Status: "done", Board: "X"},
		{ID: "4", Title: "D", Status: "todo", Board: "Z"},
	}
	f := newFixture(t, initial...)

	if err := f.ctrl.DeleteBoard(ctx, "X"); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if diff := cmp.Diff(domain.WithoutBoard(initial, "X"), f.tasks(t)); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
	if domain.HasBoard(domain.ListBoards(f.tasks(t)), "X") {
		t.Fatalf("board X still listed")
	}
}

func TestDeleteUnknownBoardWritesNothing(t *testing.T) {
	f := newFixture(t, taskA)
	if err := f.ctrl.DeleteBoard(context.Background(), "nope"); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if len(f.tasks(t)) != 1 || len(f.journal.mutations) != 0 {
		t.Fatalf("unexpected side effects")
	}
}

func TestDeleteLastBoardClearsView(t *testing.T) {
	f := newFixture(t, taskA)
	if err := f.ctrl.DeleteBoard(context.Background(), "X"); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if _, ok := f.ctrl.ActiveBoard(); ok {
		t.Fatalf("expected no active board")
	}
	if got := itemTitles(f.ctrl.Document(), "todo"); len(got) != 0 {
		t.Fatalf("columns not cleared: %v", got)
	}
}

func TestCreateBoardRejectsEmptyName(t *testing.T) {
	f := newFixture(t, taskA)
	err := f.ctrl.CreateBoard(context.Background(), "   ")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.tasks(t)) != 1 {
		t.Fatalf("storage changed")
	}
	if alerts := f.ctrl.Document().Alerts; len(alerts) != 1 || alerts[0] != "Board name cannot be empty" {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestCreateTaskRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)
	before := f.tasks(t)

	if err := f.ctrl.OpenCreateTask(ctx); err != nil {
		t.Fatalf("open create: %v", err)
	}
	if doc := f.ctrl.Document(); !doc.CreateTaskOpen() || !doc.Overlay {
		t.Fatalf("create dialog not shown")
	}

	fields := domain.TaskFields{Title: "Write tests", Description: "cover the controller", Status: "doing"}
	created, err := f.ctrl.CreateTask(ctx, fields)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	after := f.tasks(t)
	if len(after) != len(before)+1 {
		t.Fatalf("expected one new task, got %+v", after)
	}
	got := after[len(after)-1]
	if got.Fields() != fields || got.Board != "X" || got.ID != created.ID || got.ID == "" {
		t.Fatalf("unexpected stored task: %+v", got)
	}
	doc := f.ctrl.Document()
	if doc.CreateTaskOpen() || doc.Overlay {
		t.Fatalf("create dialog still shown")
	}
	if doc.CreateForm.Title != "" {
		t.Fatalf("create form not reset: %+v", doc.CreateForm)
	}
	if got := itemTitles(doc, "doing"); !cmp.Equal(got, []string{"Write tests"}) {
		t.Fatalf("doing column = %v", got)
	}

	if err := f.ctrl.OpenEditSession(ctx, created.ID); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if err := f.ctrl.DeleteTask(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if diff := cmp.Diff(before, f.tasks(t)); diff != "" {
		t.Fatalf("collection not restored (-want +got):\n%s", diff)
	}
	if f.ctrl.Session().State() != domain.SessionDeleted {
		t.Fatalf("session state = %s", f.ctrl.Session().State())
	}
}

func TestCreateTaskDefaultsStatus(t *testing.T) {
	f := newFixture(t, taskA)
	created, err := f.ctrl.CreateTask(context.Background(), domain.TaskFields{Title: "T"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "todo" {
		t.Fatalf("status = %q", created.Status)
	}
}

func TestCreateTaskEmptyTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)
	before := f.tasks(t)

	for _, title := range []string{"", "   "} {
		_, err := f.ctrl.CreateTask(ctx, domain.TaskFields{Title: title, Status: "todo"})
		if !domain.IsValidation(err) {
			t.Fatalf("title %q: expected validation error, got %v", title, err)
		}
		if !IsClientError(err) {
			t.Fatalf("validation must be a client error")
		}
	}
	if diff := cmp.Diff(before, f.tasks(t)); diff != "" {
		t.Fatalf("storage changed (-want +got):\n%s", diff)
	}
	doc := f.ctrl.Document()
	if len(doc.Alerts) != 2 || doc.Alerts[0] != "The title field cannot be empty!" {
		t.Fatalf("alerts = %v", doc.Alerts)
	}
	if len(f.journal.mutations) != 0 {
		t.Fatalf("journal should be empty")
	}
}

func TestCreateTaskWithoutBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ctrl.CreateTask(ctx, domain.TaskFields{Title: "orphan", Status: "todo"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok, _ := f.kv.Get(ctx, storage.KeyTasks); ok {
		t.Fatalf("task collection must not be written")
	}
	doc := f.ctrl.Document()
	if len(doc.Alerts) != 1 || doc.Alerts[0] != domain.NoBoardAlert {
		t.Fatalf("alerts = %v", doc.Alerts)
	}
	if len(f.journal.mutations) != 0 {
		t.Fatalf("journal should be empty")
	}

	if err := f.ctrl.CreateBoard(ctx, "X"); err != nil {
		t.Fatalf("create board: %v", err)
	}
	created, err := f.ctrl.CreateTask(ctx, domain.TaskFields{Title: "kept"})
	if err != nil || created.Board != "X" {
		t.Fatalf("create after board = %+v %v", created, err)
	}
}

func TestEditSessionUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)

	if f.ctrl.HasUnsavedChanges() {
		t.Fatalf("no session should mean no unsaved changes")
	}
	if err := f.ctrl.OpenEditSession(ctx, "1"); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if f.ctrl.HasUnsavedChanges() {
		t.Fatalf("fresh session reports unsaved changes")
	}

	cases := []struct {
		name  string
		patch domain.FormPatch
	}{
		{"title", domain.FormPatch{Title: strPtr("A2")}},
		{"description", domain.FormPatch{Description: strPtr("more")}},
		{"status", domain.FormPatch{Status: strPtr("done")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := f.ctrl.OpenEditSession(ctx, "1"); err != nil {
				t.Fatalf("open edit: %v", err)
			}
			if err := f.ctrl.UpdateEditForm(ctx, tc.patch); err != nil {
				t.Fatalf("update: %v", err)
			}
			if !f.ctrl.HasUnsavedChanges() {
				t.Fatalf("change not detected")
			}
		})
	}

	// Reverting the field clears the flag.
	_ = f.ctrl.OpenEditSession(ctx, "1")
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr("other")})
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr("A")})
	if f.ctrl.HasUnsavedChanges() {
		t.Fatalf("reverted form still reports changes")
	}
}

func TestUnsavedChangesBlockCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)

	_ = f.ctrl.OpenEditSession(ctx, "1")
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr("changed")})

	err := f.ctrl.OpenCreateTask(ctx)
	if !errors.Is(err, domain.ErrUnsavedChanges) {
		t.Fatalf("expected ErrUnsavedChanges, got %v", err)
	}
	doc := f.ctrl.Document()
	if doc.CreateTaskOpen() || !doc.EditTaskOpen() {
		t.Fatalf("dialogs changed: create=%v edit=%v", doc.CreateTaskOpen(), doc.EditTaskOpen())
	}
	if len(doc.Alerts) != 1 || doc.Alerts[0] != domain.UnsavedChangesAlert {
		t.Fatalf("alerts = %v", doc.Alerts)
	}

	// Without changes the edit dialog gives way.
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr("A")})
	if err := f.ctrl.OpenCreateTask(ctx); err != nil {
		t.Fatalf("open create: %v", err)
	}
	doc = f.ctrl.Document()
	if !doc.CreateTaskOpen() || doc.EditTaskOpen() {
		t.Fatalf("dialogs: create=%v edit=%v", doc.CreateTaskOpen(), doc.EditTaskOpen())
	}
	if f.ctrl.Session().State() != domain.SessionCancelled {
		t.Fatalf("session state = %s", f.ctrl.Session().State())
	}
}

func TestSaveTaskReplacesRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.Task{ID: "1", Title: "A", Description: "old", Status: "todo", Board: "X"})

	_ = f.ctrl.OpenEditSession(ctx, "1")
	if doc := f.ctrl.Document(); doc.EditTaskID != "1" || doc.EditForm.Description != "old" {
		t.Fatalf("edit form not filled: %+v", doc.EditForm)
	}
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{
		Title:       strPtr("  A2  "),
		Description: strPtr(""),
		Status:      strPtr("done"),
	})
	if err := f.ctrl.SaveTask(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := []domain.Task{{ID: "1", Title: "A2", Description: "", Status: "done", Board: "X"}}
	if diff := cmp.Diff(want, f.tasks(t)); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
	doc := f.ctrl.Document()
	if doc.EditTaskOpen() || doc.EditTaskID != "" {
		t.Fatalf("edit dialog not closed")
	}
	if got := itemTitles(doc, "done"); !cmp.Equal(got, []string{"A2"}) {
		t.Fatalf("done column = %v", got)
	}
	if f.ctrl.Session().State() != domain.SessionSaved || f.ctrl.HasUnsavedChanges() {
		t.Fatalf("session not closed as saved")
	}
	if diff := cmp.Diff([]string{domain.MutationTaskUpdated}, f.journal.types()); diff != "" {
		t.Fatalf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveTaskEmptyTitleKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)
	_ = f.ctrl.OpenEditSession(ctx, "1")
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr(" ")})

	if err := f.ctrl.SaveTask(ctx); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]domain.Task{taskA}, f.tasks(t)); diff != "" {
		t.Fatalf("storage changed (-want +got):\n%s", diff)
	}
	if !f.ctrl.Session().IsOpen() || !f.ctrl.Document().EditTaskOpen() {
		t.Fatalf("edit session should stay open")
	}
}

func TestSaveTaskRemovedElsewhere(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)
	_ = f.ctrl.OpenEditSession(ctx, "1")
	_ = f.store.DeleteTask(ctx, "1")

	if err := f.ctrl.SaveTask(ctx); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestEditWithoutSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)

	for name, fn := range map[string]func() error{
		"update": func() error { return f.ctrl.UpdateEditForm(ctx, domain.FormPatch{}) },
		"save":   func() error { return f.ctrl.SaveTask(ctx) },
		"delete": func() error { return f.ctrl.DeleteTask(ctx) },
	} {
		if err := fn(); !errors.Is(err, domain.ErrNoEditSession) {
			t.Fatalf("%s: expected ErrNoEditSession, got %v", name, err)
		}
	}
	if err := f.ctrl.OpenEditSession(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestCancelEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)
	_ = f.ctrl.OpenEditSession(ctx, "1")
	_ = f.ctrl.UpdateEditForm(ctx, domain.FormPatch{Title: strPtr("discarded")})

	if err := f.ctrl.CancelEdit(ctx); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if diff := cmp.Diff([]domain.Task{taskA}, f.tasks(t)); diff != "" {
		t.Fatalf("storage changed (-want +got):\n%s", diff)
	}
	if f.ctrl.Session().State() != domain.SessionCancelled {
		t.Fatalf("session state = %s", f.ctrl.Session().State())
	}
}

func TestDeleteBoardClosesItsEditSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA, domain.Task{ID: "2", Title: "B", Status: "todo", Board: "Y"})
	_ = f.ctrl.OpenEditSession(ctx, "1")

	if err := f.ctrl.DeleteBoard(ctx, "X"); err != nil {
		t.Fatalf("delete board: %v", err)
	}
	if f.ctrl.Session().IsOpen() || f.ctrl.Document().EditTaskOpen() {
		t.Fatalf("edit session on a deleted board should close")
	}
}

func TestSetActiveBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA, domain.Task{ID: "2", Title: "B", Status: "todo", Board: "Y"})

	if err := f.ctrl.SetActiveBoard(ctx, "Y"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if persisted, _, _ := f.prefs.ActiveBoard(ctx); persisted != "Y" {
		t.Fatalf("persisted = %q", persisted)
	}
	doc := f.ctrl.Document()
	if doc.Header != "Y" || !cmp.Equal(itemTitles(doc, "todo"), []string{"B"}) {
		t.Fatalf("view not switched: header=%q todo=%v", doc.Header, itemTitles(doc, "todo"))
	}

	err := f.ctrl.SetActiveBoard(ctx, "nope")
	if !errors.Is(err, domain.ErrBoardNotFound) {
		t.Fatalf("expected ErrBoardNotFound, got %v", err)
	}
	if board, _ := f.ctrl.ActiveBoard(); board != "Y" {
		t.Fatalf("active board changed to %q", board)
	}
}

func TestBoardManager(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA, domain.Task{ID: "2", Title: "B", Status: "todo", Board: "Y"})

	if err := f.ctrl.OpenBoardManager(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	doc := f.ctrl.Document()
	if !doc.BoardManagerOpen() || !cmp.Equal(doc.BoardList, []string{"X", "Y"}) {
		t.Fatalf("manager = %v %v", doc.BoardManagerOpen(), doc.BoardList)
	}
	_ = f.ctrl.CloseBoardManager(ctx)
	if f.ctrl.Document().BoardManagerOpen() {
		t.Fatalf("manager still open")
	}
}

func TestToggles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, taskA)

	if err := f.ctrl.ToggleSidebar(ctx, false); err != nil {
		t.Fatalf("sidebar: %v", err)
	}
	if err := f.ctrl.ToggleTheme(ctx, true); err != nil {
		t.Fatalf("theme: %v", err)
	}
	doc := f.ctrl.Document()
	if doc.SidebarVisible || !doc.LightTheme || doc.Logo != view.LogoLight {
		t.Fatalf("unexpected chrome: %+v", doc)
	}
	p, _ := f.prefs.Preferences(ctx)
	if p.ShowSidebar || !p.LightTheme {
		t.Fatalf("prefs not persisted: %+v", p)
	}
}

func TestJournalFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	store := storage.NewTaskStore(kv)
	_ = store.ReplaceTasks(ctx, []domain.Task{taskA})
	logger, hook := logtest.NewNullLogger()
	ctrl := NewController(Config{
		Store:     store,
		Prefs:     storage.NewPreferenceStore(kv),
		Journal:   &recordingJournal{err: errors.New("queue down")},
		Namespace: "n1",
		Logger:    logger,
	})
	if err := ctrl.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, err := ctrl.CreateTask(ctx, domain.TaskFields{Title: "T", Status: "todo"}); err != nil {
		t.Fatalf("create should succeed despite journal error: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != log.WarnLevel {
		t.Fatalf("expected warning, got %+v", entry)
	}
	if entry.Data["namespace"] != "n1" || entry.Data["mutation"] != domain.MutationTaskCreated {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}
}

func TestIsClientError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&domain.ValidationError{Field: "title", Message: "x"}, true},
		{domain.ErrUnsavedChanges, true},
		{domain.ErrTaskNotFound, true},
		{domain.ErrUnknownEvent, true},
		{domain.ErrCreateFailed, false},
		{errors.New("disk full"), false},
	}
	for _, tc := range cases {
		if got := IsClientError(tc.err); got != tc.want {
			t.Errorf("IsClientError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func strPtr(s string) *string { return &s }
