package view

import (
	"strings"

	"prism-board/domain"
)

// Modal identifies one of the page dialogs.
type Modal string

const (
	ModalCreateTask   Modal = "new-task-modal-window"
	ModalEditTask     Modal = "edit-task-modal-window"
	ModalBoardManager Modal = "edit-board-modal"
)

const (
	LogoLight = "./assets/logo-light.svg"
	LogoDark  = "./assets/logo-dark.svg"
)

// Item is a rendered task card.
type Item struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

// Column is the container of one status.
type Column struct {
	Status string `json:"status"`
	Items  []Item `json:"items"`
}

// Heading is the column title shown above the cards.
func (c *Column) Heading() string {
	return strings.ToUpper(c.Status)
}

// Reset drops every card.
func (c *Column) Reset() {
	c.Items = c.Items[:0]
}

// Append adds a card for t.
func (c *Column) Append(t domain.Task) {
	c.Items = append(c.Items, Item{TaskID: t.ID, Title: t.Title})
}

// BoardButton is an entry of the board selector.
type BoardButton struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Form mirrors the inputs of a task form.
type Form struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Document is the server side copy of the rendered page.
type Document struct {
	Header         string         `json:"header"`
	Boards         []BoardButton  `json:"boards"`
	Columns        []*Column      `json:"columns"`
	Statuses       []string       `json:"statuses"`
	BoardList      []string       `json:"boardList"`
	Modals         map[Modal]bool `json:"modals"`
	Overlay        bool           `json:"overlay"`
	SidebarVisible bool           `json:"sidebarVisible"`
	LightTheme     bool           `json:"lightTheme"`
	Logo           string         `json:"logo"`
	CreateForm     Form           `json:"createForm"`
	EditForm       Form           `json:"editForm"`
	EditTaskID     string         `json:"editTaskId,omitempty"`
	NewBoardName   string         `json:"newBoardName"`
	Alerts         []string       `json:"alerts,omitempty"`
}

// NewDocument lays out one column per status.
func NewDocument(statuses []string) *Document {
	d := &Document{
		Statuses: append([]string(nil), statuses...),
		Modals:   make(map[Modal]bool, 3),
		Logo:     LogoDark,
	}
	for _, s := range statuses {
		d.Columns = append(d.Columns, &Column{Status: s, Items: []Item{}})
	}
	d.CreateForm = d.blankForm()
	return d
}

func (d *Document) blankForm() Form {
	f := Form{}
	if len(d.Statuses) > 0 {
		f.Status = d.Statuses[0]
	}
	return f
}

// Column returns the container for status.
func (d *Document) Column(status string) (*Column, bool) {
	for _, c := range d.Columns {
		if c.Status == status {
			return c, true
		}
	}
	return nil, false
}

// SetModal shows or hides m.
func (d *Document) SetModal(m Modal, show bool) {
	if d.Modals == nil {
		d.Modals = make(map[Modal]bool, 3)
	}
	d.Modals[m] = show
}

// ModalOpen reports whether m is shown.
func (d *Document) ModalOpen(m Modal) bool {
	return d.Modals[m]
}

// CreateTaskOpen reports whether the new task dialog is shown.
func (d *Document) CreateTaskOpen() bool { return d.ModalOpen(ModalCreateTask) }

// EditTaskOpen reports whether the edit task dialog is shown.
func (d *Document) EditTaskOpen() bool { return d.ModalOpen(ModalEditTask) }

// BoardManagerOpen reports whether the board manager is shown.
func (d *Document) BoardManagerOpen() bool { return d.ModalOpen(ModalBoardManager) }

// ResetCreateForm clears the create form inputs.
func (d *Document) ResetCreateForm() {
	d.CreateForm = d.blankForm()
}

// FillEditForm loads t into the edit form.
func (d *Document) FillEditForm(t domain.Task) {
	d.EditForm = Form{Title: t.Title, Description: t.Description, Status: t.Status}
	d.EditTaskID = t.ID
}

// ClearEditForm empties the edit form.
func (d *Document) ClearEditForm() {
	d.EditForm = Form{}
	d.EditTaskID = ""
}

// EditFields returns the live edit form as task fields.
func (d *Document) EditFields() domain.TaskFields {
	return domain.TaskFields{Title: d.EditForm.Title, Description: d.EditForm.Description, Status: d.EditForm.Status}
}

// SetEditFields writes f into the edit form.
func (d *Document) SetEditFields(f domain.TaskFields) {
	d.EditForm = Form{Title: f.Title, Description: f.Description, Status: f.Status}
}

// ApplyTheme switches theme flag and logo together.
func (d *Document) ApplyTheme(light bool) {
	d.LightTheme = light
	if light {
		d.Logo = LogoLight
	} else {
		d.Logo = LogoDark
	}
}

// Alert records a message for the user.
func (d *Document) Alert(msg string) {
	d.Alerts = append(d.Alerts, msg)
}

// TakeAlerts returns and clears the pending alerts.
func (d *Document) TakeAlerts() []string {
	a := d.Alerts
	d.Alerts = nil
	return a
}

// Clone returns a deep copy safe to hand to other goroutines.
func (d *Document) Clone() *Document {
	c := *d
	c.Boards = append([]BoardButton(nil), d.Boards...)
	c.Statuses = append([]string(nil), d.Statuses...)
	c.BoardList = append([]string(nil), d.BoardList...)
	c.Alerts = append([]string(nil), d.Alerts...)
	c.Columns = make([]*Column, len(d.Columns))
	for i, col := range d.Columns {
		c.Columns[i] = &Column{Status: col.Status, Items: append([]Item{}, col.Items...)}
	}
	c.Modals = make(map[Modal]bool, len(d.Modals))
	for k, v := range d.Modals {
		c.Modals[k] = v
	}
	return &c
}
