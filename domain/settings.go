package domain

// Preferences holds the UI chrome flags persisted next to the tasks.
type Preferences struct {
	ShowSidebar bool `json:"showSideBar"`
	LightTheme  bool `json:"lightTheme"`
}
