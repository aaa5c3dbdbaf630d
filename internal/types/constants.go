package types

const (
	ContextSessionKey = "session"
	SessionCookieName = "session"
)

type MenuItem struct {
	Label string
	Path  string
}

const (
	MenuLogin         = "Login/Register"
	MenuCreateProject = "Create Project"
	MenuBrowse        = "Browse Projects"
	MenuMyProjects    = "My Projects"
	MenuMessages      = "Messages"
	MenuCommunity     = "Community"
	MenuLogout        = "Logout"
)

// Menu is the navigation shown to a logged-in session, in display order.
var Menu = []MenuItem{
	{Label: MenuCreateProject, Path: "/projects/new"},
	{Label: MenuBrowse, Path: "/projects"},
	{Label: MenuMyProjects, Path: "/projects/mine"},
	{Label: MenuMessages, Path: "/messages"},
	{Label: MenuCommunity, Path: "/community"},
	{Label: MenuLogout, Path: "/logout"},
}
