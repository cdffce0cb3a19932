package domain

// MiscWorkspaceID is the reserved catch-all workspace. Classification results
// referencing an unknown workspace are remapped here.
const MiscWorkspaceID = "KB.Personal.Misc"

// NamingTemplate describes how a destination filename is assembled for a
// workspace. Format may reference {prefix} and any token listed in Components.
type NamingTemplate struct {
	Prefix     string   `yaml:"prefix" json:"prefix"`
	Components []string `yaml:"components" json:"components"`
	Format     string   `yaml:"format" json:"format"`
}

// Workspace is one taxonomy category, identified by a dotted path such as
// "KB.Finance.Taxes".
type Workspace struct {
	ID          string         `yaml:"id" json:"id"`
	Description string         `yaml:"description" json:"description"`
	Naming      NamingTemplate `yaml:"naming" json:"naming"`
}
