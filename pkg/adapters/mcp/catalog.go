package mcp

// ToolParam describes one argument of a cataloged tool. Every tool
// argument today is a string.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// ToolInfo describes one tool the server registers, in a form the CLI
// can list without a running server.
type ToolInfo struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ResourceInfo describes one resource the server registers.
type ResourceInfo struct {
	URI      string
	Name     string
	MIMEType string
}

// Tools returns the tool catalog in registration order. registerTools
// builds the live registrations from this same table, so the listing
// and the server cannot drift apart.
func Tools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "run_command",
			Description: "Run a shell command on the local machine and get the output.",
			Params: []ToolParam{
				{Name: "command", Description: "The shell command to run", Required: true},
				{Name: "workdir", Description: "Working directory for the command (optional)"},
				{Name: "stdin", Description: "Text piped to the command's standard input (optional)"},
			},
		},
		{
			Name:        "run_expect_script",
			Description: "Run a program with a sequence of expect/send actions, for programs that are interactive and require inputs. Important: do not include carriage return or line feed in the text of a send action.",
			Params: []ToolParam{
				{Name: "program", Description: `The command to run (e.g. "python3 quiz.py")`, Required: true},
				{Name: "actions", Description: `JSON array of steps, e.g. [{"action":"expect","text":"name: "},{"action":"send","text":"Ada"}]`, Required: true},
			},
		},
		{
			Name:        "get_current_dir",
			Description: "Get the current working directory.",
		},
		{
			Name:        "change_dir",
			Description: "Change the working directory. Relative and absolute paths are supported; $HOME and ~ are expanded. Returns the string \"error: invalid directory\" on failure.",
			Params: []ToolParam{
				{Name: "c_dir", Description: "The directory to change to", Required: true},
			},
		},
	}
}

// Resources returns the resource catalog.
func Resources() []ResourceInfo {
	return []ResourceInfo{
		{URI: SystemInfoURI, Name: "Host System Information", MIMEType: "application/json"},
	}
}
