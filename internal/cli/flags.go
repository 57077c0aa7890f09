package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// practiceArg is the positional practice name shared by counter commands.
type practiceArg struct {
	Practice string `positional-arg-name:"practice" description:"Practice id (astaghfar, durood, laIlaha, ...) or custom id"`
}

// TapCommand: count repetitions of a practice.
type TapCommand struct {
	Count int         `short:"n" long:"count" description:"Repetitions to add" default:"1"`
	Args  practiceArg `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
	env     *env // injectable for testing; nil means open from config
}

// ResetCommand: zero the lifetime total of a practice.
type ResetCommand struct {
	Args practiceArg `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
	env     *env
}

// ShowCommand: print the record of one practice.
type ShowCommand struct {
	Args practiceArg `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
	env     *env
}

// PracticesCommand: list built-in and custom practices.
type PracticesCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// CustomAddCommand: register a custom practice.
type CustomAddCommand struct {
	Name   string `long:"name" description:"Display name (required)"`
	Arabic string `long:"arabic" description:"Recited text"`
	Goal   string `long:"goal" description:"Repetitions per set" default:"100"`

	globals *GlobalFlags
	version string
	env     *env
}

// CustomRemoveCommand: delete a custom practice and its counts.
type CustomRemoveCommand struct {
	Args struct {
		ID string `positional-arg-name:"id" description:"Custom practice id"`
	} `positional-args:"yes" required:"yes"`

	globals *GlobalFlags
	version string
	env     *env
}

// StatsCommand: totals across practices and the current streak.
type StatsCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// ReminderShowCommand: print the reminder settings.
type ReminderShowCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// ReminderSetCommand: choose the reminder interval.
type ReminderSetCommand struct {
	Args struct {
		Minutes string `positional-arg-name:"minutes" description:"Interval: 0 (off), 30, 60, 120 or 180 (default from config)"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	env     *env
}

// ReminderToggleCommand: switch reminders on or off keeping the interval.
type ReminderToggleCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// ReminderRunCommand: deliver reminders until interrupted.
type ReminderRunCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}

// MeditateCommand: run a muraqaba countdown.
type MeditateCommand struct {
	Minutes string `short:"m" long:"minutes" description:"Session length in minutes (default from config)"`

	globals *GlobalFlags
	version string
	env     *env
}

// PurgeCommand: delete ALL zikr data with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	env     *env
}

// StatusCommand: show storage health and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	env     *env
}
