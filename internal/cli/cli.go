package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	goflags "github.com/jessevdk/go-flags"

	"github.com/runnerr0/zikr/internal/meditation"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Tap            *TapCommand
	Reset          *ResetCommand
	Show           *ShowCommand
	Practices      *PracticesCommand
	CustomAdd      *CustomAddCommand
	CustomRemove   *CustomRemoveCommand
	Stats          *StatsCommand
	ReminderShow   *ReminderShowCommand
	ReminderSet    *ReminderSetCommand
	ReminderToggle *ReminderToggleCommand
	ReminderRun    *ReminderRunCommand
	Meditate       *MeditateCommand
	Purge          *PurgeCommand
	Status         *StatusCommand
}

// group is a command that only holds subcommands.
type group struct{}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "zikr"
	parser.LongDescription = "Count tasbeeh and dhikr, track daily to yearly totals and streaks, and keep wuqoof reminders."

	cmds := &commands{
		Tap:            &TapCommand{globals: &globals, version: version},
		Reset:          &ResetCommand{globals: &globals, version: version},
		Show:           &ShowCommand{globals: &globals, version: version},
		Practices:      &PracticesCommand{globals: &globals, version: version},
		CustomAdd:      &CustomAddCommand{globals: &globals, version: version},
		CustomRemove:   &CustomRemoveCommand{globals: &globals, version: version},
		Stats:          &StatsCommand{globals: &globals, version: version},
		ReminderShow:   &ReminderShowCommand{globals: &globals, version: version},
		ReminderSet:    &ReminderSetCommand{globals: &globals, version: version},
		ReminderToggle: &ReminderToggleCommand{globals: &globals, version: version},
		ReminderRun:    &ReminderRunCommand{globals: &globals, version: version},
		Meditate:       &MeditateCommand{globals: &globals, version: version},
		Purge:          &PurgeCommand{globals: &globals, version: version},
		Status:         &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("tap", "Count repetitions", "Add repetitions to a practice, rolling its daily, weekly, monthly and yearly counts over as needed.", cmds.Tap)
	parser.AddCommand("reset", "Reset a lifetime total", "Set the lifetime total of a practice to zero. Periodic counts are kept.", cmds.Reset)
	parser.AddCommand("show", "Show one practice", "Show the counts of one practice.", cmds.Show)
	parser.AddCommand("practices", "List practices", "List built-in and custom practices with today's counts.", cmds.Practices)

	custom, _ := parser.AddCommand("custom", "Manage custom practices", "Add or remove custom practices.", &group{})
	custom.AddCommand("add", "Add a custom practice", "Register a custom practice with a name, recited text and goal.", cmds.CustomAdd)
	custom.AddCommand("remove", "Remove a custom practice", "Remove a custom practice and delete its counts.", cmds.CustomRemove)

	parser.AddCommand("stats", "Show totals and streak", "Show totals across all practices and the current daily streak.", cmds.Stats)

	rem, _ := parser.AddCommand("reminder", "Manage wuqoof reminders", "Show, change or run the periodic wuqoof reminder.", &group{})
	rem.AddCommand("show", "Show reminder settings", "Show the reminder settings.", cmds.ReminderShow)
	rem.AddCommand("set", "Set the reminder interval", "Set the reminder interval in minutes. 0 turns reminders off.", cmds.ReminderSet)
	rem.AddCommand("toggle", "Turn reminders on or off", "Turn reminders on or off, keeping the interval.", cmds.ReminderToggle)
	rem.AddCommand("run", "Deliver reminders", "Deliver reminders in the foreground until interrupted.", cmds.ReminderRun)

	parser.AddCommand("meditate", "Run a muraqaba timer", "Count down a muraqaba session. Presets: "+presetList()+" minutes.", cmds.Meditate)
	parser.AddCommand("purge", "Delete ALL zikr data", "Delete ALL zikr data. Destructive operation with safety prompt.", cmds.Purge)
	parser.AddCommand("status", "Show storage health and settings", "Show storage statistics and a configuration summary.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the zikr CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("zikr %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}

func presetList() string {
	parts := make([]string, 0, len(meditation.Presets))
	for _, p := range meditation.Presets {
		parts = append(parts, strconv.Itoa(p.Minutes))
	}
	return strings.Join(parts, ", ")
}
