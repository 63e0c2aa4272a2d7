package daemon

import (
	"errors"
	"github.com/creasty/defaults"
	"github.com/icinga/icinga-go-library/config"
	"github.com/icinga/icinga-go-library/logging"
	"github.com/icinga/icinga-go-library/utils"
	"github.com/stuyutils/schoolday/internal"
	"github.com/stuyutils/schoolday/internal/loader"
	"os"
	"path/filepath"
	"strings"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type ConfigFile struct {
	Source   loader.Config  `yaml:"source"`
	Resolver Resolver       `yaml:"resolver"`
	Logging  logging.Config `yaml:"logging"`
}

// Resolver configures query behavior.
type Resolver struct {
	// SkipPassing makes the next class step over passing periods.
	SkipPassing bool `yaml:"skip-passing"`
}

// SetDefaults implements the defaults.Setter interface.
func (c *ConfigFile) SetDefaults() {
	if defaults.CanUpdate(c.Source.Database.DSN) {
		c.Source.Database.DSN = "file:" + internal.LocalStateDir + "/schoolday/schedule.db"
	}
	if defaults.CanUpdate(c.Logging.Output) {
		c.Logging.Output = logging.CONSOLE
	}
}

// Validate implements the config.Validator interface.
func (c *ConfigFile) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}

	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	return nil
}

// Assert interface compliance.
var (
	_ defaults.Setter  = (*ConfigFile)(nil)
	_ config.Validator = (*ConfigFile)(nil)
)

// LoadConfig loads the YAML config file at path.
//
// Relative data paths are resolved against the directory of the config file.
func LoadConfig(path string) (*ConfigFile, error) {
	c := new(ConfigFile)
	if err := config.FromYAMLFile(path, c); err != nil {
		return nil, err
	}

	c.resolvePaths(filepath.Dir(path))

	return c, nil
}

// resolvePaths makes the data file paths relative to dir unless they are absolute already.
func (c *ConfigFile) resolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	if c.Source.Format == loader.FormatCSV {
		c.Source.Calendar = resolve(c.Source.Calendar)
		for name, p := range c.Source.Bell {
			c.Source.Bell[name] = resolve(p)
		}
	}
	c.Source.Workbook = resolve(c.Source.Workbook)
}

// Flags defines the CLI flags supported by schoolday.
type Flags struct {
	// Version decides whether to just print the version and exit.
	Version bool `long:"version" description:"print version and exit"`
	// Config is the path to the config file
	Config string `short:"c" long:"config" description:"path to config file"`
	// At overrides the query time, which defaults to now.
	At string `long:"at" description:"query time as 'YYYY-MM-DD HH:MM', 'YYYY-MM-DD', 'HH:MM' or 'H:MM PM'"`
	// Transitions limits the number of upcoming period transitions printed.
	Transitions int `long:"transitions" description:"number of upcoming period transitions to print" default:"5"`
}

// ParseFlagsAndConfig parses the CLI flags provided to the executable and tries to load the config from the YAML file.
//
// Prints any error during parsing or config loading to os.Stderr and exits.
func ParseFlagsAndConfig() (*Flags, *ConfigFile) {
	flags := Flags{Config: internal.SysConfDir + "/schoolday/config.yml"}
	if err := config.ParseFlags(&flags); err != nil {
		if errors.Is(err, config.ErrInvalidArgument) {
			panic(err)
		}

		utils.PrintErrorThenExit(err, ExitFailure)
	}

	if flags.Version {
		internal.Version.Print(os.Stdout, "schoolday")
		os.Exit(ExitSuccess)
	}

	conf, err := LoadConfig(flags.Config)
	if err != nil {
		if errors.Is(err, config.ErrInvalidArgument) {
			panic(err)
		}

		utils.PrintErrorThenExit(err, ExitFailure)
	}

	return &flags, conf
}
