package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/restcheck/posts-contract-tests/framework/apitest"
)

const (
	defaultTargetURL   = "https://jsonplaceholder.typicode.com"
	defaultDataFile    = "test_data.json"
	defaultResultsFile = "results.csv"
	defaultTimeout     = 30 * time.Second
)

type commandParams struct {
	targetURL      string
	configFile     string
	dataFile       string
	resultsFile    string
	timeout        time.Duration
	filters        apitest.RegexFilters
	skipFile       string
	recordFailures string
	debug          bool
	debugAll       bool
	jUnitFile      string
	xlsxFile       string
	mock           bool
}

func (c *commandParams) Read(args []string) bool {
	if err := c.parse(args, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		return false
	}
	return true
}

func (c *commandParams) parse(args []string, output io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&c.targetURL, "url", defaultTargetURL, "base URL of the posts API under test")
	fs.StringVar(&c.configFile, "config", "", "read settings from this YAML or JSON file; flags override it")
	fs.StringVar(&c.dataFile, "data", defaultDataFile, "fixture file with one post or an array of posts")
	fs.StringVar(&c.resultsFile, "results", defaultResultsFile, "CSV run-log to create")
	fs.DurationVar(&c.timeout, "timeout", defaultTimeout, "timeout for each HTTP request")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.skipFile, "skip-file", "", "file with test IDs to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed tests to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&c.xlsxFile, "xlsx", "", "write a spreadsheet report to the specified path")
	fs.BoolVar(&c.mock, "mock", false, "run against a built-in mock posts service instead of -url")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if c.configFile != "" {
		config, err := loadConfigFile(c.configFile)
		if err != nil {
			return err
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.applyTo(c, explicit)
	}

	if c.timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %s", c.timeout)
	}
	if c.dataFile == "" {
		return errors.New("-data cannot be empty")
	}
	if c.resultsFile == "" {
		return errors.New("-results cannot be empty")
	}
	return nil
}
