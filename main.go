package main

import (
	"bufio"
	_ "embed" // this is required in order for go:embed to work
	"fmt"
	"log"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/restcheck/posts-contract-tests/framework"
	"github.com/restcheck/posts-contract-tests/framework/apitest"
	"github.com/restcheck/posts-contract-tests/framework/harness"
	"github.com/restcheck/posts-contract-tests/mockapi"
	"github.com/restcheck/posts-contract-tests/poststests"
	"github.com/restcheck/posts-contract-tests/reporter"
	"github.com/restcheck/posts-contract-tests/resultlog"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const probeTimeout = time.Second * 10

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

func main() {
	fmt.Printf("posts-contract-tests v%s\n", strings.TrimSpace(versionString))

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*apitest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = framework.LoggerWithPrefix(log.New(os.Stdout, "", log.LstdFlags), "[harness] ")
	}

	targetURL := params.targetURL
	if params.mock {
		server, err := startMockService(params.debugAll)
		if err != nil {
			return nil, err
		}
		defer server.Close()
		targetURL = server.URL
		fmt.Printf("Started mock posts service at %s\n", targetURL)
	}

	target, err := harness.NewTarget(targetURL, params.timeout, mainDebugLogger)
	if err != nil {
		return nil, err
	}
	if err := target.Probe(probeTimeout, os.Stdout); err != nil {
		// every case will still run and be recorded as a failure with status 0
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}

	csvLog, err := resultlog.Create(params.resultsFile)
	if err != nil {
		return nil, err
	}
	var sink resultlog.Sink = csvLog
	var excelReport *reporter.ExcelReport
	if params.xlsxFile != "" {
		excelReport = reporter.NewExcelReport()
		sink = resultlog.MultiSink{csvLog, excelReport}
	}

	var testLogger apitest.TestLogger
	consoleLogger := apitest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		testLogger = &apitest.MultiTestLogger{Loggers: []apitest.TestLogger{
			consoleLogger,
			apitest.NewJUnitTestLogger(params.jUnitFile, target.BaseURL(), params.filters),
		}}
	}

	startTime := time.Now()
	results := poststests.RunPostsTestSuite(target, sink, params.dataFile, params.filters, testLogger)
	duration := time.Since(startTime)

	fmt.Println()
	logErr := testLogger.EndLog(results)
	fmt.Printf("Results written to %s\n", csvLog.Path())

	if excelReport != nil {
		fmt.Printf("Writing spreadsheet report to %s\n", params.xlsxFile)
		if err := excelReport.Write(params.xlsxFile, duration); err != nil {
			return nil, fmt.Errorf("error writing spreadsheet report: %w", err)
		}
	}

	if logErr != nil {
		return nil, fmt.Errorf("error writing log: %w", logErr)
	}

	if params.recordFailures != "" {
		if err := recordFailures(params.recordFailures, results); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

func startMockService(debug bool) (*httptest.Server, error) {
	serviceLogger := framework.NullLogger()
	if debug {
		loggers := ldlog.NewDefaultLoggers()
		loggers.SetMinLevel(ldlog.Debug)
		loggers.SetPrefix("[mockapi]")
		serviceLogger = loggers.ForLevel(ldlog.Debug)
	}
	service, err := mockapi.NewPostsService(mockapi.DefaultPostCount, serviceLogger)
	if err != nil {
		return nil, err
	}
	return httptest.NewServer(service), nil
}

// recordFailures writes one failed test ID per line, in the format read by -skip-file.
func recordFailures(path string, results apitest.Results) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, test := range results.Failures {
		_, _ = fmt.Fprintln(w, test.TestID)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write suppression file: %w", err)
	}
	return f.Close()
}

func loadSuppressions(params *commandParams) error {
	file, err := os.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines and comments
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		escaped := regexp.QuoteMeta(trimmed)
		if err := params.filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}
