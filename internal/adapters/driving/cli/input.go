package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/input"
	"github.com/custodia-labs/combimatch-cli/internal/core/domain"
)

// inputFlags are shared by the commands that load numbers.
type inputFlags struct {
	file       string
	mode       string
	headerRows int
	columns    []string
	precision  int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read numbers from this file")
	cmd.Flags().StringVar(&f.mode, "mode", "", "input layout: line, comma or csv (default from settings)")
	cmd.Flags().IntVar(&f.headerRows, "header-rows", 0, "CSV rows to skip before the data")
	cmd.Flags().StringSliceVar(&f.columns, "column", nil, "CSV column letters to read (repeatable, default all)")
	cmd.Flags().IntVar(&f.precision, "precision", -1, "decimal places values are rounded to (default from settings)")
}

// options resolves the parser options against the stored settings.
func (f *inputFlags) options(settings *domain.AppSettings) (input.Options, int, error) {
	mode := settings.Input.Mode
	if f.mode != "" {
		mode = domain.InputMode(f.mode)
		if !mode.IsValid() {
			return input.Options{}, 0, &domain.ParameterError{Field: "mode", Reason: fmt.Sprintf("unknown input mode %q", f.mode)}
		}
	}
	precision := settings.Input.Precision
	if f.precision >= 0 {
		precision = f.precision
	}
	columns := make([]string, len(f.columns))
	for i, c := range f.columns {
		columns[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return input.Options{
		Mode:       mode,
		HeaderRows: f.headerRows,
		Columns:    columns,
	}, precision, nil
}

// errNoInput is returned when there is nothing to read and stdin is a
// terminal.
var errNoInput = errors.New("no input: pass numbers as arguments, use --file, or pipe them on stdin")

// readValues reads numbers from --file, the arguments, or stdin, in
// that order of preference.
func readValues(cmd *cobra.Command, args []string, opts input.Options, file string) ([]domain.RawValue, error) {
	switch {
	case file != "":
		return input.ParseFile(file, opts)
	case len(args) > 0:
		if opts.Mode == domain.InputModeCSV {
			opts.Mode = domain.InputModeLine
		}
		opts.Label = "arguments"
		return input.ParseText(strings.Join(args, "\n"), opts)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errNoInput
	}
	opts.Label = "stdin"
	values, err := input.Parse(in, opts)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(values) == 0 {
		return nil, errNoInput
	}
	return values, nil
}

// currentSettings returns stored settings, or defaults when no settings
// service is configured.
func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		d := domain.DefaultAppSettings()
		return &d, nil
	}
	s, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// searchFlags are shared by the commands that start a search.
type searchFlags struct {
	target     string
	tolerance  string
	minCount   int
	maxCount   int
	maxResults int
}

func (f *searchFlags) register(cmd *cobra.Command, targetUsage string) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", targetUsage)
	cmd.Flags().StringVar(&f.tolerance, "tolerance", "", "accepted distance from the target (default from settings)")
	cmd.Flags().IntVar(&f.minCount, "min", 0, "smallest subset size (default from settings)")
	cmd.Flags().IntVar(&f.maxCount, "max", 0, "largest subset size (default from settings)")
	cmd.Flags().IntVarP(&f.maxResults, "limit", "n", 0, "stop after this many combinations (default from settings)")
}

// params merges the flags that were set over the stored search defaults.
func (f *searchFlags) params(cmd *cobra.Command, settings *domain.AppSettings) (domain.SearchParams, error) {
	target, err := domain.ParseAmount(f.target)
	if err != nil {
		return domain.SearchParams{}, &domain.ParameterError{Field: "target", Reason: err.Error()}
	}
	params := settings.Search.Params(target)

	flags := cmd.Flags()
	if flags.Changed("tolerance") {
		tol, err := domain.ParseAmount(f.tolerance)
		if err != nil {
			return domain.SearchParams{}, &domain.ParameterError{Field: "tolerance", Reason: err.Error()}
		}
		params.Tolerance = tol
	}
	if flags.Changed("min") {
		params.MinCount = f.minCount
	}
	if flags.Changed("max") {
		params.MaxCount = f.maxCount
	}
	if flags.Changed("limit") {
		params.MaxResults = f.maxResults
	}
	return params, params.Validate()
}
