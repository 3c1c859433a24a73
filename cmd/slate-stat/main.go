// Command slate-stat inspects delimited data files: it infers column
// types, previews rows and prints summary statistics.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/paveg/slate"
	"github.com/paveg/slate/internal/version"
	"github.com/shopspring/decimal"
)

const defaultPreviewRows = 10

func customUsage() {
	fmt.Fprintf(os.Stderr, "slate-stat (version %s)\n\n", version.Version)
	fmt.Fprintf(os.Stderr, "Usage: slate-stat [options] [file]\n\n")
	fmt.Fprintf(os.Stderr, "Reads CSV from file, or from stdin when no file is given.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --types\n\t\tPrint the inferred column types and exit\n")
	fmt.Fprintf(os.Stderr, "  --stats\n\t\tPrint summary statistics for every Number column\n")
	fmt.Fprintf(os.Stderr, "  --sample N\n\t\tRows to sample for type inference (default: %d)\n",
		slate.NewConfig().InferenceSampleSize)
	fmt.Fprintf(os.Stderr, "  --locale TAG\n\t\tBCP 47 locale for number parsing (default: en)\n")
	fmt.Fprintf(os.Stderr, "  --delimiter C\n\t\tField delimiter (default: ,)\n")
	fmt.Fprintf(os.Stderr, "  --limit N\n\t\tRows to show in the preview (default: %d)\n", defaultPreviewRows)
	fmt.Fprintf(os.Stderr, "  --config PATH\n\t\tLoad configuration from a JSON or YAML file\n")
	fmt.Fprintf(os.Stderr, "  -v, --version\n\t\tPrint version information and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	versionFlag := flag.Bool("v", false, "Print version and exit")
	flag.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	typesFlag := flag.Bool("types", false, "Print inferred column types and exit")
	statsFlag := flag.Bool("stats", false, "Print summary statistics")
	sampleFlag := flag.Int("sample", 0, "Rows to sample for type inference")
	localeFlag := flag.String("locale", "en", "BCP 47 locale for number parsing")
	delimiterFlag := flag.String("delimiter", ",", "Field delimiter")
	limitFlag := flag.Int("limit", defaultPreviewRows, "Rows to show in the preview")
	configFlag := flag.String("config", "", "Configuration file path")

	//nolint:reassign // Standard Go pattern for customizing flag usage message
	flag.Usage = customUsage

	flag.Parse()

	if *versionFlag {
		fmt.Print(version.Info().String())
		return
	}

	if *configFlag != "" {
		cfg, err := slate.LoadConfigFromFile(*configFlag)
		if err != nil {
			fatal("loading config: %v", err)
		}
		slate.SetConfig(cfg)
	}

	input, name, err := openInput(flag.Arg(0))
	if err != nil {
		fatal("%v", err)
	}
	defer input.Close()

	t, err := readTable(input, *delimiterFlag, *localeFlag, *sampleFlag)
	if err != nil {
		fatal("reading %s: %v", name, err)
	}

	switch {
	case *typesFlag:
		printTypes(t)
	case *statsFlag:
		printTypes(t)
		fmt.Println()
		if err := printStats(t); err != nil {
			fatal("computing statistics: %v", err)
		}
	default:
		if err := t.Limit(*limitFlag).Print(os.Stdout); err != nil {
			fatal("printing preview: %v", err)
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "slate-stat: "+format+"\n", args...)
	os.Exit(1)
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}

func readTable(r io.Reader, delimiter, locale string, sampleSize int) (*slate.Table, error) {
	options := slate.DefaultCSVOptions()
	if delimiter != "" {
		options.Delimiter = rune(delimiter[0])
	}
	options.TypeTester = slate.NewTypeTester(
		slate.NewBoolean(),
		slate.NewNumber(slate.WithLocale(slate.Locale(locale))),
		slate.NewTimeDelta(),
		slate.NewDate(),
		slate.NewDateTime(),
		slate.NewText(),
	)
	if sampleSize > 0 {
		options.SampleSize = sampleSize
	}
	return slate.FromCSV(r, options)
}

func printTypes(t *slate.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\ttype\tnulls")
	for _, col := range t.Columns() {
		fmt.Fprintf(w, "%s\t%s\t%d\n", col.Name(), col.DataType().Name(), col.NullCount())
	}
	w.Flush()
	fmt.Printf("%d rows\n", t.NumRows())
}

func printStats(t *slate.Table) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tcount\tmin\tmax\tmean\tmedian\tstdev")

	for _, col := range t.Columns() {
		if col.DataType().Name() != "Number" {
			continue
		}
		name := col.Name()

		stats := make([]string, 0, 6)
		for _, agg := range []slate.Aggregation{
			slate.Count(name),
			slate.Min(name),
			slate.Max(name),
			slate.Mean(name),
			slate.Median(name),
			slate.StDev(name),
		} {
			v, err := t.Aggregate(agg)
			if err != nil {
				// Undefined statistics (stdev of one row, min of an
				// all-null column) render as a dash.
				stats = append(stats, "-")
				continue
			}
			stats = append(stats, formatStat(v))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			name, stats[0], stats[1], stats[2], stats[3], stats[4], stats[5])
	}

	return w.Flush()
}

func formatStat(v any) string {
	if v == nil {
		return "-"
	}
	if d, ok := v.(decimal.Decimal); ok {
		return d.Round(4).String()
	}
	return fmt.Sprint(v)
}
