package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vvka-141/ddms/internal/checksum"
	"github.com/vvka-141/ddms/internal/files/scanner"
	"github.com/vvka-141/ddms/internal/tui"
	"github.com/vvka-141/ddms/pkg/ddms"
)

type validateFlagValues struct {
	schema bool
	strict bool
	json   bool
}

var validateFlags validateFlagValues

var validateCmd = &cobra.Command{
	Use:   "validate <path>...",
	Short: "Validate DDMS records",
	Long: `Validate DDMS records against the rules of their version.

Each argument is a record or a directory. Directories are searched
recursively for .xml files. The version of each record is detected from its
namespace unless --ddms-version is given.

Besides per-record errors and warnings, validate reports records that are
identical after normalization and identifiers used by more than one record.

Examples:
  # Validate every record below ./records
  ddms validate ./records

  # Also check the XML Schema of each record's version
  ddms validate ./records --schema

  # Fail on warnings and duplicates, report as JSON
  ddms validate a.xml b.xml --strict --json`,
	Args:              RequirePaths,
	RunE:              runValidate,
	ValidArgsFunction: completeDocuments,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateFlags.schema, "schema", false, "Validate against the XML Schema of each record's version")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "Treat warnings and duplicates as failures")
	validateCmd.Flags().BoolVar(&validateFlags.json, "json", false, "Write the report as JSON")
}

type documentReport struct {
	Path     string   `json:"path"`
	Version  string   `json:"version,omitempty"`
	Element  string   `json:"element,omitempty"`
	Valid    bool     `json:"valid"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Checksum string   `json:"checksum"`

	err error
}

type validationReport struct {
	Documents            []documentReport    `json:"documents"`
	DuplicateDocuments   [][]string          `json:"duplicateDocuments,omitempty"`
	DuplicateIdentifiers map[string][]string `json:"duplicateIdentifiers,omitempty"`
	Valid                int                 `json:"valid"`
	Invalid              int                 `json:"invalid"`
	Warnings             int                 `json:"warnings"`
}

func newValidationReport(result scanner.Result) *validationReport {
	r := &validationReport{
		DuplicateDocuments:   result.DuplicateDocuments(),
		DuplicateIdentifiers: result.DuplicateIdentifiers(),
	}
	for _, doc := range result.Documents {
		d := documentReport{Path: doc.Path, Checksum: doc.Checksum, Valid: doc.Valid(), err: doc.Err}
		if doc.Valid() {
			d.Version = doc.Component.Version().String()
			d.Element = doc.Component.QName()
			for _, w := range doc.Warnings() {
				d.Warnings = append(d.Warnings, w.String())
			}
			r.Valid++
		} else {
			d.Error = doc.Err.Error()
			r.Invalid++
		}
		r.Warnings += len(d.Warnings)
		r.Documents = append(r.Documents, d)
	}
	return r
}

func (r *validationReport) duplicates() int {
	return len(r.DuplicateDocuments) + len(r.DuplicateIdentifiers)
}

// err returns the error that decides the exit code. A single failing record
// keeps its own error kind; several collapse into ErrInvalidDocument.
func (r *validationReport) err(strict bool) error {
	total := len(r.Documents)
	switch {
	case total == 0:
		return fmt.Errorf("%w: no %s documents found", ddms.ErrUsage, ddms.DocumentExtension)
	case r.Invalid == 1 && total == 1:
		return fmt.Errorf("%s: %w", r.Documents[0].Path, r.Documents[0].err)
	case r.Invalid > 0:
		return fmt.Errorf("%d of %d documents failed: %w", r.Invalid, total, ddms.ErrInvalidDocument)
	case strict && r.Warnings > 0:
		return fmt.Errorf("%d warning(s) in strict mode: %w", r.Warnings, ddms.ErrInvalidDocument)
	case strict && r.duplicates() > 0:
		return fmt.Errorf("%d duplicate(s) in strict mode: %w", r.duplicates(), ddms.ErrInvalidDocument)
	}
	return nil
}

func (r *validationReport) writeJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (r *validationReport) writeText(w io.Writer, p tui.Printer) {
	for _, d := range r.Documents {
		if !d.Valid {
			fmt.Fprintln(w, p.Failure(d.Path+": "+d.Error))
			continue
		}
		fmt.Fprintln(w, p.Success(d.Path)+" "+p.Muted("("+d.Element+", DDMS "+d.Version+")"))
		for _, warning := range d.Warnings {
			fmt.Fprintln(w, "  "+p.Warning(warning))
		}
	}

	for _, paths := range r.DuplicateDocuments {
		fmt.Fprintln(w, p.Warning(fmt.Sprintf("identical documents: %v", paths)))
	}
	ids := make([]string, 0, len(r.DuplicateIdentifiers))
	for id := range r.DuplicateIdentifiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintln(w, p.Warning(fmt.Sprintf("identifier %q used by %v", id, r.DuplicateIdentifiers[id])))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Title(fmt.Sprintf("%d valid, %d invalid, %d warning(s), %d duplicate(s)",
		r.Valid, r.Invalid, r.Warnings, r.duplicates())))
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	reader, err := s.reader(boolFlagOverride(cmd, "schema"))
	if err != nil {
		return err
	}

	result, err := scanner.NewScanner(checksum.New(), reader).ScanPaths(args...)
	if err != nil {
		return err
	}
	s.logger.Verbose("Scanned %d document(s)", len(result.Documents))

	report := newValidationReport(result)
	out := cmd.OutOrStdout()
	if validateFlags.json {
		if err := report.writeJSON(out); err != nil {
			return err
		}
	} else {
		report.writeText(out, tui.NewPrinter(tui.ColorEnabled(out)))
	}
	return report.err(validateFlags.strict)
}
